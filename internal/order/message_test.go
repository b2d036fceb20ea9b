package order

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"millex/internal"
	"millex/internal/cart"
)

func cartWith(t *testing.T, entries ...internal.CartLine) *cart.Cart {
	t.Helper()
	c := cart.New()
	for _, e := range entries {
		if err := c.SetQuantity(e.Code, internal.LineSnapshot{Name: e.Name, Price: e.Price}, e.Quantity); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestMessage(t *testing.T) {
	c := cartWith(t,
		internal.CartLine{Code: "A1", Name: "Food", Price: decimal.NewFromInt(10), Quantity: 2},
	)

	want := "Hola! Quiero hacer un pedido de los siguientes productos:\n" +
		"- Food (Code A1) x 2\n" +
		"\nTotal: $20.00"
	if got := Message(c); got != want {
		t.Fatalf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestMessageDeterministicOrder(t *testing.T) {
	c := cartWith(t,
		internal.CartLine{Code: "B2", Name: "Correa", Price: decimal.NewFromInt(5), Quantity: 1},
		internal.CartLine{Code: "A1", Name: "Collar", Price: decimal.NewFromInt(10), Quantity: 2},
	)

	first := Message(c)
	if first != Message(c) {
		t.Fatal("message not stable for fixed cart state")
	}
	if strings.Index(first, "B2") > strings.Index(first, "A1") {
		t.Fatalf("lines not in insertion order:\n%s", first)
	}
}

func TestWhatsAppLink(t *testing.T) {
	c := cartWith(t,
		internal.CartLine{Code: "A1", Name: "Food", Price: decimal.NewFromInt(10), Quantity: 2},
	)

	link := WhatsAppLink(c, "5493516434765")
	if !strings.HasPrefix(link, "https://wa.me/5493516434765?text=") {
		t.Fatalf("link=%s", link)
	}
	if strings.Contains(link, "+") {
		t.Fatal("spaces must encode as %20, not +")
	}
	if !strings.Contains(link, "Food%20%28Code%20A1%29%20x%202") {
		t.Fatalf("order line not encoded in link: %s", link)
	}
}
