package order

import (
	"fmt"
	"net/url"
	"strings"

	"millex/internal/cart"
	"millex/internal/util"
)

const greeting = "Hola! Quiero hacer un pedido de los siguientes productos:"

// Message renders the cart as the order summary handed to the messaging
// channel. Output is stable for a fixed cart state: lines appear in insertion
// order and the text is embedded verbatim into the outbound link.
func Message(c *cart.Cart) string {
	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n")
	for _, line := range c.Lines() {
		fmt.Fprintf(&b, "- %s (Code %s) x %d\n", line.Name, line.Code, line.Quantity)
	}
	b.WriteString("\nTotal: ")
	b.WriteString(util.FormatMoney(c.Total()))
	return b.String()
}

// WhatsAppLink builds the deep link that opens a chat with the shop and the
// order message pre-filled. Spaces are encoded as %20, not +: the consuming
// app treats the text query parameter as a path-style component.
func WhatsAppLink(c *cart.Cart, phone string) string {
	encoded := strings.ReplaceAll(url.QueryEscape(Message(c)), "+", "%20")
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, encoded)
}
