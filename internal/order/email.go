package order

import (
	"fmt"
	"net/smtp"

	"github.com/jhillyerd/enmime"

	"millex/internal/cart"
	"millex/internal/config"
)

// Email sends the order through the configured SMTP relay: plain-text order
// message in the body, the PDF attached. The sender is injected so tests can
// capture the outbound message.
func Email(cfg config.Config, c *cart.Cart, sender enmime.Sender) error {
	if err := cfg.Require("ORDER_EMAIL_FROM", cfg.OrderEmailFrom); err != nil {
		return err
	}
	if err := cfg.Require("ORDER_EMAIL_TO", cfg.OrderEmailTo); err != nil {
		return err
	}

	pdfBytes, err := PDF(c)
	if err != nil {
		return err
	}

	return enmime.Builder().
		From("", cfg.OrderEmailFrom).
		To("", cfg.OrderEmailTo).
		Subject("Nuevo pedido Millex").
		Text([]byte(Message(c))).
		AddAttachment(pdfBytes, PDFMIMEType, PDFFileName).
		Send(sender)
}

// SendEmail wires Email to the SMTP server from config.
func SendEmail(cfg config.Config, c *cart.Cart) error {
	if err := cfg.Require("SMTP_HOST", cfg.SMTPHost); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return Email(cfg, c, enmime.NewSMTP(addr, auth))
}
