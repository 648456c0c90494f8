package catalog

import (
	"net/url"
)

// DefaultWhatsAppNumber is the shop's inquiry number used when no number is
// configured.
const DefaultWhatsAppNumber = "447936761983"

// WhatsAppLink builds a wa.me deep link that opens a chat pre-filled with an
// inquiry about the product. The price line is included only when the
// product has a price, formatted to two decimal places.
func WhatsAppLink(p Product, number string) string {
	if number == "" {
		number = DefaultWhatsAppNumber
	}

	message := "Hi! I'm interested in:\n" + p.Name
	if p.Price != nil {
		message += "\nPrice: £" + p.Price.StringFixed(2)
	}

	return "https://wa.me/" + number + "?text=" + url.QueryEscape(message)
}
