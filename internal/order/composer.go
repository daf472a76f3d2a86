package order

import (
	"fmt"
	"strings"

	"github.com/example/snack-storefront/internal/catalog"
	"github.com/example/snack-storefront/internal/domain/cart"
	"github.com/example/snack-storefront/internal/domain/fulfilment"
)

const (
	DefaultShopName = "Roshan Grams"
	DefaultCurrency = "LKR"
)

// Composer renders order summaries as plain chat text. It has no side effects.
type Composer struct {
	ShopName string
	Currency string
}

func NewComposer(shopName, currency string) Composer {
	if shopName == "" {
		shopName = DefaultShopName
	}
	if currency == "" {
		currency = DefaultCurrency
	}
	return Composer{ShopName: shopName, Currency: currency}
}

// Compose builds the order message. Lead time and notes lines are left out when empty.
func (c Composer) Compose(items []cart.LineItem, mode fulfilment.Mode, customer CustomerInfo) string {
	customer = customer.trimmed()

	var b strings.Builder
	fmt.Fprintf(&b, "%s Order:\n", c.ShopName)
	for _, item := range items {
		fmt.Fprintf(&b, "- %d x %s (%s) — %s %d\n", item.Quantity, item.Name, item.WeightOption.Label, c.Currency, item.Total())
	}

	fmt.Fprintf(&b, "\nSubtotal: %s %d\n", c.Currency, cart.Subtotal(items))
	fmt.Fprintf(&b, "Fulfilment: %s\n", mode.Label)
	if mode.LeadTime != "" {
		fmt.Fprintf(&b, "Lead Time: %s\n", mode.LeadTime)
	}

	b.WriteString("\nCustomer Details:\n")
	fmt.Fprintf(&b, "Name: %s\n", customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", customer.Phone)
	fmt.Fprintf(&b, "Location: %s\n", customer.Location)
	if customer.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", customer.Notes)
	}

	b.WriteString("\nPlease confirm availability and total amount including delivery charges.")
	return b.String()
}

// QuickOrder builds the short express-order message: one line per product using its first weight
func (c Composer) QuickOrder(customerName string, products []catalog.Product) string {
	lines := make([]string, len(products))
	for i, p := range products {
		label := ""
		if len(p.Weights) > 0 {
			label = p.Weights[0].Label
		}
		lines[i] = fmt.Sprintf("- %s (%s)", p.Name, label)
	}

	return fmt.Sprintf("Hi %s! Quick Order from %s:\n\n%s\n\nPlease confirm availability and total price. Thank you!",
		c.ShopName, strings.TrimSpace(customerName), strings.Join(lines, "\n"))
}
