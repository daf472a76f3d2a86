package order

import (
	"strings"

	"github.com/example/snack-storefront/internal/domain/cart"
)

// CustomerInfo is collected at checkout and lives only as long as the request
type CustomerInfo struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Notes    string `json:"notes,omitempty"`
}

// ValidationError lists the required customer fields that are missing
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// Validate returns a *ValidationError naming every blank required field, or nil
func (c CustomerInfo) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(c.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(c.Location) == "" {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func (c CustomerInfo) trimmed() CustomerInfo {
	return CustomerInfo{
		Name:     strings.TrimSpace(c.Name),
		Phone:    strings.TrimSpace(c.Phone),
		Location: strings.TrimSpace(c.Location),
		Notes:    strings.TrimSpace(c.Notes),
	}
}

// CanCheckout reports whether an order may be handed off
func CanCheckout(items []cart.LineItem, customer CustomerInfo) bool {
	return len(items) > 0 && customer.Validate() == nil
}
