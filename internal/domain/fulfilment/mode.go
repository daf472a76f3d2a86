// Package fulfilment defines the closed set of delivery/payment arrangements a customer can pick.
package fulfilment

type ID string

const (
	UberFlash   ID = "uber_flash"
	PreorderCOD ID = "preorder_cod"
)

// Mode carries descriptive metadata only; it has no pricing logic
type Mode struct {
	ID               ID     `json:"id"`
	Label            string `json:"label"`
	Description      string `json:"description"`
	Payment          string `json:"payment,omitempty"`
	LeadTime         string `json:"lead_time,omitempty"`
	Coverage         string `json:"coverage,omitempty"`
	AvailabilityNote string `json:"availability_note,omitempty"`
}

var modes = []Mode{
	{
		ID:               UberFlash,
		Label:            "Uber Flash (Colombo & Nearby)",
		Description:      "Instant courier. Fees apply at actuals (paid to rider).",
		Payment:          "Pay rider directly",
		AvailabilityNote: "Subject to rider availability & weather",
	},
	{
		ID:          PreorderCOD,
		Label:       "Pre-Order (COD)",
		Description: "Prepare & reserve your order. Pay cash on delivery.",
		LeadTime:    "1–2 days",
		Coverage:    "Island-wide",
	},
}

// Modes returns every mode in display order
func Modes() []Mode {
	return append([]Mode(nil), modes...)
}

// Default is the mode a fresh cart starts with
func Default() Mode {
	return modes[0]
}

func Lookup(id ID) (Mode, bool) {
	for _, m := range modes {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}
