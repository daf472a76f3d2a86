package order

import (
	"errors"
	"net/url"
	"strings"
)

const (
	DefaultHandoffBaseURL = "https://wa.me"
	PlaceholderRecipient  = "YOUR_WHATSAPP_E164"
)

var ErrRecipientNotConfigured = errors.New("handoff recipient is not configured")

// Handoff builds deep links that open a chat with the shop prefilled with a message
type Handoff struct {
	BaseURL   string
	Recipient string
}

func NewHandoff(baseURL, recipient string) Handoff {
	if baseURL == "" {
		baseURL = DefaultHandoffBaseURL
	}
	return Handoff{BaseURL: strings.TrimRight(baseURL, "/"), Recipient: recipient}
}

// URL returns <base>/<recipient>?text=<message> with the message percent-encoded
func (h Handoff) URL(message string) (string, error) {
	recipient := strings.TrimSpace(h.Recipient)
	if recipient == "" {
		return "", ErrRecipientNotConfigured
	}
	base := strings.TrimRight(h.BaseURL, "/")
	if base == "" {
		base = DefaultHandoffBaseURL
	}
	return base + "/" + url.PathEscape(recipient) + "?text=" + EncodeText(message), nil
}

// IsPlaceholder reports whether the recipient is still the shipped placeholder
func (h Handoff) IsPlaceholder() bool {
	return strings.TrimSpace(h.Recipient) == PlaceholderRecipient
}

// componentUnescaper restores the characters encodeURIComponent leaves bare
var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeText percent-encodes s the way browsers' encodeURIComponent does:
// spaces become %20 and ! ' ( ) * stay literal.
func EncodeText(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
