package email

import (
	"fmt"
	"net/smtp"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	sendMail sendFunc
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// SendHandoffDigest tells shop staff which basket a customer just sent over chat
func (s *Service) SendHandoffDigest(to string, digest Digest) error {
	subject := fmt.Sprintf("[%s] Incoming order %s (%s %s)", digest.ShopName, ShortRef(digest.OrderRef), digest.Currency, formatNumber(digest.Subtotal))
	body := BuildHandoffDigestBody(digest)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return s.sendMail(addr, nil, s.from, []string{to}, []byte(msg))
}

// ShortRef returns the first 8 characters of an order reference
func ShortRef(ref string) string {
	if len(ref) > 8 {
		return ref[:8]
	}
	return ref
}
