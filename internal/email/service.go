package email

import (
	"fmt"
	"net/smtp"
)

// Service handles email sending via SMTP
type Service struct {
	host string
	port string
	from string
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host: host,
		port: port,
		from: from,
	}
}

// SendBookingConfirmation sends a booking confirmation email
func (s *Service) SendBookingConfirmation(to string, b BookingSummary) error {
	subject := fmt.Sprintf("Booking confirmed: %s", b.BookingNumber)
	body := BuildBookingConfirmationBody(b)
	return s.send(to, subject, body)
}

// SendStatusUpdate sends a shipment status change email
func (s *Service) SendStatusUpdate(to string, u StatusUpdate) error {
	subject := fmt.Sprintf("Shipment update: %s (%s)", u.BookingNumber, u.StatusLabel)
	body := BuildStatusUpdateBody(u)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg))
}
