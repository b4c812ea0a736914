package email

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Sender delivers composed messages. *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Attachment is a file added to an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Service sends storefront email over SMTP
type Service struct {
	sender Sender
	from   string
}

// NewService creates an email service on top of an SMTP dialer
func NewService(host string, port int, username, password, from string) *Service {
	return NewServiceWithSender(gomail.NewDialer(host, port, username, password), from)
}

func NewServiceWithSender(sender Sender, from string) *Service {
	return &Service{sender: sender, from: from}
}

// SendOrderConfirmation mails the order summary, attaching the invoice when given
func (s *Service) SendOrderConfirmation(to string, c Confirmation, attachments ...Attachment) error {
	subject := fmt.Sprintf("Order confirmed: #%s", shortID(c.OrderID))
	body := BuildOrderConfirmationBody(c)
	return s.send(to, subject, body, attachments)
}

// SendOrderStatus tells the customer their order moved to a new status
func (s *Service) SendOrderStatus(to string, u StatusUpdate) error {
	subject := fmt.Sprintf("Order #%s is %s", shortID(u.OrderID), u.Status)
	return s.send(to, subject, BuildStatusUpdateBody(u), nil)
}

func (s *Service) send(to, subject, body string, attachments []Attachment) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	for _, a := range attachments {
		data := a.Data
		settings := []gomail.FileSetting{
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.Attach(a.Filename, settings...)
	}

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, to, err)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
