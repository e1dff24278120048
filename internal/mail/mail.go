package mail

import (
	"context"
	"errors"
	"fmt"
	netmail "net/mail"
	"sync"

	gaemail "go.chromium.org/luci/gae/service/mail"
	"go.uber.org/zap"

	"github.com/explorationlab/explorations/internal/models"
)

var errNotTestable = errors.New("mail service in context is not testable")

// Mailer sends email.
type Mailer interface {
	Send(ctx context.Context, msg models.MailMessage) error
}

// Outbox is a Mailer that keeps what it sent.
type Outbox interface {
	Mailer
	Messages(ctx context.Context) ([]models.MailMessage, error)
}

// GAEMailer sends through the App Engine mail service found in the context.
type GAEMailer struct{}

func NewGAEMailer() *GAEMailer {
	return &GAEMailer{}
}

func (m *GAEMailer) Send(ctx context.Context, msg models.MailMessage) error {
	return gaemail.Send(ctx, &gaemail.Message{
		Sender:  msg.Sender,
		To:      msg.To,
		Subject: msg.Subject,
		Body:    msg.Body,
	})
}

// Messages returns the messages captured by the in-memory mail service.
func (m *GAEMailer) Messages(ctx context.Context) ([]models.MailMessage, error) {
	t := gaemail.GetTestable(ctx)
	if t == nil {
		return nil, errNotTestable
	}
	sent := t.SentMessages()
	msgs := make([]models.MailMessage, 0, len(sent))
	for _, s := range sent {
		msgs = append(msgs, models.MailMessage{
			Sender:  s.Sender,
			To:      append([]string(nil), s.To...),
			Subject: s.Subject,
			Body:    s.Body,
		})
	}
	return msgs, nil
}

// Recorder keeps messages in memory and logs them instead of sending.
type Recorder struct {
	mu   sync.Mutex
	msgs []models.MailMessage
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Send(ctx context.Context, msg models.MailMessage) error {
	if err := validate(msg); err != nil {
		return err
	}

	r.mu.Lock()
	r.msgs = append(r.msgs, msg)
	r.mu.Unlock()

	zap.S().Named("mail").Infow("mail recorded", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (r *Recorder) Messages(_ context.Context) ([]models.MailMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.MailMessage(nil), r.msgs...), nil
}

// Reset drops every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.msgs = nil
	r.mu.Unlock()
}

func validate(msg models.MailMessage) error {
	if _, err := netmail.ParseAddress(msg.Sender); err != nil {
		return fmt.Errorf("invalid sender %q: %w", msg.Sender, err)
	}
	if len(msg.To) == 0 {
		return errors.New("message has no recipients")
	}
	for _, to := range msg.To {
		if _, err := netmail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}
	return nil
}
