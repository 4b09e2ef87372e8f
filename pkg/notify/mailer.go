package notify

import (
	"sync"

	"clinic-booking/pkg/utils"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a plain-text e-mail notification
type Message struct {
	To      string
	Subject string
	Body    string
}

type Notifier interface {
	Notify(msg Message)
}

// Mailer delivers notifications over SMTP in the background. Without an SMTP
// host it only logs what would have been sent.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.Logger
	wg     sync.WaitGroup
}

func NewMailer(cfg utils.EmailConfig, log *zap.Logger) *Mailer {
	m := &Mailer{
		from: cfg.From,
		log:  log.With(zap.String("component", "mailer")),
	}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
		if m.from == "" {
			m.from = cfg.User
		}
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m.dialer != nil
}

// Notify never blocks the caller and never fails the request that triggered it.
func (m *Mailer) Notify(msg Message) {
	if msg.To == "" {
		return
	}

	if m.dialer == nil {
		m.log.Info("Notification (smtp disabled)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		gm := gomail.NewMessage()
		gm.SetHeader("From", m.from)
		gm.SetHeader("To", msg.To)
		gm.SetHeader("Subject", msg.Subject)
		gm.SetBody("text/plain", msg.Body)

		if err := m.dialer.DialAndSend(gm); err != nil {
			m.log.Error("Failed to send notification",
				zap.String("to", msg.To),
				zap.String("subject", msg.Subject),
				zap.Error(err))
			return
		}
		m.log.Debug("Notification sent", zap.String("to", msg.To))
	}()
}

// Wait blocks until in-flight deliveries finish
func (m *Mailer) Wait() {
	m.wg.Wait()
}
