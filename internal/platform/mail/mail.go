package mail

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"sync"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type Message struct {
	To      string
	Subject string
	Body    string
}

// Queue is a FIFO of outgoing mail shared by request handlers and the janitor.
type Queue struct {
	mu    sync.RWMutex
	items []Message
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Enqueue(m Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, m)
}

func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Drain removes and returns everything queued.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// requeue puts unsent messages back at the front.
func (q *Queue) requeue(ms []Message) {
	if len(ms) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(append([]Message(nil), ms...), q.items...)
}

type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Flush sends every queued message. Messages that fail are requeued in order
// and the first error is returned.
func Flush(ctx context.Context, q *Queue, s Sender) error {
	pending := q.Drain()
	for i, m := range pending {
		if err := ctx.Err(); err != nil {
			q.requeue(pending[i:])
			return err
		}
		if err := s.Send(ctx, m); err != nil {
			q.requeue(pending[i:])
			return fmt.Errorf("send mail to %s: %w", m.To, err)
		}
	}
	return nil
}

type SMTPConfig struct {
	Server   string // host:port
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg, send: smtp.SendMail}
}

func (s *SMTPSender) Send(_ context.Context, m Message) error {
	host, _, err := net.SplitHostPort(s.cfg.Server)
	if err != nil {
		return fmt.Errorf("smtp server %q: %w", s.cfg.Server, err)
	}
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, host)
	}
	return s.send(s.cfg.Server, auth, s.cfg.From, []string{m.To}, compose(s.cfg.From, m, time.Now()))
}

func compose(from string, m Message, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", m.Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(strings.ReplaceAll(m.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// LogSender writes mail to the log instead of sending it. Used when no SMTP
// server is configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log.With("service", "LogSender")}
}

func (s *LogSender) Send(_ context.Context, m Message) error {
	s.log.Info("mail not sent (no smtp server)", "to", m.To, "subject", m.Subject)
	return nil
}
