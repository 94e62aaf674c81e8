package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/platform/logger"
)

type flakySender struct {
	sent   []string
	failOn string
}

func (s *flakySender) Send(_ context.Context, m Message) error {
	if m.To == s.failOn {
		return errors.New("mailbox unavailable")
	}
	s.sent = append(s.sent, m.To)
	return nil
}

func TestFlushRequeuesOnFailure(t *testing.T) {
	q := NewQueue()
	for _, to := range []string{"a@x", "b@x", "c@x"} {
		q.Enqueue(Message{To: to, Subject: "confirm"})
	}

	s := &flakySender{failOn: "b@x"}
	if err := Flush(context.Background(), q, s); err == nil {
		t.Fatal("expected an error")
	}
	if len(s.sent) != 1 || q.Len() != 2 {
		t.Fatalf("sent=%v queued=%d", s.sent, q.Len())
	}

	s.failOn = ""
	if err := Flush(context.Background(), q, s); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if strings.Join(s.sent, ",") != "a@x,b@x,c@x" || q.Len() != 0 {
		t.Fatalf("order not kept: %v", s.sent)
	}
}

func TestSMTPSender(t *testing.T) {
	var gotAddr string
	var gotMsg []byte
	s := NewSMTPSender(SMTPConfig{Server: "mail.example.com:587", Username: "u", Password: "p", From: "noreply@example.com"})
	s.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		if a == nil || from != "noreply@example.com" || len(to) != 1 || to[0] != "l@example.com" {
			t.Fatalf("unexpected envelope %v %s %v", a, from, to)
		}
		return nil
	}
	if err := s.Send(context.Background(), Message{To: "l@example.com", Subject: "hi", Body: "line1\nline2"}); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotAddr != "mail.example.com:587" || !strings.Contains(string(gotMsg), "Subject: hi\r\n") || !strings.HasSuffix(string(gotMsg), "line1\r\nline2") {
		t.Fatalf("unexpected message %q", gotMsg)
	}

	bad := NewSMTPSender(SMTPConfig{Server: "no-port"})
	if err := bad.Send(context.Background(), Message{To: "x"}); err == nil {
		t.Fatal("server without port accepted")
	}
}

func TestComposeHeaders(t *testing.T) {
	msg := string(compose("f@x", Message{To: "t@x", Subject: "s", Body: "b"}, time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)))
	if !strings.HasPrefix(msg, "From: f@x\r\nTo: t@x\r\n") || !strings.Contains(msg, "charset=UTF-8") {
		t.Fatalf("unexpected headers %q", msg)
	}
}

func TestLogSender(t *testing.T) {
	if err := NewLogSender(logger.Nop()).Send(context.Background(), Message{To: "x"}); err != nil {
		t.Fatal(err)
	}
}
