package service

import (
	"sync"
	"testing"

	"github.com/recanto/api/internal/model"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []Notification
}

func (s *recordingSender) Send(n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, n)
	return nil
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func TestDispatcher_DrainsQueueOnClose(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, nil)

	for i := 0; i < 5; i++ {
		d.Enqueue(Notification{ID: "n", To: "maria@example.com", Subject: "teste"})
	}
	d.Close()

	if sender.count() != 5 {
		t.Errorf("expected 5 deliveries after close, got %d", sender.count())
	}
}

func TestMailNotifier_EnrollmentCreated_QueuesMailToClient(t *testing.T) {
	t.Parallel()

	sender := &recordingSender{}
	d := NewDispatcher(sender, 8, nil)
	notifier := NewMailNotifier(d)

	notifier.EnrollmentCreated(
		activeClient("client:1"),
		openActivity("activity:1", 10, 1),
		&model.Enrollment{ID: "enrollment:1"},
	)
	d.Close()

	if sender.count() != 1 {
		t.Fatalf("expected 1 delivery, got %d", sender.count())
	}
	if sender.sent[0].To != "maria@example.com" {
		t.Errorf("expected mail to the client, got %q", sender.sent[0].To)
	}
}
