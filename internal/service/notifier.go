package service

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"sync"

	"github.com/google/uuid"

	"github.com/recanto/api/internal/model"
)

// Notification is one outbound message queued for delivery.
type Notification struct {
	ID      string
	To      string
	Subject string
	Body    string
}

// Sender delivers a single notification.
type Sender interface {
	Send(n Notification) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(n Notification) error

func (f SenderFunc) Send(n Notification) error { return f(n) }

// SMTPSender delivers notifications over plain SMTP.
type SMTPSender struct {
	Addr string // host:port
	From string
	Auth smtp.Auth // optional
}

// Send delivers one message. Connection setup happens per message;
// volume here is a handful of mails a day, not a campaign.
func (s *SMTPSender) Send(n Notification) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.From, n.To, n.Subject, n.Body)
	return smtp.SendMail(s.Addr, s.Auth, s.From, []string{n.To}, []byte(msg))
}

// Dispatcher decouples notification delivery from request handling.
// Enqueue never blocks: when the buffer is full the notification is
// dropped with a warning. A single worker drains the queue.
type Dispatcher struct {
	sender Sender
	queue  chan Notification
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts a dispatcher with the given buffer size.
func NewDispatcher(sender Sender, buffer int, logger *slog.Logger) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sender: sender,
		queue:  make(chan Notification, buffer),
		logger: logger,
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue queues a notification for delivery without blocking.
func (d *Dispatcher) Enqueue(n Notification) {
	select {
	case d.queue <- n:
	default:
		d.logger.Warn("notification queue full, dropping",
			"notification_id", n.ID,
			"to", n.To)
	}
}

// Close stops accepting notifications and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
		<-d.done
	})
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		if err := d.sender.Send(n); err != nil {
			d.logger.Error("notification delivery failed",
				"notification_id", n.ID,
				"to", n.To,
				"error", err)
			continue
		}
		d.logger.Info("notification delivered",
			"notification_id", n.ID,
			"to", n.To)
	}
}

// MailNotifier turns enrollment events into queued mails. Implements
// EnrollmentNotifier.
type MailNotifier struct {
	dispatcher *Dispatcher
}

// NewMailNotifier creates a mail notifier backed by a dispatcher.
func NewMailNotifier(dispatcher *Dispatcher) *MailNotifier {
	return &MailNotifier{dispatcher: dispatcher}
}

// EnrollmentCreated queues the enrollment confirmation mail.
func (m *MailNotifier) EnrollmentCreated(client *model.Client, activity *model.Activity, enrollment *model.Enrollment) {
	m.dispatcher.Enqueue(Notification{
		ID:      uuid.NewString(),
		To:      client.Email,
		Subject: fmt.Sprintf("Inscrição recebida: %s", activity.Name),
		Body: fmt.Sprintf(
			"Olá %s,\n\nSua inscrição na atividade %s foi registrada e aguarda confirmação de pagamento.\n\nUnidade: %s\nValor: R$ %.2f\n\nRecanto das Garças",
			client.Name, activity.Name, activity.Unit, activity.Price),
	})
}

// EnrollmentCanceled queues the cancellation mail.
func (m *MailNotifier) EnrollmentCanceled(client *model.Client, activity *model.Activity, enrollment *model.Enrollment) {
	reason := ""
	if enrollment.CancelReason != nil {
		reason = fmt.Sprintf("\nMotivo: %s\n", *enrollment.CancelReason)
	}
	m.dispatcher.Enqueue(Notification{
		ID:      uuid.NewString(),
		To:      client.Email,
		Subject: fmt.Sprintf("Inscrição cancelada: %s", activity.Name),
		Body: fmt.Sprintf(
			"Olá %s,\n\nSua inscrição na atividade %s foi cancelada.%s\nSe isso foi um engano, fale com a nossa equipe.\n\nRecanto das Garças",
			client.Name, activity.Name, reason),
	})
}
