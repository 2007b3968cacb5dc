package notify

import (
	"context"
	"testing"
	"time"

	"coldcall_backend/internal/events"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeSender struct {
	sent []ReminderEmailData
	to   []string
}

func (s *fakeSender) SendAppointmentReminder(_ context.Context, toEmail string, data ReminderEmailData) error {
	s.to = append(s.to, toEmail)
	s.sent = append(s.sent, data)
	return nil
}

type fakeDirectory struct {
	name  string
	email string
}

func (d fakeDirectory) GetAgentContact(context.Context, uuid.UUID) (string, string, error) {
	return d.name, d.email, nil
}

func TestNotifierSendsReminderEmail(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, fakeDirectory{name: "Ayşe", email: "ayse@example.com"}, logger.New("development"))

	event := events.AppointmentReminderDue{
		BaseEvent:       events.NewBaseEvent(),
		LeadID:          uuid.New(),
		AgentID:         uuid.New(),
		BusinessName:    "Kuaför Salonu",
		Phone:           "905551234567",
		AppointmentDate: time.Date(2026, 3, 14, 14, 30, 0, 0, time.Local),
	}

	if err := notifier.handleReminderDue(context.Background(), event); err != nil {
		t.Fatal(err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sender.sent))
	}
	if sender.to[0] != "ayse@example.com" {
		t.Fatalf("unexpected recipient %q", sender.to[0])
	}
	data := sender.sent[0]
	if data.BusinessName != "Kuaför Salonu" {
		t.Fatalf("unexpected business name %q", data.BusinessName)
	}
	if data.AppointmentAt != "14.03.2026 14:30" {
		t.Fatalf("unexpected formatted date %q", data.AppointmentAt)
	}
}

func TestNotifierSkipsAgentsWithoutEmail(t *testing.T) {
	sender := &fakeSender{}
	notifier := NewNotifier(sender, fakeDirectory{name: "Mehmet"}, logger.New("development"))

	event := events.AppointmentReminderDue{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       uuid.New(),
		AgentID:      uuid.New(),
		BusinessName: "Nakliyat",
	}

	if err := notifier.handleReminderDue(context.Background(), event); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email for agent without address, got %d", len(sender.sent))
	}
}
