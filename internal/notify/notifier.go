package notify

import (
	"context"
	"fmt"

	"coldcall_backend/internal/events"
	"coldcall_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AgentDirectory resolves the contact details of an agent.
type AgentDirectory interface {
	GetAgentContact(ctx context.Context, agentID uuid.UUID) (name, email string, err error)
}

// Notifier listens for due appointment reminders and emails the assigned
// agent.
type Notifier struct {
	sender Sender
	agents AgentDirectory
	log    *logger.Logger
}

func NewNotifier(sender Sender, agents AgentDirectory, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, agents: agents, log: log}
}

// Subscribe wires the notifier onto the event bus.
func (n *Notifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.AppointmentReminderDue{}.EventName(), events.HandlerFunc(n.handleReminderDue))
}

func (n *Notifier) handleReminderDue(ctx context.Context, event events.Event) error {
	due, ok := event.(events.AppointmentReminderDue)
	if !ok {
		return nil
	}

	name, email, err := n.agents.GetAgentContact(ctx, due.AgentID)
	if err != nil {
		return fmt.Errorf("resolve agent contact: %w", err)
	}
	if email == "" {
		n.log.Warn("agent has no email, skipping reminder", "agent_id", due.AgentID)
		return nil
	}

	data := ReminderEmailData{
		AgentName:     name,
		BusinessName:  due.BusinessName,
		Phone:         due.Phone,
		AppointmentAt: due.AppointmentDate.Local().Format("02.01.2006 15:04"),
	}
	if err := n.sender.SendAppointmentReminder(ctx, email, data); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}

	n.log.Info("appointment reminder sent",
		"lead_id", due.LeadID,
		"agent_id", due.AgentID,
	)
	return nil
}

// Directory reads agent contacts from the profiles table.
type Directory struct {
	pool *pgxpool.Pool
}

func NewDirectory(pool *pgxpool.Pool) *Directory {
	return &Directory{pool: pool}
}

func (d *Directory) GetAgentContact(ctx context.Context, agentID uuid.UUID) (string, string, error) {
	var name, email string
	err := d.pool.QueryRow(ctx,
		`SELECT name, COALESCE(email, '') FROM profiles WHERE id = $1`, agentID,
	).Scan(&name, &email)
	if err != nil {
		return "", "", fmt.Errorf("failed to load agent contact: %w", err)
	}
	return name, email, nil
}
