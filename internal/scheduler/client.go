package scheduler

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"coldcall_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues reminder tasks on Redis. A nil client is a no-op, so the
// API can run without a scheduler in development.
type Client struct {
	client   *asynq.Client
	queue    string
	leadTime time.Duration
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	leadTime := cfg.GetReminderLeadTime()
	if leadTime <= 0 {
		leadTime = 15 * time.Minute
	}

	return &Client{
		client:   asynq.NewClient(opt),
		queue:    queue,
		leadTime: leadTime,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleAppointmentReminder enqueues a reminder to fire ahead of the
// appointment. When the lead-time window has already passed the task runs
// immediately.
func (c *Client) ScheduleAppointmentReminder(ctx context.Context, leadID, agentID uuid.UUID, appointmentAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewAppointmentReminderTask(AppointmentReminderPayload{
		LeadID:        leadID.String(),
		AgentID:       agentID.String(),
		AppointmentAt: appointmentAt,
	})
	if err != nil {
		return err
	}

	runAt := appointmentAt.Add(-c.leadTime)
	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string, tlsInsecure bool) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	var tlsConfig *tls.Config
	if opt.TLSConfig != nil {
		clone := opt.TLSConfig.Clone()
		if tlsInsecure {
			clone.InsecureSkipVerify = true
		}
		tlsConfig = clone
	} else if tlsInsecure {
		tlsConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: tlsConfig,
	}, nil
}
