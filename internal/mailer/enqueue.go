package mailer

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
	"github.com/rs/zerolog"
)

// JobTypeOTPEmail identifies a verification email delivery job.
const JobTypeOTPEmail = "otp_email"

// OTPEmailJob is the payload published for a verification email.
type OTPEmailJob struct {
	JobType  string `json:"job_type"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Code     string `json:"code"`
}

// PubSubEnqueuer publishes verification email jobs to a Pub/Sub topic
// for delivery by the worker.
type PubSubEnqueuer struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
	topicName string
	logger    zerolog.Logger
}

// PubSubEnqueuerConfig holds configuration for the Pub/Sub enqueuer.
type PubSubEnqueuerConfig struct {
	ProjectID string
	TopicName string
	Logger    zerolog.Logger
}

// NewPubSubEnqueuer creates a Pub/Sub enqueuer.
func NewPubSubEnqueuer(ctx context.Context, cfg PubSubEnqueuerConfig) (*PubSubEnqueuer, error) {
	client, err := pubsub.NewClient(ctx, cfg.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubEnqueuer{
		client:    client,
		publisher: client.Publisher(cfg.TopicName),
		topicName: cfg.TopicName,
		logger:    cfg.Logger.With().Str("component", "mail_enqueuer").Logger(),
	}, nil
}

// EnqueueOTPEmail publishes a verification email job.
func (e *PubSubEnqueuer) EnqueueOTPEmail(ctx context.Context, email, username, code string) error {
	data, err := json.Marshal(OTPEmailJob{
		JobType:  JobTypeOTPEmail,
		Email:    email,
		Username: username,
		Code:     code,
	})
	if err != nil {
		return fmt.Errorf("encoding otp email job: %w", err)
	}

	result := e.publisher.Publish(ctx, &pubsub.Message{Data: data})
	id, err := result.Get(ctx)
	if err != nil {
		return fmt.Errorf("publishing otp email job: %w", err)
	}

	e.logger.Debug().
		Str("message_id", id).
		Str("topic", e.topicName).
		Msg("otp email job published")
	return nil
}

// Close releases the underlying Pub/Sub client.
func (e *PubSubEnqueuer) Close() error {
	e.publisher.Stop()
	return e.client.Close()
}

// DirectEnqueuer sends verification email synchronously instead of going
// through the job queue. Used when no Pub/Sub project is configured.
type DirectEnqueuer struct {
	Sender Sender
}

// EnqueueOTPEmail delivers the email immediately.
func (d *DirectEnqueuer) EnqueueOTPEmail(ctx context.Context, email, username, code string) error {
	return d.Sender.SendOTPEmail(ctx, email, username, code)
}
