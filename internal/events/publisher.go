package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Event types published by this service
const (
	ApplicationSubmitted = "vendor.application.submitted"
	ApplicationReviewed  = "vendor.application.reviewed"
	ApplicationPromoted  = "vendor.application.promoted"
	CategoryCreated      = "category.created"
	CategoryUpdated      = "category.updated"
	CategoryDeleted      = "category.deleted"
)

const vendorStream = "VENDOR_EVENTS"
const categoryStream = "CATEGORY_EVENTS"

// ApplicationEvent represents a vendor-application lifecycle event
type ApplicationEvent struct {
	EventType     string    `json:"eventType"`
	ApplicationID string    `json:"applicationId"`
	UserID        string    `json:"userId,omitempty"`
	Email         string    `json:"email,omitempty"`
	IdentityID    string    `json:"identityId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// CategoryEvent represents a category change event
type CategoryEvent struct {
	EventType    string    `json:"eventType"`
	CategoryID   string    `json:"categoryId"`
	CategoryName string    `json:"categoryName,omitempty"`
	Slug         string    `json:"slug,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher publishes domain events over NATS JetStream. Publishing is
// best effort: a nil Publisher or a broken connection never fails the
// request that triggered the event.
type Publisher struct {
	conn   *nats.Conn
	js     nats.JetStreamContext
	logger *logrus.Entry
}

// NewPublisher connects to NATS and ensures the event streams exist.
func NewPublisher(natsURL string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("commerce-admin-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	p := &Publisher{
		conn:   conn,
		js:     js,
		logger: logger.WithField("component", "events.publisher"),
	}

	if err := p.ensureStream(vendorStream, "vendor.>"); err != nil {
		p.logger.WithError(err).Warn("Failed to ensure VENDOR_EVENTS stream")
	}
	if err := p.ensureStream(categoryStream, "category.>"); err != nil {
		p.logger.WithError(err).Warn("Failed to ensure CATEGORY_EVENTS stream")
	}

	return p, nil
}

func (p *Publisher) ensureStream(name, subject string) error {
	_, err := p.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:      name,
		Subjects:  []string{subject},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	return err
}

// PublishApplicationEvent publishes a vendor-application lifecycle event
func (p *Publisher) PublishApplicationEvent(ctx context.Context, eventType, applicationID, userID, email, identityID string) error {
	if p == nil {
		return nil
	}
	event := ApplicationEvent{
		EventType:     eventType,
		ApplicationID: applicationID,
		UserID:        userID,
		Email:         email,
		IdentityID:    identityID,
		Timestamp:     time.Now().UTC(),
	}
	return p.publish(ctx, eventType, event)
}

// PublishCategoryEvent publishes a category change event
func (p *Publisher) PublishCategoryEvent(ctx context.Context, eventType, categoryID, categoryName, slug string) error {
	if p == nil {
		return nil
	}
	event := CategoryEvent{
		EventType:    eventType,
		CategoryID:   categoryID,
		CategoryName: categoryName,
		Slug:         slug,
		Timestamp:    time.Now().UTC(),
	}
	return p.publish(ctx, eventType, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	_, err = p.js.Publish(subject, data, nats.Context(ctx))
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
		return err
	}

	p.logger.WithField("subject", subject).Debug("Event published")
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the publisher connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	_ = p.conn.Drain()
	p.conn.Close()
}
