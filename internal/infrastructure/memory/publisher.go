package memory

import (
	"context"

	"github.com/storely/auth-service/internal/application/auth"
)

// NoopPublisher drops all events. Used in dev when RabbitMQ is down and in
// tests that don't assert on messaging.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (NoopPublisher) PublishUserRegistered(ctx context.Context, evt auth.UserRegisteredEvent) error {
	return nil
}

func (NoopPublisher) PublishUserLockedOut(ctx context.Context, evt auth.UserLockedOutEvent) error {
	return nil
}
