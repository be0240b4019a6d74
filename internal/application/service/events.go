package service

import "context"

// EventPublisher fans mutation events out to the message broker. Publishing is
// best-effort from the usecases' point of view: a failed publish is logged,
// never turned into a failed mutation.
type EventPublisher interface {
	PublishTagEvent(ctx context.Context, eventType string, payload any) error
	PublishImageEvent(ctx context.Context, eventType string, payload any) error
}
