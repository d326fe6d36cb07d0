// internal/common/aws/sns.go
package aws

import (
	"context"
	"fmt"

	"kondate-planner/internal/common/logger"
	"kondate-planner/internal/models"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const EventMenuSaved = "menu.saved"

// MenuSavedEvent is the payload of EventMenuSaved, published by both the
// agent save-menu action and the menu-history API.
type MenuSavedEvent struct {
	Date        string   `json:"date"`
	Recipes     []string `json:"recipes"`
	Overwritten bool     `json:"overwritten"`
	SavedAt     string   `json:"saved_at"`
}

func NewMenuSavedEvent(record models.MenuHistory, overwritten bool) MenuSavedEvent {
	return MenuSavedEvent{
		Date:        record.Date,
		Recipes:     record.Recipes,
		Overwritten: overwritten,
		SavedAt:     record.UpdatedAt,
	}
}

// SNSAPI is the part of *sns.Client the publisher needs.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// EventPublisher announces domain events. Handlers treat it as optional.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func NewSNSPublisherFromConfig(awsCfg awssdk.Config, topicARN string) *SNSPublisher {
	return NewSNSPublisher(sns.NewFromConfig(awsCfg), topicARN)
}

// Publish sends payload as JSON with the event type as a message attribute
// so subscriptions can filter on it.
func (p *SNSPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	body, err := marshalCompact(payload)
	if err != nil {
		return err
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(p.topicARN),
		Message:  awssdk.String(body),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event_type": {
				DataType:    awssdk.String("String"),
				StringValue: awssdk.String(eventType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// NoopPublisher drops every event; used when notifications are disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, interface{}) error { return nil }

// LoggingPublisher wraps a publisher and logs failures instead of returning
// them.
type LoggingPublisher struct {
	next   EventPublisher
	logger logger.Logger
}

func NewLoggingPublisher(next EventPublisher, log logger.Logger) *LoggingPublisher {
	return &LoggingPublisher{next: next, logger: log}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	if err := p.next.Publish(ctx, eventType, payload); err != nil {
		p.logger.Warn("Event publish failed", map[string]interface{}{
			"eventType": eventType,
			"error":     err,
		})
	}
	return nil
}
