package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

type FCMService struct {
	client *messaging.Client
}

// NewFCMService reuses the Firebase app that backs the document store.
func NewFCMService(ctx context.Context, app *firebase.App) (*FCMService, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}
	return &FCMService{client: client}, nil
}

// SendTopic pushes one message to every device subscribed to topic.
func (s *FCMService) SendTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	message := BuildTopicMessage(topic, title, body, data)

	id, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("fcm send to topic %s: %w", topic, err)
	}

	zap.S().Debugf("FCM: sent %s to topic %s", id, topic)
	return nil
}

// SubscribeToChallenge registers device tokens for a challenge's completion topic.
func (s *FCMService) SubscribeToChallenge(ctx context.Context, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return nil
	}

	resp, err := s.client.SubscribeToTopic(ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("fcm subscribe to %s: %w", topic, err)
	}
	if resp.FailureCount > 0 {
		zap.S().Warnf("FCM: %d of %d tokens failed to subscribe to %s", resp.FailureCount, len(tokens), topic)
	}
	return nil
}

func BuildTopicMessage(topic, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
