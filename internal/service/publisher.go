package service

import (
	"context"

	"github.com/sirupsen/logrus"
)

type logPublisher struct{}

// NewLogPublisher publishes events to the application log only.
func NewLogPublisher() EventPublisher {
	return logPublisher{}
}

func (logPublisher) Publish(ctx context.Context, key string, message interface{}) error {
	logrus.WithField("key", key).WithField("event", message).Info("Edit event")
	return nil
}

func (logPublisher) Close() error { return nil }
