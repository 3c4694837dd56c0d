package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a notification over one channel.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ctx context.Context, notification Notification) error

func (f NotifierFunc) Notify(ctx context.Context, notification Notification) error {
	return f(ctx, notification)
}

// LogNotifier writes notifications to a structured log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) LogNotifier {
	return LogNotifier{logger: logger}
}

func (n LogNotifier) Notify(ctx context.Context, notification Notification) error {
	n.logger.InfoContext(ctx, logMsgNotificationSent,
		logAttrNotificationID, notification.ID,
		logAttrUserID, notification.UserID,
		logAttrType, string(notification.Type),
		slog.String("title", notification.Title),
		slog.String("message", notification.Message),
	)

	return nil
}
