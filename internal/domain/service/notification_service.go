package service

import "context"

// PushNotification is a single push message addressed to a device token.
type PushNotification struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
}

// NotificationService delivers push notifications to user devices.
type NotificationService interface {
	// Send delivers one push notification.
	Send(ctx context.Context, notification PushNotification) error
}
