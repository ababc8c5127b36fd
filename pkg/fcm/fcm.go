package fcm

import (
	"context"
	"fmt"

	"calotrack-backend/pkg/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// Sender delivers a notification to a set of device tokens and reports the
// tokens that are no longer registered
type Sender interface {
	SendToDevices(ctx context.Context, tokens []string, notification NotificationData) ([]string, error)
}

type multicaster interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient multicaster
	log             *logrus.Entry
}

// NewClient creates a new FCM client using the provided credentials file
func NewClient(ctx context.Context, credentialsFile string) (*Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	c := newClient(messagingClient)
	c.log.Info("client initialized")
	return c, nil
}

func newClient(m multicaster) *Client {
	return &Client{messagingClient: m, log: logger.For("FCM")}
}

// NotificationData contains the data to send in a push notification
type NotificationData struct {
	Title       string
	Body        string
	Data        map[string]string
	ClickAction string // URL to open when notification is clicked
}

// SendToDevices sends a push notification to multiple device tokens.
// Returns the tokens FCM reported as unregistered so callers can drop them.
func (c *Client) SendToDevices(ctx context.Context, tokens []string, notification NotificationData) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: notification.Title,
				Body:  notification.Body,
				Icon:  "/icon-192.png",
			},
		},
	}
	if notification.ClickAction != "" {
		message.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: notification.ClickAction}
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"success": response.SuccessCount,
		"failure": response.FailureCount,
	}).Info("multicast sent")

	var stale []string
	for i, resp := range response.Responses {
		if resp.Success {
			continue
		}
		if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
			stale = append(stale, tokens[i])
		}
		c.log.WithError(resp.Error).WithField("token", shorten(tokens[i])).Warn("failed to send")
	}
	return stale, nil
}

func shorten(token string) string {
	if len(token) <= 20 {
		return token
	}
	return token[:20] + "..."
}
