package notification

import (
	"context"
	"fmt"

	deviceRepo "carenow/database/repository/device"
	"carenow/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotificationService delivers pushes through Firebase Cloud Messaging,
// resolving recipient tokens from the device-token repository. When no FCM
// client is configured it logs the would-be push and reports success.
type FCMNotificationService struct {
	Devices deviceRepo.DeviceTokenRepository
	Client  *messaging.Client
	Logger  *zap.Logger
}

func NewFCMNotificationService(devices deviceRepo.DeviceTokenRepository, client *messaging.Client, logger *zap.Logger) *FCMNotificationService {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &FCMNotificationService{Devices: devices, Client: client, Logger: logger}
}

// SendUserPush looks up the client's FCM token and sends a push.
func (s *FCMNotificationService) SendUserPush(ctx context.Context, userID, title, body string, data map[string]string) error {
	return s.send(ctx, userID, "client", title, body, data, nil, nil)
}

// SendPartnerPush sends a high-priority push to a partner device. Partner
// pushes carry job-state changes, so they use the high-priority channel.
func (s *FCMNotificationService) SendPartnerPush(ctx context.Context, partnerID, title, body string, data map[string]string) error {
	android := &messaging.AndroidConfig{
		Priority: "high",
		Notification: &messaging.AndroidNotification{
			ChannelID: "high_priority",
			Sound:     "default",
		},
	}
	apns := &messaging.APNSConfig{
		Headers: map[string]string{
			"apns-priority":  "10",
			"apns-push-type": "alert",
		},
		Payload: &messaging.APNSPayload{
			Aps: &messaging.Aps{Sound: "default"},
		},
	}
	return s.send(ctx, partnerID, "partner", title, body, data, android, apns)
}

func (s *FCMNotificationService) send(ctx context.Context, accountID, role, title, body string, data map[string]string, android *messaging.AndroidConfig, apns *messaging.APNSConfig) error {
	if data == nil {
		data = map[string]string{}
	}
	if _, ok := data["role"]; !ok {
		data["role"] = role
	}

	if s.Client == nil {
		s.Logger.Debug("notification: FCM disabled, dropping push",
			zap.String("accountId", accountID), zap.String("title", title))
		return nil
	}

	token, err := s.Devices.GetToken(ctx, accountID)
	if err != nil {
		return fmt.Errorf("notification: no deliverable token for %s %s: %w", role, accountID, err)
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:    data,
		Android: android,
		APNS:    apns,
	}
	if _, err := s.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("notification: failed to send FCM message to %s %s: %w", role, accountID, err)
	}
	return nil
}
