package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/forge-app/forge-api/internal/logger"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/google/uuid"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// PushService sends level-up and reminder notifications through Firebase
// Cloud Messaging. A nil client turns every send into a no-op.
type PushService struct {
	client *messaging.Client
	db     *gorm.DB
}

// Push is the process wide push service, set by InitPush.
var Push *PushService

// InitPush initializes FCM from a service account file. Push stays disabled,
// without an error, when no account is configured or Firebase fails to start.
func InitPush(ctx context.Context, db *gorm.DB, serviceAccountPath string) {
	Push = &PushService{db: db}
	if serviceAccountPath == "" {
		logger.Log.Info().Msg("FCM: no service account configured, push notifications disabled")
		return
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		logger.Log.Warn().Err(err).Msg("FCM: failed to initialize Firebase app")
		return
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("FCM: failed to get messaging client")
		return
	}

	Push.client = client
	logger.Log.Info().Msg("FCM: push notifications enabled")
}

// Enabled reports whether messages will actually be sent.
func (p *PushService) Enabled() bool {
	return p != nil && p.client != nil
}

// SendToUser pushes a notification to the device registered by the user.
// Users without a device token are skipped.
func (p *PushService) SendToUser(ctx context.Context, userID uuid.UUID, title, body string, data map[string]string) {
	if !p.Enabled() {
		return
	}

	var user models.User
	if err := p.db.WithContext(ctx).Select("fcm_token").First(&user, "id = ?", userID).Error; err != nil {
		return
	}
	if user.FCMToken == "" {
		return
	}

	msg := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		logger.Log.Warn().Err(err).Str("user", userID.String()).Msg("FCM: failed to send")
	}
}
