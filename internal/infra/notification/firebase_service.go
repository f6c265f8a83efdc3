package notification

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// maxMulticastTokens is the FCM limit of tokens per multicast request.
const maxMulticastTokens = 500

type firebaseService struct {
	client *messaging.Client
	logger *slog.Logger
}

// NewFirebaseService creates the push sender. Without Firebase credentials the
// returned sender only logs, which keeps local development self-contained.
func NewFirebaseService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		logger.Info("Firebase not configured, push notifications will only be logged")

		return &logSender{logger: logger}, nil
	}

	var fbConfig *firebase.Config
	if cfg.Firebase.ProjectID != "" {
		fbConfig = &firebase.Config{ProjectID: cfg.Firebase.ProjectID}
	}

	app, err := firebase.NewApp(ctx, fbConfig, option.WithCredentialsFile(cfg.Firebase.CredentialsPath))
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize Firebase app")
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get messaging client")
	}

	return &firebaseService{
		client: client,
		logger: logger,
	}, nil
}

// SendToDevices sends n to any number of tokens, split into multicast requests
// of at most maxMulticastTokens.
func (s *firebaseService) SendToDevices(ctx context.Context, tokens []string, n service.PushNotification) (*service.PushReport, error) {
	report := &service.PushReport{InvalidTokens: make([]string, 0)}

	for _, chunk := range chunkTokens(tokens, maxMulticastTokens) {
		response, err := s.client.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens: chunk,
			Notification: &messaging.Notification{
				Title: n.Title,
				Body:  n.Body,
			},
			Data: n.Data,
		})
		if err != nil {
			return report, errors.Wrap(err, "failed to send multicast notification")
		}

		report.Sent += response.SuccessCount
		report.Failed += response.FailureCount

		for idx, sendResponse := range response.Responses {
			if sendResponse.Error == nil {
				continue
			}
			if messaging.IsInvalidArgument(sendResponse.Error) || messaging.IsUnregistered(sendResponse.Error) {
				report.InvalidTokens = append(report.InvalidTokens, chunk[idx])
			}
		}
	}

	s.logger.Debug("Multicast notification sent",
		slog.Int("sent", report.Sent),
		slog.Int("failed", report.Failed),
		slog.Int("invalid_tokens", len(report.InvalidTokens)),
	)

	return report, nil
}

func chunkTokens(tokens []string, size int) [][]string {
	chunks := make([][]string, 0, (len(tokens)+size-1)/size)
	for start := 0; start < len(tokens); start += size {
		chunks = append(chunks, tokens[start:min(start+size, len(tokens))])
	}

	return chunks
}

// logSender reports every notification as delivered.
type logSender struct {
	logger *slog.Logger
}

func (s *logSender) SendToDevices(ctx context.Context, tokens []string, n service.PushNotification) (*service.PushReport, error) {
	s.logger.InfoContext(ctx, "[LogPush] Notification",
		slog.Int("tokens", len(tokens)),
		slog.String("title", n.Title),
		slog.String("body", n.Body),
	)

	return &service.PushReport{Sent: len(tokens)}, nil
}
