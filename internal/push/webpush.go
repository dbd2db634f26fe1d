// Package push delivers reminder payloads to registered browser endpoints
// over the Web Push protocol (VAPID).
package push

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	webpush "github.com/SherClockHolmes/webpush-go"

	"github.com/Ahssan23/medication-tracker/internal/model"
)

// Payload is the notification body the service worker expects.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Sender sends a payload to a single endpoint. Nil-safe: when not configured,
// Send reports an error and no traffic leaves the process.
type Sender struct {
	subject    string
	publicKey  string
	privateKey string
	logger     *slog.Logger
}

// NewSender creates a web-push sender from a VAPID key pair. Returns nil if
// either key is empty (push disabled).
func NewSender(subject, publicKey, privateKey string, logger *slog.Logger) *Sender {
	if publicKey == "" || privateKey == "" {
		return nil
	}
	return &Sender{
		subject:    subject,
		publicKey:  publicKey,
		privateKey: privateKey,
		logger:     logger,
	}
}

// Send pushes payload to one subscription and returns the HTTP status the
// push service answered with. The push service accepts with 201; 404 and 410
// mean the endpoint is gone.
func (s *Sender) Send(ctx context.Context, sub model.Subscription, payload []byte) (int, error) {
	if s == nil {
		return 0, fmt.Errorf("push sender not configured")
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      s.subject,
		VAPIDPublicKey:  s.publicKey,
		VAPIDPrivateKey: s.privateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, fmt.Errorf("send web push: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// GenerateVAPIDKeys creates a fresh VAPID key pair for deployment setup.
func GenerateVAPIDKeys() (privateKey, publicKey string, err error) {
	return webpush.GenerateVAPIDKeys()
}
