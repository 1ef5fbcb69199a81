// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package email provides out-of-band message delivery for account flows.

It abstracts the mail provider behind a small Sender interface so that the
auth service stays testable and the provider can be swapped per environment:

  - Mailgun: Production delivery via the Mailgun HTTP API.
  - Log: Development fallback that records the delivery attempt only.

Reset links carry secrets. No implementation in this package may write a
raw reset token to logs or any other observable channel.
*/
package email

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// sendTimeout bounds a single delivery attempt against the provider API.
const sendTimeout = 10 * time.Second

// Sender delivers account-flow messages to a user's email address.
type Sender interface {
	// SendPasswordReset delivers a password reset link built from the raw
	// reset token. The token is consumed by the reset endpoint, not by email.
	SendPasswordReset(ctx context.Context, recipient string, resetToken string) error
}

// # Mailgun Sender

// MailgunSender delivers messages through the Mailgun HTTP API.
type MailgunSender struct {
	client       *mailgun.MailgunImpl
	from         string
	resetBaseURL string
}

// NewMailgunSender builds a production sender.
//
// # Parameters
//   - domain: The Mailgun sending domain.
//   - apiKey: The Mailgun private API key.
//   - from: The From address for outgoing mail.
//   - resetBaseURL: Frontend URL the reset token is appended to.
func NewMailgunSender(domain, apiKey, from, resetBaseURL string) (*MailgunSender, error) {
	if domain == "" || apiKey == "" || from == "" {
		return nil, fmt.Errorf("email: incomplete mailgun configuration")
	}

	return &MailgunSender{
		client:       mailgun.NewMailgun(domain, apiKey),
		from:         from,
		resetBaseURL: resetBaseURL,
	}, nil
}

// SendPasswordReset implements [Sender].
func (sender *MailgunSender) SendPasswordReset(ctx context.Context, recipient string, resetToken string) error {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	resetLink := buildResetLink(sender.resetBaseURL, resetToken)

	message := sender.client.NewMessage(
		sender.from,
		"Reset your Inkwell password",
		"We received a request to reset your password.\n\n"+
			"Open the link below to choose a new one. The link expires shortly "+
			"and can be used only once.\n\n"+resetLink+"\n\n"+
			"If you did not request this, you can safely ignore this email.",
		recipient,
	)

	_, _, err := sender.client.Send(sendCtx, message)
	if err != nil {
		return fmt.Errorf("email: mailgun send failed: %w", err)
	}

	return nil
}

// # Development Sender

// LogSender records delivery attempts without sending anything.
// It never logs the token itself, only the fact that a delivery occurred.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender builds a development sender backed by structured logging.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// SendPasswordReset implements [Sender].
func (sender *LogSender) SendPasswordReset(ctx context.Context, recipient string, resetToken string) error {
	sender.logger.InfoContext(ctx, "password_reset_email_simulated",
		slog.String("recipient", recipient),
		slog.Int("token_length", len(resetToken)),
	)
	return nil
}

// buildResetLink appends the raw token as a query parameter to the frontend URL.
func buildResetLink(baseURL, token string) string {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?token=" + url.QueryEscape(token)
	}

	query := parsed.Query()
	query.Set("token", token)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
