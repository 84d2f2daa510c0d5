package notification

import (
	"context"
	"log/slog"
	"strings"

	"consistencychecker/internal/pkg/config"
	"consistencychecker/internal/pkg/log_messages"
	"consistencychecker/internal/pkg/logger"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the slice of the Resend client the notifier needs.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier emails run summaries to the operations inbox. With no API
// key configured it stays disabled and every send is skipped.
type ResendNotifier struct {
	cfg    config.EmailConfig
	sender EmailSender
}

func NewResendNotifier(cfg config.EmailConfig) *ResendNotifier {
	n := &ResendNotifier{cfg: cfg}
	if cfg.Configured() {
		client := resend.NewClient(cfg.APIKey)
		n.sender = client.Emails
	}
	return n
}

func NewResendNotifierWithSender(cfg config.EmailConfig, sender EmailSender) *ResendNotifier {
	return &ResendNotifier{cfg: cfg, sender: sender}
}

func (n *ResendNotifier) Enabled() bool {
	return n.cfg.Configured() && n.sender != nil
}

func (n *ResendNotifier) Send(ctx context.Context, subject string, html string) error {
	if !n.Enabled() {
		logger.CtxWarn(ctx, log_messages.EmailNotConfigured, slog.String("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    n.cfg.From,
		To:      recipients(n.cfg.To),
		Subject: subject,
		Html:    html,
	}

	sent, err := n.sender.SendWithContext(ctx, params)
	if err != nil {
		logger.CtxError(ctx, log_messages.ErrorSendingEmailNotification, err, slog.String("subject", subject))
		return err
	}

	logger.CtxInfo(ctx, "Sent email notification",
		slog.String("subject", subject), slog.String("email_id", sent.Id))
	return nil
}

// recipients splits a comma separated address list.
func recipients(to string) []string {
	parts := strings.Split(to, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if addr := strings.TrimSpace(p); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
