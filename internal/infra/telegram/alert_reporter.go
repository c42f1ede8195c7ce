package telegram

import (
	"context"
	"fmt"
	"html"
	"time"

	"notification_janitor/internal/app"
	domainTelegram "notification_janitor/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// AlertReporter sends failed retention runs to the admin chat.
// Successful runs are not reported.
type AlertReporter struct {
	sender      domainTelegram.Sender
	adminChatID int64
	logger      *logrus.Entry
}

func NewAlertReporter(sender domainTelegram.Sender, adminChatID int64, logger *logrus.Entry) *AlertReporter {
	return &AlertReporter{
		sender:      sender,
		adminChatID: adminChatID,
		logger:      logger.WithField("reporter", "telegram"),
	}
}

// Report implements app.OutcomeReporter. Delivery errors are logged and dropped.
func (r *AlertReporter) Report(_ context.Context, outcome app.PurgeOutcome) {
	if outcome.Succeeded() {
		return
	}

	text := FormatFailureAlert(outcome)
	if err := r.sender.SendMessage(r.adminChatID, text, &telebot.SendOptions{ParseMode: telebot.ModeHTML}); err != nil {
		r.logger.WithError(err).WithField("chat_id", r.adminChatID).Warn("Failed to deliver retention failure alert")
	}
}

// FormatFailureAlert renders the admin message for a failed run.
func FormatFailureAlert(outcome app.PurgeOutcome) string {
	return fmt.Sprintf(
		"<b>Notification retention run failed</b>\nStarted: %s\nCutoff: %s\nError: <code>%s</code>\nEligible notifications are kept until the next scheduled run.",
		outcome.StartedAt.Format(time.RFC3339),
		outcome.Cutoff.Format(time.RFC3339),
		html.EscapeString(outcome.Err.Error()),
	)
}
