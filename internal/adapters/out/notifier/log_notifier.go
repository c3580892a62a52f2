// Package notifier delivers notifications by writing them to the structured
// log. It stands in for the notification service until one is integrated.
package notifier

import (
	"context"
	"log/slog"
	"sort"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

var _ ports.Notifier = &LogNotifier{}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

// Notify logs one line per message with the template data as attributes.
func (n *LogNotifier) Notify(ctx context.Context, recipient kernel.UUID, template string, data map[string]string) error {
	if err := recipient.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipient", err)
	}
	if template == "" {
		return errs.NewValueIsRequiredError("template")
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.String(k, data[k]))
	}

	n.logger.InfoContext(ctx, "Notification delivered",
		"recipient", recipient.String(),
		"template", template,
		slog.Group("data", attrs...),
	)
	return nil
}
