package notify

import (
	"context"

	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
)

// Notifier tells owners that their listing is expiring soon.
type Notifier interface {
	Notify(context.Context, domain.ExpiringQuickAdd) error
}

// LogNotifier writes notifications into a log instead of sending them.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, q domain.ExpiringQuickAdd) error {
	n.logger.Infof(
		"notify %s <%s>: %q (%s) expires at %s",
		domain.Owner{FirstName: q.FirstName, LastName: q.LastName}.Name(), q.Email,
		q.Title, q.ID, q.ExpiresAt.Format("2006-01-02 15:04 MST"),
	)
	return nil
}
