package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
)

// window of expiry to be notified, relative to now.
const (
	WindowFrom = 23 * time.Hour
	WindowTo   = 25 * time.Hour
)

// Summary of notify sweeps since the loop started.
type Summary struct {
	// number of notifications sent.
	Notified int
}

// initial value for task
func Seed() Summary {
	return Summary{}
}

// return:
//
// - task: notify owners of approved listings expiring in [now+WindowFrom, now+WindowTo].
// It never reports updated: listings stay as they are, and rerunning at once would repeat the same notifications.
func Task(
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	notifier Notifier,
	now func() time.Time,
) recurring.Task[Summary] {
	return func(ctx context.Context, s Summary) (Summary, bool, error) {
		t := now()
		expiring, err := quickAdds.ExpiringBetween(ctx, t.Add(WindowFrom), t.Add(WindowTo))
		if err != nil {
			return s, false, err
		}

		errs := []error{}
		for _, q := range expiring {
			if err := notifier.Notify(ctx, q); err != nil {
				errs = append(errs, fmt.Errorf("notify for %s: %w", q.ID, err))
				continue
			}
			s.Notified += 1
		}
		logger.Infof("%d listing(s) expiring soon, %d notification(s) failed", len(expiring), len(errs))

		return s, false, errors.Join(errs...)
	}
}
