package expire

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
)

// Summary of expire sweeps since the loop started.
type Summary struct {
	// number of listings turned into expired.
	Expired int
}

// initial value for task
func Seed() Summary {
	return Summary{}
}

// return:
//
// - task: turn approved listings past their expiry into expired.
func Task(
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	now func() time.Time,
) recurring.Task[Summary] {
	return func(ctx context.Context, s Summary) (Summary, bool, error) {
		expired, err := quickAdds.Expire(ctx, now())
		if err != nil {
			return s, false, err
		}
		for _, e := range expired {
			logger.Infof("expired: %s (%q, owner: %s)", e.ID, e.Title, e.UserID)
		}
		logger.Infof("%d listing(s) expired", len(expired))

		s.Expired += len(expired)
		return s, 0 < len(expired), nil
	}
}
