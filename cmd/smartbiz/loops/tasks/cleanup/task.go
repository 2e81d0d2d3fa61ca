package cleanup

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
)

// Summary of cleanup sweeps since the loop started.
type Summary struct {
	// number of listings deleted.
	Purged int
}

// initial value for task
func Seed() Summary {
	return Summary{}
}

// ImageRemover deletes stored image files.
type ImageRemover interface {
	Remove([]domain.Image) error
}

// return:
//
// - task: delete listings expired more than domain.ExpiredRetention ago, with their image files.
func Task(
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	images ImageRemover,
	now func() time.Time,
) recurring.Task[Summary] {
	return func(ctx context.Context, s Summary) (Summary, bool, error) {
		purged, err := quickAdds.Purge(ctx, now().Add(-domain.ExpiredRetention))
		if err != nil {
			return s, false, err
		}

		ids := make([]string, 0, len(purged))
		for _, q := range purged {
			ids = append(ids, q.ID)
			// records are gone already. files left behind are not fatal.
			if err := images.Remove(q.Images); err != nil {
				logger.Warnf("failed to remove images of %s: %v", q.ID, err)
			}
		}
		logger.Infof("%d expired listing(s) deleted: %v", len(purged), ids)

		s.Purged += len(purged)
		return s, 0 < len(purged), nil
	}
}
