package cleanup_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/cleanup"
	"github.com/smartbiz-gst/smartbiz/pkg/domain"
	mocks "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db/mock"
)

type remover struct {
	removed [][]domain.Image
	err     error
}

func (r *remover) Remove(images []domain.Image) error {
	r.removed = append(r.removed, images)
	return r.err
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

func TestTask(t *testing.T) {
	now := time.Date(2024, 3, 31, 2, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	imagesOf1 := []domain.Image{{Filename: "processed-quickadd-1.jpg"}}
	imagesOf2 := []domain.Image{{Filename: "processed-quickadd-2.jpg"}, {Filename: "processed-quickadd-3.jpg"}}

	type when struct {
		purged    []domain.QuickAdd
		purgeErr  error
		removeErr error
	}
	type then struct {
		summary cleanup.Summary
		updated bool
		removed int
		err     error
	}
	errDB := errors.New("db is down")

	for name, testcase := range map[string]struct {
		when when
		then then
	}{
		"expired listings are deleted with their images": {
			when: when{purged: []domain.QuickAdd{
				{ID: "qa-1", Images: imagesOf1},
				{ID: "qa-2", Images: imagesOf2},
			}},
			then: then{summary: cleanup.Summary{Purged: 2}, updated: true, removed: 2},
		},
		"failing to remove images is not an error": {
			when: when{
				purged:    []domain.QuickAdd{{ID: "qa-1", Images: imagesOf1}},
				removeErr: errors.New("permission denied"),
			},
			then: then{summary: cleanup.Summary{Purged: 1}, updated: true, removed: 1},
		},
		"nothing to delete": {
			when: when{purged: []domain.QuickAdd{}},
			then: then{summary: cleanup.Summary{}, updated: false},
		},
		"database fails": {
			when: when{purgeErr: errDB},
			then: then{summary: cleanup.Summary{}, err: errDB},
		},
	} {
		t.Run(name, func(t *testing.T) {
			qa := mocks.NewQuickAddInterface()
			qa.Impl.Purge = func(_ context.Context, before time.Time) ([]domain.QuickAdd, error) {
				return testcase.when.purged, testcase.when.purgeErr
			}
			rm := &remover{err: testcase.when.removeErr}

			testee := cleanup.Task(quietLogger(), qa, rm, clock)
			summary, updated, err := testee(context.Background(), cleanup.Seed())

			if !errors.Is(err, testcase.then.err) {
				t.Errorf("unexpected error: %v", err)
			}
			if summary != testcase.then.summary || updated != testcase.then.updated {
				t.Errorf("(summary, updated) = (%+v, %v)", summary, updated)
			}
			if len(rm.removed) != testcase.then.removed {
				t.Errorf("images are removed %d times, expected %d", len(rm.removed), testcase.then.removed)
			}

			before := qa.Calls.Purge.Last()
			if expected := now.Add(-30 * 24 * time.Hour); !before.Equal(expected) {
				t.Errorf("Purge is called with %s, expected %s", before, expected)
			}
		})
	}
}
