// Package matcher checks timestamps written by the database, whose exact values
// tests cannot know.
package matcher

import (
	"fmt"
	"time"
)

type Matcher[T any] interface {
	Match(T) bool
	String() string
}

type between struct {
	from time.Time
	to   time.Time
}

func (b between) Match(t time.Time) bool {
	return !t.Before(b.from) && !t.After(b.to)
}

func (b between) String() string {
	return fmt.Sprintf("between %s and %s", b.from, b.to)
}

// Between matches times in [from, to].
func Between(from, to time.Time) Matcher[time.Time] {
	return between{from: from, to: to}
}

// Around matches times in [t - margin, t + margin].
func Around(t time.Time, margin time.Duration) Matcher[time.Time] {
	return between{from: t.Add(-margin), to: t.Add(margin)}
}
