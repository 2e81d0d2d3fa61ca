package recurring

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/smartbiz-gst/smartbiz/pkg/loop"
)

// ParsePolicy parses a policy notation.
//
// - "forever" or "forever:COOLDOWN": Forever(COOLDOWN)
//
// - "backlog": Backlog()
//
// - "cron:EXPR": Cron(EXPR, time.Local)
func ParsePolicy(s string) (Policy, error) {
	typ, param, ok := strings.Cut(s, ":")
	switch typ {
	case "forever":
		if !ok || param == "" {
			return Forever(0), nil
		}

		period, err := time.ParseDuration(param)
		if err != nil {
			return nil, fmt.Errorf(`failed to parse: %s as "forever:COOLDOWN": %w`, s, err)
		}
		return Forever(period), nil
	case "backlog":
		if ok {
			return nil, fmt.Errorf("backlog policy does not take parameters: %s", s)
		}
		return Backlog(), nil
	case "cron":
		if !ok || param == "" {
			return nil, fmt.Errorf(`cron policy needs expression: "cron:EXPR"`)
		}
		return Cron(param, time.Local)
	}
	return nil, fmt.Errorf("unknown policy name: %s (should be one of -- forever|backlog|cron)", typ)
}

// Policy for loop task behavior.
// How the policy behaves depends on the implementation of Next() method.
type Policy interface {
	Next(updated bool, err error) loop.Next
	String() string
}

// Restart immediately while there are things to do.
// Otherwise, restart after interval.
func Forever(intervalWaitingBacklog time.Duration) Policy {
	return forever(intervalWaitingBacklog)
}

type forever time.Duration

func (f forever) String() string {
	return fmt.Sprintf("forever:%s", time.Duration(f).String())
}

func (f forever) Next(updated bool, err error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Continue(time.Duration(f))
}

// Restart immediately while there are things to do.
// Otherwise, Break(nil).
func Backlog() Policy {
	return backlog
}

type backlogPolicy struct{}

func (backlogPolicy) String() string {
	return "backlog"
}

func (backlogPolicy) Next(updated bool, err error) loop.Next {
	if updated {
		return loop.Continue(0)
	}
	return loop.Break(nil)
}

var backlog = backlogPolicy{} // singleton

// add a provisory clause: In case of error, Break with that error.
func UntilError(p Policy) Policy {
	return untilError{base: p}
}

type untilError struct {
	base Policy
}

func (u untilError) String() string {
	return fmt.Sprintf("%s (until error)", u.base.String())
}

func (u untilError) Next(updated bool, err error) loop.Next {
	if err != nil {
		return loop.Break(err)
	}
	return u.base.Next(updated, err)
}

// CronPolicy restarts at the next time matching a cron expression,
// whatever the last run did.
type CronPolicy struct {
	expr     string
	schedule cron.Schedule
	tz       *time.Location
	now      func() time.Time
}

type CronOption func(*CronPolicy) *CronPolicy

// WithClock replaces the clock used to find the next time.
func WithClock(now func() time.Time) CronOption {
	return func(c *CronPolicy) *CronPolicy {
		c.now = now
		return c
	}
}

// Cron creates a policy restarting at times matching expr in tz.
//
// expr is a standard 5-field cron expression ("minute hour dom month dow").
func Cron(expr string, tz *time.Location, options ...CronOption) (*CronPolicy, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cron expression %q: %w", expr, err)
	}
	if tz == nil {
		tz = time.Local
	}
	c := &CronPolicy{expr: expr, schedule: schedule, tz: tz, now: time.Now}
	for _, o := range options {
		c = o(c)
	}
	return c, nil
}

func (c *CronPolicy) String() string {
	return fmt.Sprintf("cron:%s (%s)", c.expr, c.tz)
}

// NextTime is the next time matching the expression, strictly after now.
func (c *CronPolicy) NextTime() time.Time {
	return c.schedule.Next(c.now().In(c.tz))
}

// Until is how long to wait for NextTime.
func (c *CronPolicy) Until() time.Duration {
	d := c.NextTime().Sub(c.now())
	if d < 0 {
		return 0
	}
	return d
}

func (c *CronPolicy) Next(bool, error) loop.Next {
	return loop.Continue(c.Until())
}
