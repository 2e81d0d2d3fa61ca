package main

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/cleanup"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/expire"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/notify"
	kquickadd "github.com/smartbiz-gst/smartbiz/pkg/domain/quickadd/db"
	kpg "github.com/smartbiz-gst/smartbiz/pkg/domain/smartbiz/db/postgres"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
	"github.com/smartbiz-gst/smartbiz/pkg/upload"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/args"
	"github.com/spf13/cobra"
)

// sweeper runs a sweep task by policy (nil = once) and reports its summary.
type sweeper func(
	ctx context.Context,
	logger *log.Logger,
	quickAdds kquickadd.QuickAddInterface,
	images *upload.Uploader,
	policy recurring.Policy,
) (fmt.Stringer, error)

type summary[T any] struct{ value T }

func (s summary[T]) String() string {
	return fmt.Sprintf("%+v", s.value)
}

func run[T any](ctx context.Context, seed T, task recurring.Task[T], policy recurring.Policy) (fmt.Stringer, error) {
	var (
		ret T
		err error
	)
	if policy == nil {
		ret, err = loops.RunOnce(ctx, seed, task)
	} else {
		ret, err = loops.RunWith(ctx, seed, task, policy)
	}
	return summary[T]{value: ret}, err
}

var sweepers = map[string]sweeper{
	"expire": func(ctx context.Context, logger *log.Logger, qa kquickadd.QuickAddInterface, _ *upload.Uploader, p recurring.Policy) (fmt.Stringer, error) {
		return run(ctx, expire.Seed(), expire.Task(logger, qa, time.Now), p)
	},
	"cleanup": func(ctx context.Context, logger *log.Logger, qa kquickadd.QuickAddInterface, images *upload.Uploader, p recurring.Policy) (fmt.Stringer, error) {
		return run(ctx, cleanup.Seed(), cleanup.Task(logger, qa, images, time.Now), p)
	},
	"notify": func(ctx context.Context, logger *log.Logger, qa kquickadd.QuickAddInterface, _ *upload.Uploader, p recurring.Policy) (fmt.Stringer, error) {
		return run(ctx, notify.Seed(), notify.Task(logger, qa, notify.NewLogNotifier(logger), time.Now), p)
	},
}

func sweepCommand(c *common) *cobra.Command {
	policy := args.Parser("policy", recurring.ParsePolicy)
	cmd := &cobra.Command{
		Use:       "sweep expire|cleanup|notify",
		Short:     "run a sweep now, out of its schedule",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"expire", "cleanup", "notify"},
		RunE: func(cmd *cobra.Command, a []string) error {
			var p recurring.Policy
			if policy.IsSet() {
				p = policy.Value()
			}
			return sweep(cmd.Context(), c, a[0], p)
		},
	}
	cmd.Flags().Var(
		policy, "policy",
		`repeat the sweep (syntax: backlog|forever[:COOLDOWN]|cron:EXPR). `+
			`"backlog" = repeat while it finds something to do. Without this, it runs once.`,
	)
	return cmd
}

func sweep(ctx context.Context, c *common, name string, policy recurring.Policy) error {
	task, ok := sweepers[name]
	if !ok {
		return fmt.Errorf("unknown sweep: %s", name)
	}

	conf, logger, err := c.load("sweep " + name)
	if err != nil {
		return fmt.Errorf("can not read configuration: %w", err)
	}

	db, err := kpg.New(ctx, conf.Database())
	if err != nil {
		return err
	}
	defer db.Close()

	images := upload.New(
		conf.Upload().Dir(), conf.Upload().MaxFileSize(), conf.Upload().MaxFiles(),
		upload.WithLogger(logger),
	)

	if policy == nil {
		tctx, cancel := context.WithTimeout(ctx, sweepTimeout)
		defer cancel()
		ctx = tctx
	}
	s, err := task(ctx, logger, db.QuickAdds(), images, policy)
	if err != nil {
		return err
	}
	logger.Infof("done: %s", s)
	return nil
}
