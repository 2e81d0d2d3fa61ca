package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/handlers"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops"
	"github.com/smartbiz-gst/smartbiz/cmd/smartbiz/loops/tasks/notify"
	"github.com/smartbiz-gst/smartbiz/pkg/auth"
	"github.com/smartbiz-gst/smartbiz/pkg/buildtime"
	ksmartbiz "github.com/smartbiz-gst/smartbiz/pkg/configs/smartbiz"
	kpg "github.com/smartbiz-gst/smartbiz/pkg/domain/smartbiz/db/postgres"
	"github.com/smartbiz-gst/smartbiz/pkg/loop/recurring"
	"github.com/smartbiz-gst/smartbiz/pkg/upload"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/echoutil"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/filewatch"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/try"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

const (
	// graceful shutdown waits requests in flight for this long.
	shutdownTimeout = 15 * time.Second

	// limit of a sweep run.
	sweepTimeout = 10 * time.Minute
)

func serveCommand(c *common) *cobra.Command {
	noSweep := false
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "start the HTTP server and the scheduled sweeps",
		Long: `Start the HTTP server and the scheduled sweeps.

Database schema is upgraded before serving. The server stops gracefully
on SIGINT/SIGTERM, or when the config file is modified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), c, !noSweep)
		},
	}
	cmd.Flags().BoolVar(&noSweep, "no-sweep", false, "do not run scheduled sweeps in this process")
	return cmd
}

func serve(ctx context.Context, c *common, sweep bool) error {
	conf, logger, err := c.load("smartbiz")
	if err != nil {
		return fmt.Errorf("can not read configuration: %w", err)
	}

	if c.configPath != "" {
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, c.configPath)
		if err != nil {
			return fmt.Errorf("can not watch configuration: %w", err)
		}
		defer cancel()
		ctx = wctx
	}

	logger.Info("connecting to database...")
	db := try.To(kpg.New(ctx, conf.Database())).OrFatal(logger)
	defer db.Close()

	if err := db.Schema().Upgrade(ctx); err != nil {
		return fmt.Errorf("can not upgrade schema: %w", err)
	}

	images := upload.New(
		conf.Upload().Dir(), conf.Upload().MaxFileSize(), conf.Upload().MaxFiles(),
		upload.WithLogger(logger),
	)

	e := newEcho(conf, logger)
	handlers.Register(e, handlers.Backend{
		Users:     db.Users(),
		QuickAdds: db.QuickAdds(),
		Database:  db,
		Tokens:    auth.NewTokens(conf.Auth().JWTSecret(), conf.Auth().JWTExpiresIn()),
		Hasher:    handlers.Bcrypt,
		Images:    images,
		UploadDir: images.Dir(),
	})
	for _, r := range e.Routes() {
		logger.Debugf("route: %s %s", r.Method, r.Path)
	}

	var manifests loops.Manifests
	if sweep {
		manifests, err = manifestsOf(conf.Sweep())
		if err != nil {
			return err
		}
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		addr := fmt.Sprintf(":%d", conf.Port())
		logger.Infof("smartbiz %s listening on %s (%s)", buildtime.VersionString(), addr, conf.Env())
		if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		graceful, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(graceful)
	})
	if sweep {
		p.Go(func(ctx context.Context) error {
			err := loops.StartAll(
				ctx, logger, db.QuickAdds(), images, notify.NewLogNotifier(logger), manifests,
			)
			if ctx.Err() != nil {
				return nil
			}
			return err
		})
	}

	err = p.Wait()
	if merr := new(filewatch.ModifiedError); errors.As(context.Cause(ctx), &merr) {
		logger.Warnf("%s. quit to restart with new configuration.", merr)
	}
	return err
}

func newEcho(conf *ksmartbiz.Config, logger *log.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger = logger
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(conf.IsProduction())

	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(echoutil.LogHandlerFunc)
	return e
}

// manifestsOf builds schedules of sweeps.
func manifestsOf(conf *ksmartbiz.SweepConfig) (loops.Manifests, error) {
	cron := func(expr string) (loops.LoopManifest, error) {
		policy, err := recurring.Cron(expr, conf.Timezone())
		if err != nil {
			return loops.LoopManifest{}, err
		}
		return loops.LoopManifest{Policy: policy, Timeout: sweepTimeout}, nil
	}

	expire, err := cron(conf.Expire())
	if err != nil {
		return loops.Manifests{}, err
	}
	cleanup, err := cron(conf.Cleanup())
	if err != nil {
		return loops.Manifests{}, err
	}
	notify, err := cron(conf.Notify())
	if err != nil {
		return loops.Manifests{}, err
	}
	return loops.Manifests{Expire: expire, Cleanup: cleanup, Notify: notify}, nil
}
