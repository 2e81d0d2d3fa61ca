package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"
	ksmartbiz "github.com/smartbiz-gst/smartbiz/pkg/configs/smartbiz"
	"github.com/smartbiz-gst/smartbiz/pkg/utils/echoutil"
	"github.com/spf13/cobra"
)

// environment variable naming the config file, used when --config is not given.
const EnvConfigPath = "SMARTBIZ_CONFIG"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// flags shared by subcommands.
type common struct {
	configPath string
}

func rootCommand() *cobra.Command {
	c := &common{}
	root := &cobra.Command{
		Use:   "smartbiz",
		Short: "SmartBiz GST backend",
		Long: `SmartBiz GST backend serves user accounts and Quick Add listings,
and sweeps listings which are expired.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(
		&c.configPath, "config", os.Getenv(EnvConfigPath),
		"path to config file (env: "+EnvConfigPath+"). Environment variables override it.",
	)

	root.AddCommand(serveCommand(c), migrateCommand(c), sweepCommand(c), versionCommand())
	return root
}

// load config, and a logger leveled by the config.
func (c *common) load(prefix string) (*ksmartbiz.Config, *log.Logger, error) {
	conf, err := ksmartbiz.Load(c.configPath)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(prefix)
	lvl, err := echoutil.ParseLevel(conf.LogLevel())
	logger.SetLevel(lvl)
	if err != nil {
		logger.Warnf("%s. fall back to info", err)
	}
	return conf, logger, nil
}
