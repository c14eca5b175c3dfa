// Command actorhost creates an actor system, installs its services and
// waits for it to terminate.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/najoast/actorhost/blocking"
	"github.com/najoast/actorhost/bootstrap"
	"github.com/najoast/actorhost/builder"
	"github.com/najoast/actorhost/config"
	"github.com/najoast/actorhost/core"
	"github.com/najoast/actorhost/installer"
	"github.com/najoast/actorhost/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd returns the command that runs the host
func newRootCmd() *cobra.Command {
	var configFile, systemName string

	cmd := &cobra.Command{
		Use:          "actorhost",
		Short:        "Create an actor system, install its services and wait for it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configFile, systemName)
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "configuration file (yaml or json); searched for when empty")
	cmd.Flags().StringVar(&systemName, "system", "", "actor system name, overrides host.system_name")
	return cmd
}

func run(configFile, systemName string) error {
	loader := config.NewLoader()

	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = loader.LoadFromFile(configFile)
	} else {
		cfg, err = loader.AutoLoad()
	}
	if err != nil {
		return err
	}
	if systemName != "" {
		cfg.Host.SystemName = systemName
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()
	if err := logging.SetLevel(logger, logLevel(cfg)); err != nil {
		return err
	}

	log := logging.Entry(logger, cfg.Log).WithFields(logrus.Fields{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	if configFile != "" {
		watcher, err := config.NewWatcher(configFile, loader, log.WithField("component", "config"))
		if err != nil {
			return err
		}
		watcher.OnConfigChange(func(_, newConfig *config.Config) {
			if err := logging.SetLevel(logger, logLevel(newConfig)); err != nil {
				log.WithError(err).Warn("Ignoring log level change")
			}
		})
		if err := watcher.Start(); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	host, err := newHost(cfg, log)
	if err != nil {
		return err
	}

	return host.Run(cfg.Host.SystemName)
}

// logLevel is the configured level, raised to debug when app.debug is set
func logLevel(cfg *config.Config) config.LogLevel {
	if cfg.IsDebugEnabled() && cfg.Log.Level != config.LogLevelTrace {
		return config.LogLevelDebug
	}
	return cfg.Log.Level
}

func newHost(cfg *config.Config, log *logrus.Entry) (*bootstrap.Host[core.ActorSystem], error) {
	blk, err := blocking.FromConfig[core.ActorSystem](cfg.Host, log.WithField("component", "blocking"))
	if err != nil {
		return nil, err
	}

	return bootstrap.NewHost[core.ActorSystem](
		builder.New(cfg.Actor, builder.WithLogger(log.WithField("component", "builder"))),
		installer.Services(
			installer.ServiceSpec{Name: "echo", Handler: echoHandler{}},
		),
		bootstrap.WithBlocking(blk),
		bootstrap.WithLogger[core.ActorSystem](log.WithField("component", "host")),
	)
}
