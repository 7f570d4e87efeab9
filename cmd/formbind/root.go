package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/logging"
	"github.com/goliatone/go-formbind/pkg/client"
)

type app struct {
	configFile string
	cfg        *config.Config
	logger     zerolog.Logger
}

// flagBindings maps config keys to persistent flag names.
var flagBindings = map[string]string{
	"server.base_url":      "base-url",
	"server.username":      "user",
	"server.password":      "password",
	"server.timeout":       "timeout",
	"server.settings_path": "settings-path",
	"logging.level":        "log-level",
	"logging.format":       "log-format",
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:           "formbind",
		Short:         "Bind repository manager forms to REST payloads",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: formbind.yaml in the config search path)")
	flags.String("base-url", "", "REST base URL")
	flags.String("user", "", "username for basic auth")
	flags.String("password", "", "password for basic auth")
	flags.Duration("timeout", 0, "overall request timeout")
	flags.String("settings-path", "", "UI settings resource whose uiTimeout overrides --timeout")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error, off)")
	flags.String("log-format", "", "log format (console, json)")

	root.AddCommand(
		newSerializeCmd(a),
		newDeserializeCmd(a),
		newLoadCmd(a),
		newSaveCmd(a),
		newEditCmd(a),
		newTemplateCmd(a),
		newNavCmd(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	loader := config.NewLoader()
	if a.configFile != "" {
		loader.SetConfigFile(a.configFile)
	}
	for key, name := range flagBindings {
		if err := loader.BindFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		Output:       cmd.ErrOrStderr(),
		EnableCaller: cfg.Logging.EnableCaller,
	})
	if used := loader.ConfigFileUsed(); used != "" {
		a.logger.Debug().Str("file", used).Msg("loaded config")
	}
	cmd.SetContext(logging.WithContext(cmd.Context(), a.logger))
	return nil
}

// newClient builds the REST client, syncing the timeout from the backend
// settings when configured.
func (a *app) newClient(ctx context.Context) *client.Client {
	c := client.New(
		client.WithBaseURL(a.cfg.Server.BaseURL),
		client.WithTimeout(a.cfg.Server.Timeout),
		client.WithBasicAuth(a.cfg.Server.Username, a.cfg.Server.Password),
		client.WithLogger(logging.Component(a.logger, "client")),
	)
	if a.cfg.Server.SettingsPath != "" {
		timeout, err := c.SyncTimeout(ctx, a.cfg.Server.SettingsPath)
		if err != nil {
			a.logger.Warn().Err(err).Dur("timeout", timeout).Msg("using default request timeout")
		} else {
			a.logger.Debug().Str("timeout", timeout.Round(time.Second).String()).Msg("synced request timeout")
		}
	}
	return c
}
