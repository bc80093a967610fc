// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command dvfmap is the terminal front end of the dvfmap client engine.
//
// It signs in against the Auth API, keeps the session in a local SQLite file
// and queries house sales inside a bounding box:
//
//	dvfmap login --email camille@example.fr --password ...
//	dvfmap search --bbox 48.90,2.25,48.80,2.42 --price 200000,400000
//	dvfmap watch
//
// Settings come from DVFMAP_-prefixed environment variables (and .env).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taibuivan/dvfmap/internal/client"
	"github.com/taibuivan/dvfmap/internal/platform/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &environment{}
	if err := execute(ctx, newRootCommand(env), env); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and closes the app whether or not the
// command succeeded. The command error wins over a close error.
func execute(ctx context.Context, root *cobra.Command, env *environment) error {
	err := root.ExecuteContext(ctx)
	if closeErr := env.close(); err == nil {
		err = closeErr
	}
	return err
}

// environment is shared by every sub-command.
type environment struct {
	cfg    *config.ClientConfig
	logger *slog.Logger
	app    *client.App
}

func newRootCommand(env *environment) *cobra.Command {
	var debug bool

	root := &cobra.Command{
		Use:           "dvfmap",
		Short:         "Browse French property sales (DVF) from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}

			cfg, err := config.LoadClient()
			if err != nil {
				return err
			}
			env.cfg = cfg

			level := slog.LevelWarn
			if debug || cfg.Debug {
				level = slog.LevelDebug
			}
			env.logger = newLogger(level)

			app, err := client.Open(cmd.Context(), cfg, env.logger)
			if err != nil {
				return err
			}
			env.app = app
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&debug, "debug", false, "log engine events to stderr")

	root.AddCommand(
		newLoginCommand(env),
		newRegisterCommand(env),
		newLogoutCommand(env),
		newProfileCommand(env),
		newSearchCommand(env),
		newWatchCommand(env),
	)

	return root
}

// close releases the app opened by PersistentPreRunE, if any. Safe to call twice.
func (env *environment) close() error {
	if env.app == nil {
		return nil
	}
	app := env.app
	env.app = nil
	return app.Close()
}

// restore waits for the stored session to be verified so the command sees a
// settled state. A rejected session is reported as signed out, not as an error.
func (env *environment) restore(ctx context.Context) {
	if err := <-env.app.Start(ctx); err != nil {
		env.logger.Debug("session_not_restored", slog.Any("error", err))
	}
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", "dvfmap-cli"))
}
