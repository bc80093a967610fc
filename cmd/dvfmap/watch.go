// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dvfmap/internal/client"
	"github.com/taibuivan/dvfmap/internal/client/geo"
)

const watchHelp = `commands:
  pan <north,west,south,east>   move the viewport
  price <value|low,high>        set the price filter, "price" alone clears it
  date <day|start,end>          set the date filter, "date" alone clears it
  clear                         clear both filters
  refresh                       re-run the current query
  quit`

func newWatchCommand(env *environment) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Interactive session: results follow viewport and filter changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			renderer := &terminalRenderer{out: cmd.OutOrStdout()}
			done := make(chan error, 1)
			go func() { done <- env.app.Run(ctx, renderer) }()

			env.restore(ctx)
			fmt.Fprintln(cmd.OutOrStdout(), watchHelp)

			if err := watchLoop(cmd.InOrStdin(), cmd.ErrOrStderr(), env.app); err != nil {
				return err
			}

			cancel()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}

// watchLoop reads commands until quit or end of input.
func watchLoop(in io.Reader, errOut io.Writer, app *client.App) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		verb, argument, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		argument = strings.TrimSpace(argument)

		var err error
		switch verb {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "pan":
			var viewport geo.Viewport
			if viewport, err = pan(app, argument); err == nil {
				fmt.Fprintln(errOut, ">", describeViewport(viewport))
			}
		case "price":
			err = applyPrice(app.Filters, argument)
		case "date":
			err = applyDate(app.Filters, argument)
		case "clear":
			app.Filters.Reset()
		case "refresh":
			app.Sync.Refresh()
		default:
			err = fmt.Errorf("unknown command %q", verb)
		}

		if err != nil {
			fmt.Fprintln(errOut, "!", err)
		}
	}
	return scanner.Err()
}

func pan(app *client.App, argument string) (geo.Viewport, error) {
	viewport, err := parseBBox(argument)
	if err != nil {
		return geo.Viewport{}, err
	}
	app.Sync.SetViewport(viewport)
	return viewport, nil
}
