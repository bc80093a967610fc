// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/dvfmap/internal/client/filter"
	"github.com/taibuivan/dvfmap/internal/client/geo"
	"github.com/taibuivan/dvfmap/pkg/query"
)

// Central Paris.
const defaultBBox = "48.90,2.25,48.80,2.42"

type searchFlags struct {
	bbox      string
	lambert93 bool
	price     string
	date      string
	timeout   time.Duration
}

func newSearchCommand(env *environment) *cobra.Command {
	flags := searchFlags{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "List house sales in a bounding box",
		Long: `List house sales in a bounding box, most expensive first.

At least one of --price or --date is required. Both accept a single value
for an exact match or "low,high" for an inclusive range.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			parse := parseBBox
			if flags.lambert93 {
				parse = parseLambertBBox
			}
			viewport, err := parse(flags.bbox)
			if err != nil {
				return err
			}
			if err := applyPrice(env.app.Filters, flags.price); err != nil {
				return err
			}
			if err := applyDate(env.app.Filters, flags.date); err != nil {
				return err
			}

			env.restore(cmd.Context())
			fmt.Fprintln(cmd.ErrOrStderr(), describeViewport(viewport))

			ctx, cancel := context.WithTimeout(cmd.Context(), flags.timeout)
			defer cancel()

			view, err := env.app.Search(ctx, viewport)
			if err != nil {
				return err
			}

			return printRecords(cmd.OutOrStdout(), view.Records)
		},
	}

	cmd.Flags().StringVar(&flags.bbox, "bbox", defaultBBox, "north,west,south,east in degrees")
	cmd.Flags().BoolVar(&flags.lambert93, "lambert93", false, "read --bbox as Lambert-93 metres (approximate)")
	cmd.Flags().StringVar(&flags.price, "price", "", "price in euros: exact value or low,high")
	cmd.Flags().StringVar(&flags.date, "date", "", "mutation date YYYY-MM-DD: exact day or start,end")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "give up after this long")

	return cmd
}

func parseBBox(raw string) (geo.Viewport, error) {
	parts := query.StringSlice(raw)
	if len(parts) != 4 {
		return geo.Viewport{}, fmt.Errorf("--bbox wants north,west,south,east, got %q", raw)
	}

	north, west, err := query.FloatPair(parts[0] + "," + parts[1])
	if err != nil {
		return geo.Viewport{}, fmt.Errorf("--bbox: %w", err)
	}
	south, east, err := query.FloatPair(parts[2] + "," + parts[3])
	if err != nil {
		return geo.Viewport{}, fmt.Errorf("--bbox: %w", err)
	}

	return geo.FromBBox(north, west, south, east)
}

// parseLambertBBox reads north,west,south,east as Lambert-93 metres.
func parseLambertBBox(raw string) (geo.Viewport, error) {
	parts := query.StringSlice(raw)
	if len(parts) != 4 {
		return geo.Viewport{}, fmt.Errorf("--bbox wants north,west,south,east, got %q", raw)
	}

	northY, westX, err := query.FloatPair(parts[0] + "," + parts[1])
	if err != nil {
		return geo.Viewport{}, fmt.Errorf("--bbox: %w", err)
	}
	southY, eastX, err := query.FloatPair(parts[2] + "," + parts[3])
	if err != nil {
		return geo.Viewport{}, fmt.Errorf("--bbox: %w", err)
	}

	north, west := geo.FromLambert93(westX, northY)
	south, east := geo.FromLambert93(eastX, southY)
	return geo.FromBBox(north, west, south, east)
}

// applyPrice sets or, for an empty value, clears the price filter.
func applyPrice(filters *filter.State, raw string) error {
	if raw == "" {
		filters.ClearPrice()
		return nil
	}

	low, high, err := query.FloatPair(raw)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	var price filter.PriceFilter
	if low == high {
		price, err = filter.ExactPrice(low)
	} else {
		price, err = filter.PriceRange(low, high)
	}
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}
	return filters.SetPrice(price)
}

// applyDate sets or, for an empty value, clears the date filter.
func applyDate(filters *filter.State, raw string) error {
	if raw == "" {
		filters.ClearDate()
		return nil
	}

	start, end, err := query.Pair(raw)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	var date filter.DateFilter
	if start == end {
		date, err = filter.ExactDate(start)
	} else {
		date, err = filter.DateRange(start, end)
	}
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}
	return filters.SetDate(date)
}
