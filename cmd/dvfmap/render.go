// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/taibuivan/dvfmap/internal/client/apiclient"
	"github.com/taibuivan/dvfmap/internal/client/geo"
	"github.com/taibuivan/dvfmap/internal/client/querysync"
	"github.com/taibuivan/dvfmap/internal/client/session"
)

func printRecords(out io.Writer, records []apiclient.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(out, "no sales match")
		return err
	}

	table := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(table, "DATE\tPRICE (EUR)\tADDRESS\tCOMMUNE\tLAND (m2)\tLAT,LNG")
	for _, record := range records {
		fmt.Fprintf(table, "%s\t%s\t%s\t%s %s\t%s\t%.5f,%.5f\n",
			record.MutationDate,
			strconv.FormatFloat(record.Price, 'f', 0, 64),
			address(record),
			record.PostalCode,
			record.Municipality,
			landSurface(record.LandSurfaceSqM),
			record.Latitude,
			record.Longitude,
		)
	}
	if err := table.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "%d sale(s)\n", len(records))
	return err
}

// describeViewport names the searched area and its centre, also in approximate Lambert-93.
func describeViewport(viewport geo.Viewport) string {
	center := viewport.Center()
	x, y := geo.ToLambert93(center.Lat, center.Lng)
	return fmt.Sprintf("viewport %s centre %.5f,%.5f (L93 ~%.0f,%.0f)", viewport, center.Lat, center.Lng, x, y)
}

func address(record apiclient.Record) string {
	return strings.TrimSpace(record.StreetNumber + " " + record.StreetName)
}

func landSurface(surface *float64) string {
	if surface == nil {
		return "-"
	}
	return strconv.FormatFloat(*surface, 'f', 0, 64)
}

// terminalRenderer prints every state change of a watch session.
type terminalRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

func (r *terminalRenderer) RenderSession(state session.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if state.Authenticated {
		fmt.Fprintf(r.out, "* signed in as %s\n", displayName(&state))
		return
	}
	fmt.Fprintln(r.out, "* signed out")
}

func (r *terminalRenderer) RenderView(view querysync.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case view.Busy:
		fmt.Fprintln(r.out, "* loading...")
	case view.Err != nil:
		fmt.Fprintf(r.out, "* request failed: %v (showing %d previous sale(s))\n", view.Err, len(view.Records))
	default:
		_ = printRecords(r.out, view.Records)
	}
}
