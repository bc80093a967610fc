// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package dvf serves property-sale records from the "Demandes de valeurs
foncières" open dataset.

A request names a map viewport by its two corners and may narrow the result
by price and mutation date. Only houses with a known position, price and
date are ever returned, most expensive first.
*/
package dvf

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/dvfmap/internal/platform/validate"
)

// Sale is one recorded property transaction.
type Sale struct {
	MutationID     string   `json:"id_mutation"`
	Price          float64  `json:"valeur_fonciere"`
	MutationDate   string   `json:"date_mutation"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	StreetNumber   string   `json:"adresse_numero"`
	StreetName     string   `json:"adresse_nom_voie"`
	PostalCode     string   `json:"code_postal"`
	Municipality   string   `json:"nom_commune"`
	ParcelID       string   `json:"id_parcelle"`
	LandSurfaceSqM *float64 `json:"surface_terrain"`
}

// # Query

// Bounds is a latitude/longitude box. Min is always <= Max once normalized.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// FromCorners builds the box described by a top-left and a bottom-right
// corner, each given as (lat, lng). Corners may arrive swapped.
func FromCorners(topLeftLat, topLeftLng, bottomRightLat, bottomRightLng float64) Bounds {
	return Bounds{
		MinLat: min(topLeftLat, bottomRightLat),
		MaxLat: max(topLeftLat, bottomRightLat),
		MinLng: min(topLeftLng, bottomRightLng),
		MaxLng: max(topLeftLng, bottomRightLng),
	}
}

// IsGeographic reports whether the box lies within WGS84 coordinate range.
func (b Bounds) IsGeographic() bool {
	return b.MinLat > -90 && b.MaxLat < 90 && b.MinLng > -180 && b.MaxLng < 180
}

// Expand grows the box around its centre by margin (0.2 adds 20% to each axis).
func (b Bounds) Expand(margin float64) Bounds {
	if margin <= 0 {
		return b
	}

	factor := (1 + margin) / 2
	centerLat := (b.MinLat + b.MaxLat) / 2
	centerLng := (b.MinLng + b.MaxLng) / 2
	halfLat := (b.MaxLat - b.MinLat) * factor
	halfLng := (b.MaxLng - b.MinLng) * factor

	return Bounds{
		MinLat: centerLat - halfLat,
		MaxLat: centerLat + halfLat,
		MinLng: centerLng - halfLng,
		MaxLng: centerLng + halfLng,
	}
}

// PriceRange is an inclusive euro range. Min == Max means an exact price.
type PriceRange struct {
	Min float64
	Max float64
}

// DateRange is an inclusive YYYY-MM-DD range. From == To means a single day.
type DateRange struct {
	From string
	To   string
}

// Query is a validated sale search. A nil Bounds searches the whole dataset.
type Query struct {
	Bounds *Bounds
	Price  *PriceRange
	Date   *DateRange
	Limit  int
	Offset int
}

// Fingerprint is a stable textual form of the query, used for cache keys.
// Floats keep their shortest exact representation so no two distinct
// queries collapse onto the same key.
func (q Query) Fingerprint() string {
	var key strings.Builder
	fmt.Fprintf(&key, "l=%d|o=%d", q.Limit, q.Offset)
	if q.Bounds != nil {
		key.WriteString("|b=" + joinFloats(q.Bounds.MinLat, q.Bounds.MaxLat, q.Bounds.MinLng, q.Bounds.MaxLng))
	}
	if q.Price != nil {
		key.WriteString("|p=" + joinFloats(q.Price.Min, q.Price.Max))
	}
	if q.Date != nil {
		key.WriteString("|d=" + q.Date.From + "," + q.Date.To)
	}
	return key.String()
}

func joinFloats(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

// formatMutationDate renders a database date the way the dataset spells it.
func formatMutationDate(t time.Time) string {
	return t.Format(validate.DateLayout)
}
