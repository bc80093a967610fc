// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"net/url"

	"github.com/taibuivan/dvfmap/internal/platform/constants"
	"github.com/taibuivan/dvfmap/internal/platform/validate"
	"github.com/taibuivan/dvfmap/pkg/convert"
	"github.com/taibuivan/dvfmap/pkg/query"
)

// Query string parameters.
const (
	ParamTopLeft     = "topLeft"
	ParamBottomRight = "bottomRight"
	ParamPrice       = "price"
	ParamDate        = "date"
	ParamLimit       = "limit"
	ParamOffset      = "offset"
)

/*
ParseQuery validates the query string of a sale search.

Description: topLeft and bottomRight are "lat,lng" pairs and are mandatory.
price and date accept "min,max" or a single exact value. Paging never fails:
a malformed limit or offset falls back to the defaults and limit is capped.

Returns:
  - Query: normalized search (bounds not yet expanded)
  - error: apperr.ValidationError listing every offending parameter
*/
func ParseQuery(values url.Values) (Query, error) {
	validator := &validate.Validator{}
	var search Query

	rawTopLeft := values.Get(ParamTopLeft)
	rawBottomRight := values.Get(ParamBottomRight)
	validator.Required(ParamTopLeft, rawTopLeft).Required(ParamBottomRight, rawBottomRight)

	if rawTopLeft != "" && rawBottomRight != "" {
		topLat, topLng, errTop := query.FloatPair(rawTopLeft)
		bottomLat, bottomLng, errBottom := query.FloatPair(rawBottomRight)

		validator.Custom(ParamTopLeft, errTop != nil, "Must be a lat,lng pair")
		validator.Custom(ParamBottomRight, errBottom != nil, "Must be a lat,lng pair")

		if errTop == nil {
			validator.Coordinate(ParamTopLeft, topLat, topLng)
		}
		if errBottom == nil {
			validator.Coordinate(ParamBottomRight, bottomLat, bottomLng)
		}

		if !validator.Failed(ParamTopLeft) && !validator.Failed(ParamBottomRight) {
			bounds := FromCorners(topLat, topLng, bottomLat, bottomLng)
			search.Bounds = &bounds
		}
	}

	if raw := values.Get(ParamPrice); raw != "" {
		low, high, err := query.FloatPair(raw)
		validator.Custom(ParamPrice, err != nil, "Must be min,max or a single amount")
		if err == nil {
			validator.Amounts(ParamPrice, low, high)
			search.Price = &PriceRange{Min: low, Max: high}
		}
	}

	if raw := values.Get(ParamDate); raw != "" {
		from, to, err := query.Pair(raw)
		validator.Custom(ParamDate, err != nil, "Must be from,to or a single date")
		if err == nil {
			validator.DateSpan(ParamDate, from, to)
			search.Date = &DateRange{From: from, To: to}
		}
	}

	if err := validator.Err(); err != nil {
		return Query{}, err
	}

	search.Limit = convert.ToIntD(values.Get(ParamLimit), constants.DefaultSalesLimit)
	if search.Limit <= 0 {
		search.Limit = constants.DefaultSalesLimit
	}
	search.Limit = convert.ClampInt(search.Limit, 1, constants.MaxSalesLimit)

	search.Offset = max(convert.ToIntD(values.Get(ParamOffset), 0), 0)

	return search, nil
}
