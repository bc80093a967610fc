// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
)

// Service implements the sale search use case.
type Service struct {
	repository Repository
	margin     float64
	logger     *slog.Logger
}

// NewService constructs a [Service]. margin widens every geographic
// viewport around its centre (0.2 adds 20% per axis).
func NewService(repository Repository, margin float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, margin: margin, logger: logger}
}

/*
Search runs a validated query.

Description: A viewport in WGS84 range is widened by the configured margin so
markers near the edges are already loaded when the user pans. Corners outside
that range cannot be latitudes and longitudes; the box is then ignored.

Returns:
  - []Sale: never nil, possibly empty
  - error: storage failures
*/
func (service *Service) Search(context context.Context, query Query) ([]Sale, error) {
	if query.Bounds != nil {
		if query.Bounds.IsGeographic() {
			expanded := query.Bounds.Expand(service.margin)
			query.Bounds = &expanded
		} else {
			service.logger.WarnContext(context, "dvf_bounds_not_geographic",
				slog.Float64("min_lat", query.Bounds.MinLat),
				slog.Float64("min_lng", query.Bounds.MinLng),
			)
			query.Bounds = nil
		}
	}

	sales, err := service.repository.Search(context, query)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("dvf_service_search_failed: %w", err)
	}

	if sales == nil {
		sales = []Sale{}
	}

	return sales, nil
}
