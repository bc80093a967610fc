// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
	"github.com/taibuivan/dvfmap/internal/platform/respond"
)

// Handler implements the /api/v1/dvf endpoints.
type Handler struct {
	service *Service
	gateway func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler]. Every route sits behind gateway.
func NewHandler(service *Service, gateway func(http.Handler) http.Handler) *Handler {
	return &Handler{service: service, gateway: gateway}
}

// Routes returns a [chi.Router] with the dataset endpoints.
//
// # Endpoints
//   - GET /ventes : Houses sold inside a viewport (gateway).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(handler.gateway)
	router.Get("/ventes", handler.listSales)
	return router
}

/*
listSales searches property sales.

GET /api/v1/dvf/ventes?topLeft=lat,lng&bottomRight=lat,lng[&price=min,max][&date=from,to][&limit][&offset]

Response:
  - 200: []Sale (possibly empty)
  - 400: VALIDATION_ERROR
  - 401: gateway rejection
*/
func (handler *Handler) listSales(writer http.ResponseWriter, request *http.Request) {
	query, err := ParseQuery(request.URL.Query())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	sales, err := handler.service.Search(request.Context(), query)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "dvf_sales_served",
		slog.Int("count", len(sales)),
	)

	respond.List(writer, sales)
}
