// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf_test

import (
	"context"
	"sync"

	"github.com/taibuivan/dvfmap/internal/dvf"
)

// recordingRepository returns fixed sales and remembers every query it saw.
type recordingRepository struct {
	mu      sync.Mutex
	sales   []dvf.Sale
	err     error
	queries []dvf.Query
}

func (r *recordingRepository) Search(_ context.Context, query dvf.Query) ([]dvf.Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	return r.sales, r.err
}

func (r *recordingRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

type cacheCounter map[string]int

func (c cacheCounter) CacheLookup(result string) { c[result]++ }

func sampleSales() []dvf.Sale {
	surface := 420.0
	return []dvf.Sale{
		{
			MutationID: "2022-1234", Price: 685000, MutationDate: "2022-05-01",
			Latitude: 48.85, Longitude: 2.35, StreetNumber: "12", StreetName: "RUE DES LILAS",
			PostalCode: "75020", Municipality: "Paris 20e Arrondissement", ParcelID: "75120000AB0042",
			LandSurfaceSqM: &surface,
		},
		{
			MutationID: "2021-0042", Price: 312000, MutationDate: "2021-11-17",
			Latitude: 48.83, Longitude: 2.31, PostalCode: "92130", Municipality: "Issy-les-Moulineaux",
		},
	}
}
