// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dvf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/dvfmap/internal/platform/constants"
	"github.com/taibuivan/dvfmap/internal/platform/database/schema"
	"github.com/taibuivan/dvfmap/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db       *pgxpool.Pool
	observer QueryObserver
}

// NewPostgresRepository constructs a PostgreSQL backed sale store.
// observer may be nil.
func NewPostgresRepository(db *pgxpool.Pool, observer QueryObserver) *PostgresRepository {
	return &PostgresRepository{db: db, observer: observer}
}

// saleColumns lists the selected columns in [Sale] scan order.
var saleColumns = strings.Join([]string{
	schema.DVF.MutationID,
	schema.DVF.Price + "::float8",
	schema.DVF.MutationDate,
	schema.DVF.Latitude,
	schema.DVF.Longitude,
	orEmpty(schema.DVF.StreetNumber),
	orEmpty(schema.DVF.StreetName),
	orEmpty(schema.DVF.PostalCode),
	orEmpty(schema.DVF.Municipality),
	orEmpty(schema.DVF.ParcelID),
	schema.DVF.LandSurface + "::float8",
}, ", ")

func orEmpty(column string) string {
	return "COALESCE(" + column + ", '')"
}

/*
buildSearchSQL renders the statement and positional arguments for a query.

Description: Equal range bounds become an equality test, everything else an
inclusive BETWEEN. Rows missing a position, price or date never match.
*/
func buildSearchSQL(query Query) (string, []any) {
	table := schema.DVF

	var builder strings.Builder
	fmt.Fprintf(&builder, `SELECT %s
		FROM %s
		WHERE %s = $1
		  AND %s IS NOT NULL
		  AND %s IS NOT NULL
		  AND %s IS NOT NULL
		  AND %s IS NOT NULL`,
		saleColumns, table.Table, table.PropertyType,
		table.Latitude, table.Longitude, table.Price, table.MutationDate)

	args := []any{constants.PropertyTypeHouse}
	argID := 2

	if query.Bounds != nil {
		fmt.Fprintf(&builder, " AND %s BETWEEN $%d AND $%d AND %s BETWEEN $%d AND $%d",
			table.Latitude, argID, argID+1, table.Longitude, argID+2, argID+3)
		args = append(args, query.Bounds.MinLat, query.Bounds.MaxLat, query.Bounds.MinLng, query.Bounds.MaxLng)
		argID += 4
	}

	if query.Price != nil {
		if query.Price.Min == query.Price.Max {
			fmt.Fprintf(&builder, " AND %s = $%d", table.Price, argID)
			args = append(args, query.Price.Min)
			argID++
		} else {
			fmt.Fprintf(&builder, " AND %s BETWEEN $%d AND $%d", table.Price, argID, argID+1)
			args = append(args, query.Price.Min, query.Price.Max)
			argID += 2
		}
	}

	if query.Date != nil {
		if query.Date.From == query.Date.To {
			fmt.Fprintf(&builder, " AND %s = $%d::date", table.MutationDate, argID)
			args = append(args, query.Date.From)
			argID++
		} else {
			fmt.Fprintf(&builder, " AND %s BETWEEN $%d::date AND $%d::date", table.MutationDate, argID, argID+1)
			args = append(args, query.Date.From, query.Date.To)
			argID += 2
		}
	}

	fmt.Fprintf(&builder, " ORDER BY %s DESC LIMIT $%d OFFSET $%d", table.Price, argID, argID+1)
	args = append(args, query.Limit, query.Offset)

	return builder.String(), args
}

/*
Search returns the houses matching the query, most expensive first.

Returns:
  - []Sale: never nil
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) Search(context context.Context, query Query) ([]Sale, error) {
	statement, args := buildSearchSQL(query)

	startTime := time.Now()
	defer func() {
		if repository.observer != nil {
			repository.observer.ObserveSalesQuery(time.Since(startTime))
		}
	}()

	rows, err := repository.db.Query(context, statement, args...)
	if err != nil {
		return nil, dberr.Wrap(err, "search_sales")
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		var sale Sale
		var mutationDate time.Time
		err := rows.Scan(
			&sale.MutationID, &sale.Price, &mutationDate, &sale.Latitude, &sale.Longitude,
			&sale.StreetNumber, &sale.StreetName, &sale.PostalCode, &sale.Municipality,
			&sale.ParcelID, &sale.LandSurfaceSqM,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "scan_sale")
		}
		sale.MutationDate = formatMutationDate(mutationDate)
		sales = append(sales, sale)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "search_sales")
	}

	return sales, nil
}
