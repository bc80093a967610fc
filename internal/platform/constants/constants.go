// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package constants holds the fixed values shared by the API layers: server
// timing, sale paging, header names and envelope keys.
package constants

import "time"

const (
	AppName    = "dvfmap-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second

	// GlobalRequestTimeout cancels the request context of every handler.
	GlobalRequestTimeout = 30 * time.Second

	ShutdownTimeout = 30 * time.Second
)

// # Property Sales

const (
	// DefaultSalesLimit and MaxSalesLimit bound one page of GET /api/v1/dvf/ventes.
	DefaultSalesLimit = 200
	MaxSalesLimit     = 500

	// PropertyTypeHouse is the only dvf.type_local value served.
	PropertyTypeHouse = "Maison"
)

// # HTTP

const (
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderOrigin        = "Origin"

	// MaxRequestIDLength caps client-supplied correlation ids.
	MaxRequestIDLength = 64
)

// # Envelope Keys

const (
	FieldSuccess = "success"
	FieldMessage = "message"
	FieldCode    = "code"
	FieldStatus  = "status"
	FieldVersion = "version"
	FieldChecks  = "checks"
)
