// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what the auth and sales handlers need from a request:
a bounded JSON body, the bearer credential, and the claims the gateway attached.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/constants"
	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
	"github.com/taibuivan/dvfmap/internal/platform/sec"
	"github.com/taibuivan/dvfmap/internal/platform/validate"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON decodes exactly one JSON value from the body into target.

Returns:
  - error: VALIDATION_ERROR for an empty, oversized, malformed or trailing body
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, request.Body, maxBodyBytes))

	var tooLarge *http.MaxBytesError
	err := decoder.Decode(target)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return apperr.ValidationError("Request body is empty")
	case errors.As(err, &tooLarge):
		return apperr.ValidationError(fmt.Sprintf("Request body exceeds %d bytes", maxBodyBytes))
	default:
		return validate.ErrInvalidJSON
	}

	if decoder.More() {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
BearerToken extracts the raw token from an "Authorization: Bearer <token>" header.

Returns:
  - string: the token, empty if the header is missing
  - bool: false if the header is present but not a well-formed bearer credential
*/
func BearerToken(request *http.Request) (string, bool) {
	header := strings.TrimSpace(request.Header.Get(constants.HeaderAuthorization))
	if header == "" {
		return "", true
	}

	scheme, token, found := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !found || !strings.EqualFold(scheme, "bearer") || token == "" || strings.Contains(token, " ") {
		return "", false
	}

	return token, true
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.NoToken if the request did not pass the gateway
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.NoToken()
	}
	return claims, nil
}
