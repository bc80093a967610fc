// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package respond writes API responses.

Successes are bare payloads: identity objects for /api/auth and a JSON array
for /api/v1/dvf/ventes. Failures always use [ErrorEnvelope] so clients branch
on the code, never on the message.
*/
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/dvfmap/internal/platform/apperr"
	"github.com/taibuivan/dvfmap/internal/platform/ctxutil"
)

const contentTypeJSON = "application/json; charset=utf-8"

// ErrorEnvelope is the body of every non-2xx response.
type ErrorEnvelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON encodes payload before touching the writer, so an unencodable value
// yields a clean 500 instead of a truncated body.
func JSON(writer http.ResponseWriter, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Default().Error("response_encoding_failed", slog.Any("error", err))
		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorEnvelope{Message: "Server error", Code: apperr.CodeInternal})
	}
	body = append(body, '\n')

	header := writer.Header()
	header.Set("Content-Type", contentTypeJSON)
	header.Set("Content-Length", strconv.Itoa(len(body)))
	writer.WriteHeader(statusCode)
	_, _ = writer.Write(body)
}

// OK writes payload with 200.
func OK(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusOK, payload)
}

// Created writes payload with 201.
func Created(writer http.ResponseWriter, payload any) {
	JSON(writer, http.StatusCreated, payload)
}

// List writes items as a JSON array with 200. A nil slice is sent as [].
func List[T any](writer http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	JSON(writer, http.StatusOK, items)
}

// NoContent writes 204 without a body.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// NoStore marks the response as uncacheable. Call it before writing any
// response that carries a token.
func NoStore(writer http.ResponseWriter) {
	writer.Header().Set("Cache-Control", "no-store")
	writer.Header().Set("Pragma", "no-cache")
}

// Error maps err onto the envelope. Anything that is not an [apperr.AppError]
// becomes INTERNAL_ERROR and its text never reaches the client.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		appError = apperr.Internal(err)
	}

	if appError.HTTPStatus >= http.StatusInternalServerError {
		ctx := request.Context()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(ctx)),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Success: false,
		Message: appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}
