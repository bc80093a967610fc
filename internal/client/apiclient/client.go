// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apiclient talks to the Auth API and the Query API over HTTP.

Every failure is returned as a *clienterr.Error. Responses are never retried:
the next user action is the retry.
*/
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/taibuivan/dvfmap/internal/client/clienterr"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 64 << 10

// Client is safe for concurrent use.
type Client struct {
	authURL string
	apiURL  string
	http    *http.Client
	logger  *slog.Logger
}

// New builds a client. authURL is the Auth API root (…/api/auth), apiURL the
// Query API root (…/api/v1). A nil httpClient uses one without a timeout.
func New(authURL, apiURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		authURL: strings.TrimRight(authURL, "/"),
		apiURL:  strings.TrimRight(apiURL, "/"),
		http:    httpClient,
		logger:  logger,
	}
}

// NewHTTPClient returns an [http.Client] with the given overall timeout (0 = none).
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// # Auth API

// Login exchanges credentials for a token. A 401 is InvalidCredentials.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, c.authURL+"/login", "", body, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// Register creates an account and returns its first token.
func (c *Client) Register(ctx context.Context, registration Registration) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, c.authURL+"/register", "", registration, &result, true); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the account behind token.
func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, c.authURL+"/profile", token, nil, &user, false); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout asks the server to revoke token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, c.authURL+"/logout", token, nil, nil, false)
}

// # Query API

// Sales runs one property-sale query.
func (c *Client) Sales(ctx context.Context, token string, query SalesQuery) ([]Record, error) {
	records := []Record{}
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/dvf/ventes?"+EncodeSalesQuery(query).Encode(), token, nil, &records, false); err != nil {
		return nil, err
	}
	return records, nil
}

// EncodeSalesQuery renders the query string. An exact filter is sent as an
// equal pair, e.g. date=2022-05-01,2022-05-01.
func EncodeSalesQuery(query SalesQuery) url.Values {
	values := url.Values{}
	values.Set("topLeft", formatPair(query.TopLeft[0], query.TopLeft[1]))
	values.Set("bottomRight", formatPair(query.BottomRight[0], query.BottomRight[1]))
	if query.Price != nil {
		values.Set("price", formatPair(query.Price[0], query.Price[1]))
	}
	if query.Date != nil {
		values.Set("date", query.Date[0]+","+query.Date[1])
	}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Offset > 0 {
		values.Set("offset", strconv.Itoa(query.Offset))
	}
	return values
}

func formatPair(a, b float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64) + "," + strconv.FormatFloat(b, 'f', -1, 64)
}

// # Transport

type errorEnvelope struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, target, token string, in, out any, credentialsEndpoint bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return clienterr.Wrap(clienterr.KindBadRequest, "encode request", err)
		}
		body = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return clienterr.Wrap(clienterr.KindBadRequest, "build request", err)
	}
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.http.Do(request)
	if err != nil {
		c.logger.DebugContext(ctx, "api_request_failed", slog.String("method", method), slog.Any("error", err))
		return clienterr.Wrap(clienterr.KindNetwork, "request failed", err)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return classify(response, credentialsEndpoint)
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, response.Body)
		return nil
	}

	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &clienterr.Error{Kind: clienterr.KindServer, Message: "malformed response body", Status: response.StatusCode, Cause: err}
	}
	return nil
}

// classify maps a failed response onto the client taxonomy.
func classify(response *http.Response, credentialsEndpoint bool) error {
	var envelope errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &envelope)
	}
	if envelope.Message == "" {
		envelope.Message = http.StatusText(response.StatusCode)
	}

	failure := &clienterr.Error{Message: envelope.Message, Status: response.StatusCode, Code: envelope.Code}

	switch status := response.StatusCode; {
	case status == http.StatusUnauthorized && credentialsEndpoint:
		failure.Kind = clienterr.KindInvalidCredentials
	case status == http.StatusUnauthorized:
		failure.Kind = tokenKind(envelope.Code)
	case status == http.StatusConflict:
		failure.Kind = clienterr.KindConflict
	case status == http.StatusNotFound:
		failure.Kind = clienterr.KindNotFound
	case status >= 500:
		failure.Kind = clienterr.KindServer
	case status >= 400:
		failure.Kind = clienterr.KindBadRequest
	default:
		failure.Kind = clienterr.KindServer
		failure.Cause = fmt.Errorf("unexpected status %d", status)
	}

	return failure
}

// tokenKind reads the gateway reason code. A 401 without one counts as invalid.
func tokenKind(code string) clienterr.Kind {
	switch code {
	case "NO_TOKEN":
		return clienterr.KindNoToken
	case "TOKEN_EXPIRED":
		return clienterr.KindExpiredToken
	case "TOKEN_REVOKED":
		return clienterr.KindRevokedToken
	default:
		return clienterr.KindInvalidToken
	}
}
