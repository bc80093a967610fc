// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/dvfmap/internal/platform/request"
	"github.com/taibuivan/dvfmap/internal/platform/respond"
	"github.com/taibuivan/dvfmap/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the /api/auth endpoints.
type Handler struct {
	authService *Service
	gateway     func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler].
//
// gateway is the bearer-token middleware protecting /profile and /logout.
func NewHandler(service *Service, gateway func(http.Handler) http.Handler) *Handler {
	return &Handler{authService: service, gateway: gateway}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /register : Creates a new account and returns a token.
//   - POST /login    : Authenticates and returns a token.
//   - GET  /profile  : Returns the current account (gateway).
//   - POST /logout   : Revokes the presented token (gateway).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(handler.gateway)
		r.Get("/profile", handler.profile)
		r.Post("/logout", handler.logout)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
Register handles the creation of a new user account.

POST /api/auth/register

Response:
  - 201: AuthResult {id, email, firstName?, lastName?, token}
  - 400: VALIDATION_ERROR
  - 409: CONFLICT (email already registered)
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxLen(FieldPassword, input.Password, MaxPasswordLength).
		MaxLen(FieldFirstName, input.FirstName, MaxNameLength).
		MaxLen(FieldLastName, input.LastName, MaxNameLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Register(request.Context(), RegisterInput{
		Email:     input.Email,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoStore(writer)
	respond.Created(writer, result)
}

/*
Login authenticates a user.

POST /api/auth/login

Response:
  - 200: AuthResult {id, email, firstName?, lastName?, token}
  - 400: VALIDATION_ERROR
  - 401: INVALID_CREDENTIALS
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoStore(writer)
	respond.OK(writer, result)
}

/*
Profile returns the authenticated account.

GET /api/auth/profile

Response:
  - 200: User {id, email, firstName?, lastName?, createdAt, updatedAt}
  - 401: NO_TOKEN | TOKEN_EXPIRED | TOKEN_INVALID | TOKEN_REVOKED
  - 404: NOT_FOUND (account deleted after the token was issued)
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Profile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Logout revokes the presented token.

POST /api/auth/logout

Response:
  - 204: No Content
  - 401: gateway rejection
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	claims, err := requestutil.RequiredClaims(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.Logout(request.Context(), claims); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
