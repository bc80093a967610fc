// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apiclient

import "time"

// User is the account as returned by the Auth API.
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName,omitempty"`
	LastName  string     `json:"lastName,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// AuthResult is the body of a successful login or registration.
type AuthResult struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Token     string `json:"token"`
}

// User extracts the identity part of the result.
func (r *AuthResult) User() User {
	return User{ID: r.ID, Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
}

// Registration is the body of POST /auth/register.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

// Record is one property sale returned by the Query API.
type Record struct {
	MutationID     string   `json:"id_mutation"`
	Price          float64  `json:"valeur_fonciere"`
	MutationDate   string   `json:"date_mutation"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	StreetNumber   string   `json:"adresse_numero"`
	StreetName     string   `json:"adresse_nom_voie"`
	PostalCode     string   `json:"code_postal"`
	Municipality   string   `json:"nom_commune"`
	ParcelID       string   `json:"id_parcelle"`
	LandSurfaceSqM *float64 `json:"surface_terrain"`
}

// SalesQuery is one Query API request. Nil filters are omitted from the URL.
type SalesQuery struct {
	TopLeft     [2]float64 // lat, lng
	BottomRight [2]float64 // lat, lng
	Price       *[2]float64
	Date        *[2]string
	Limit       int
	Offset      int
}
