// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns created by data/migrations, so
// SQL built in the stores never spells an identifier by hand.
package schema

// UsersTable represents the 'users' table
type UsersTable struct {
	Table        string
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    string
	UpdatedAt    string
}

// Users is the schema definition for users
var Users = UsersTable{
	Table:        "users",
	ID:           "id",
	Email:        "email",
	PasswordHash: "password_hash",
	FirstName:    "first_name",
	LastName:     "last_name",
	CreatedAt:    "created_at",
	UpdatedAt:    "updated_at",
}

// Columns returns all standard column names, in scan order
func (t UsersTable) Columns() []string {
	return []string{t.ID, t.Email, t.PasswordHash, t.FirstName, t.LastName, t.CreatedAt, t.UpdatedAt}
}
