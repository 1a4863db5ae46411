package airtable

import (
	"context"
	"fmt"

	"github.com/tbourn/go-recipes-backend/internal/domain"
)

// UserRepository persists account records in the Users table. Credential
// and uniqueness lookups always hit the store directly: a cached miss here
// would let a just-registered user fail to log in, or a duplicate slip
// past the uniqueness probe.
type UserRepository struct {
	table
}

// NewUserRepository binds the repository to its table.
func NewUserRepository(client *Client, cache *QueryCache) *UserRepository {
	return &UserRepository{table{client: client, cache: cache, name: "Users"}}
}

// FindByEmail returns the user with the given email, or (nil, nil) when no
// single match exists. More than one match means the store is in a state
// this application never writes, and is treated the same as no match.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, fieldEquals("Email", email))
}

// FindByUsername returns the user with the given username, with the same
// ambiguity handling as FindByEmail.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, fieldEquals("Username", username))
}

func (r *UserRepository) findOne(ctx context.Context, filter string) (*domain.User, error) {
	q := r.client.Select(r.name, SelectParams{FilterByFormula: filter})
	res, err := r.execute(ctx, q, false)
	if err != nil {
		return nil, fmt.Errorf("users: lookup: %w", err)
	}
	if len(res.Records) != 1 {
		return nil, nil
	}
	return decodeUser(res.Records[0])
}

// Create writes a new user with an already-hashed password and returns the
// stored record.
func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (*domain.User, error) {
	rec, err := r.client.CreateRecord(ctx, r.name, map[string]any{
		"Username": username,
		"Email":    email,
		"Password": passwordHash,
	})
	if err != nil {
		return nil, fmt.Errorf("users: create: %w", err)
	}
	return decodeUser(*rec)
}

// decodeUser converts a raw record into a User. The password hash is
// carried outside the json mapping so it can never be serialized back out
// by accident.
func decodeUser(rec Record) (*domain.User, error) {
	var u domain.User
	if err := decodeRecord(rec, &u); err != nil {
		return nil, err
	}
	if pw, ok := rec.Fields["Password"].(string); ok {
		u.Password = pw
	}
	return &u, nil
}
