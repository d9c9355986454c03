// Package users is the application-level user-profile store. Profiles
// are denormalized from the identity provider at signup time; the
// session, not this store, answers authorization checks.
package users

import (
	"context"
	"fmt"
	"time"

	"authkit/internal/controller"

	"github.com/google/uuid"
)

const collection = "users"

// Profile is the application's view of an account. It never carries
// credentials.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name,omitempty"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Controller manages the users collection.
type Controller struct {
	controller.Controller[Profile]
}

func NewController(db controller.DB[Profile]) *Controller {
	return &Controller{Controller: controller.New(collection, db)}
}

// Create inserts a new profile. A missing ID is assigned.
func (c *Controller) Create(ctx context.Context, p Profile) (*Profile, error) {
	if p.Username == "" {
		return nil, fmt.Errorf("users: username is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	existing, err := c.FindByUsername(ctx, p.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("users: profile for %s already exists", p.Username)
	}

	if _, err := c.DB.Insert(ctx, []Profile{p}, c.Options(nil)); err != nil {
		return nil, err
	}
	return &p, nil
}

// FindByUsername returns the profile for username, or nil when absent.
func (c *Controller) FindByUsername(ctx context.Context, username string) (*Profile, error) {
	res, err := c.DB.Query(ctx, c.Options(&controller.Condition{
		Field:    "username",
		Operator: "=",
		Value:    username,
	}))
	if err != nil {
		return nil, err
	}
	if res.Count() == 0 {
		return nil, nil
	}
	p := res.Rows()[0]
	return &p, nil
}

// UpdateRole rewrites the stored profile with a new role.
func (c *Controller) UpdateRole(ctx context.Context, username, role string) (*Profile, error) {
	current, err := c.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("users: no profile for %s", username)
	}

	current.Role = role
	_, err = c.DB.Update(ctx, *current, c.Options(&controller.Condition{
		Field:    "username",
		Operator: "=",
		Value:    username,
	}))
	if err != nil {
		return nil, err
	}
	return current, nil
}
