// Package users provides the owner directory consumed by the board for
// display resolution. Leads hold a weak reference by owner id only.
package users

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// ErrUserNotFound is returned when an owner id is absent from the directory.
var ErrUserNotFound = errors.New("user not found")

// User is a directory entry for a lead owner.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Directory resolves owner ids to user records.
type Directory interface {
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]*User, error)
}

// MemoryDirectory is an in-memory Directory seeded at boot.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*User
}

// NewMemoryDirectory creates a directory holding the given users.
func NewMemoryDirectory(users ...*User) *MemoryDirectory {
	d := &MemoryDirectory{users: make(map[string]*User, len(users))}
	for _, u := range users {
		cp := *u
		d.users[u.ID] = &cp
	}
	return d
}

// Get resolves a single owner id.
func (d *MemoryDirectory) Get(ctx context.Context, id string) (*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, ok := d.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// List returns all users sorted by id.
func (d *MemoryDirectory) List(ctx context.Context) ([]*User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*User, 0, len(d.users))
	for _, u := range d.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
