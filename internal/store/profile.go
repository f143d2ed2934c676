package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/stratagem/techtree/internal/tech"
)

// ErrProfileNotFound is returned when a named profile does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// Profile is a player's persisted progression header. The unlocked set is
// stored separately and loaded on demand via UnlockedSet.
type Profile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// CreateProfile inserts a new profile with the given name and starting point
// balance. Profile ids are UUIDv7, so they sort by creation time.
func (s *Store) CreateProfile(ctx context.Context, name string, points int) (Profile, error) {
	p := Profile{
		ID:     uuid.Must(uuid.NewV7()).String(),
		Name:   name,
		Points: points,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, name, points) VALUES (?, ?, ?)
	`, p.ID, p.Name, p.Points)
	if err != nil {
		return Profile{}, fmt.Errorf("create profile %q: %w", name, err)
	}

	return p, nil
}

// GetProfile returns the profile with the given name.
// Returns ErrProfileNotFound when no such profile exists.
func (s *Store) GetProfile(ctx context.Context, name string) (Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, points FROM profiles WHERE name = ?
	`, name).Scan(&p.ID, &p.Name, &p.Points)
	if err == sql.ErrNoRows {
		return Profile{}, fmt.Errorf("profile %q: %w", name, ErrProfileNotFound)
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile %q: %w", name, err)
	}
	return p, nil
}

// GetOrCreateProfile returns the named profile, creating it with the given
// starting points when it does not exist yet.
func (s *Store) GetOrCreateProfile(ctx context.Context, name string, points int) (Profile, error) {
	p, err := s.GetProfile(ctx, name)
	if errors.Is(err, ErrProfileNotFound) {
		return s.CreateProfile(ctx, name, points)
	}
	return p, err
}

// ListProfiles returns all profiles ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, points FROM profiles ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Points); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

// SetPoints updates a profile's science-point balance.
func (s *Store) SetPoints(ctx context.Context, profileID string, points int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET points = ? WHERE id = ?
	`, points, profileID)
	if err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profile %s: %w", profileID, ErrProfileNotFound)
	}
	return nil
}

// RecordUnlock persists a technology id into a profile's unlocked set.
// Uses ON CONFLICT DO NOTHING for idempotency - recording the same unlock
// twice is a no-op, matching the in-memory set semantics.
func (s *Store) RecordUnlock(ctx context.Context, profileID, techID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unlocks (profile_id, tech_id) VALUES (?, ?)
		ON CONFLICT (profile_id, tech_id) DO NOTHING
	`, profileID, techID)
	if err != nil {
		return fmt.Errorf("record unlock %s/%s: %w", profileID, techID, err)
	}
	return nil
}

// UnlockedSet loads a profile's unlocked set into a fresh caller-owned
// tech.Set. An empty (nil-free) set is returned for a profile with no
// unlocks yet.
func (s *Store) UnlockedSet(ctx context.Context, profileID string) (tech.Set, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tech_id FROM unlocks WHERE profile_id = ? ORDER BY tech_id ASC
	`, profileID)
	if err != nil {
		return nil, fmt.Errorf("load unlocked set: %w", err)
	}
	defer rows.Close()

	unlocked := tech.NewSet()
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		unlocked.Add(id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unlocks: %w", err)
	}

	return unlocked, nil
}
