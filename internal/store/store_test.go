package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore opens a fresh in-memory store, closed with the test.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_IsIdempotentOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	assert.NoError(t, s2.Close())
}

func TestCreateAndGetProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	created, err := s.CreateProfile(ctx, "hatshepsut", 15)
	require.NoError(t, err)

	parsed, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version(), "profile ids are UUIDv7")

	got, err := s.GetProfile(ctx, "hatshepsut")
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestGetProfile_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestCreateProfile_DuplicateNameRejected(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.CreateProfile(ctx, "hatshepsut", 15)
	require.NoError(t, err)

	_, err = s.CreateProfile(ctx, "hatshepsut", 30)
	assert.Error(t, err, "profile names are unique")
}

func TestGetOrCreateProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreateProfile(ctx, "ramses", 20)
	require.NoError(t, err)

	// Second call must return the existing profile, ignoring the new points.
	second, err := s.GetOrCreateProfile(ctx, "ramses", 99)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListProfiles_OrderedByName(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"ramses", "hatshepsut", "cleopatra"} {
		_, err := s.CreateProfile(ctx, name, 10)
		require.NoError(t, err)
	}

	profiles, err := s.ListProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 3)
	assert.Equal(t, "cleopatra", profiles[0].Name)
	assert.Equal(t, "hatshepsut", profiles[1].Name)
	assert.Equal(t, "ramses", profiles[2].Name)
}

func TestSetPoints(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "hatshepsut", 15)
	require.NoError(t, err)

	require.NoError(t, s.SetPoints(ctx, p.ID, 3))

	got, err := s.GetProfile(ctx, "hatshepsut")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Points)
}

func TestSetPoints_UnknownProfile(t *testing.T) {
	s := openTestStore(t)

	err := s.SetPoints(context.Background(), "no-such-id", 3)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestRecordUnlockAndUnlockedSet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "hatshepsut", 15)
	require.NoError(t, err)

	require.NoError(t, s.RecordUnlock(ctx, p.ID, "pottery"))
	require.NoError(t, s.RecordUnlock(ctx, p.ID, "writing"))
	// Idempotent: same unlock twice is a no-op.
	require.NoError(t, s.RecordUnlock(ctx, p.ID, "pottery"))

	unlocked, err := s.UnlockedSet(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"pottery", "writing"}, unlocked.IDs())
}

func TestUnlockedSet_EmptyProfile(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	p, err := s.CreateProfile(ctx, "fresh", 0)
	require.NoError(t, err)

	unlocked, err := s.UnlockedSet(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, unlocked)
	assert.Empty(t, unlocked.IDs())
}

func TestProgressSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.db")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	p, err := s1.CreateProfile(ctx, "hatshepsut", 15)
	require.NoError(t, err)
	require.NoError(t, s1.RecordUnlock(ctx, p.ID, "pottery"))
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetProfile(ctx, "hatshepsut")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	unlocked, err := s2.UnlockedSet(ctx, got.ID)
	require.NoError(t, err)
	assert.True(t, unlocked.Has("pottery"))
}
