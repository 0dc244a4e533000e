package runlog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "nested", "runs.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(OpenOptions{})
	assert.Error(t, err)
}

func TestAppendAssignsIDAndTime(t *testing.T) {
	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s, err := Open(OpenOptions{Path: filepath.Join(t.TempDir(), "runs.db"), Now: func() time.Time { return fixed }})
	require.NoError(t, err)
	defer s.Close()

	r, err := s.Append(Run{Slug: "2024-06-01-x", Written: true})
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)
	assert.True(t, r.Time.Equal(fixed))

	got, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01-x", got.Slug)
	assert.True(t, got.Written)
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(" ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecentNewestFirst(t *testing.T) {
	s := openTemp(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"b", "a", "c"} {
		offset := []time.Duration{2 * time.Hour, time.Hour, 3 * time.Hour}[i]
		_, err := s.Append(Run{Slug: slug, Time: base.Add(offset)})
		require.NoError(t, err)
	}

	runs, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{runs[0].Slug, runs[1].Slug, runs[2].Slug})

	runs, err = s.Recent(1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "c", runs[0].Slug)
}

func TestRecentEmpty(t *testing.T) {
	runs, err := openTemp(t).Recent(0)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestLookupDay(t *testing.T) {
	s := openTemp(t)
	_, found, err := s.LookupDay(DayKey("2024-06-01", "AI"))
	require.NoError(t, err)
	assert.False(t, found)

	r, err := s.Append(Run{Day: "2024-06-01", Topic: "AI", Slug: "2024-06-01-x"})
	require.NoError(t, err)

	got, found, err := s.LookupDay(DayKey("2024-06-01", "AI"))
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, r.ID, got.ID)

	_, found, err = s.LookupDay(DayKey("2024-06-01", "Business"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")
	s, err := Open(OpenOptions{Path: path})
	require.NoError(t, err)
	r, err := s.Append(Run{Slug: "kept"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(OpenOptions{Path: path})
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get(r.ID)
	require.NoError(t, err)
	assert.Equal(t, "kept", got.Slug)
}

func TestTimeKeyRoundTrip(t *testing.T) {
	k := makeTimeIDKey(time.Now().UnixNano(), "abc-123")
	assert.Equal(t, "abc-123", idFromTimeIDKey(k))
	assert.Equal(t, "", idFromTimeIDKey([]byte{1, 2}))
}
