package store

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore returns a store rooted in a fresh temp directory whose clock
// is pinned to 2023-11-14T22:13:20Z.
func setupTestStore(t *testing.T) *TournamentStore {
	t.Helper()

	root := filepath.Join(t.TempDir(), "CurrentTournaments")
	s := NewTournamentStore(root, nil)
	s.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return s
}

func TestCreateTournament(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	tournament, err := s.Create(ctx, "Spring Cup")
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000000), tournament.ID)
	assert.Equal(t, "Spring Cup", tournament.Name)
	assert.Equal(t, "2023-11-14T22:13:20.000Z", tournament.CreatedAt.String())
	assert.Equal(t, bracket.TournamentSetup, tournament.Status)
	assert.Empty(t, tournament.Participants)
	assert.NotNil(t, tournament.Participants)
	assert.Equal(t, 0, tournament.CurrentRound)
	assert.Equal(t, bracket.DefaultIcon, tournament.Icon)
	assert.Equal(t, bracket.DefaultColors(), tournament.Colors)

	info, err := os.Stat(filepath.Join(s.Root(), "Spring Cup", PicturesDir))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestCreateTournamentWritesPrettyDocument(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Create(context.Background(), "Spring Cup")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Root(), "Spring Cup", DocumentName))
	require.NoError(t, err)

	expected := `{
  "id": 1700000000000,
  "name": "Spring Cup",
  "createdAt": "2023-11-14T22:13:20.000Z",
  "status": "setup",
  "participants": [],
  "currentRound": 0,
  "icon": "mdi-trophy",
  "colors": {
    "primary": "#FF69B4",
    "background": "#1a1a2e"
  }
}`
	assert.Equal(t, expected, string(data))
}

func TestCreateTournamentConflict(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	first, err := s.Create(ctx, "Finals")
	require.NoError(t, err)

	docPath := filepath.Join(s.Root(), "Finals", DocumentName)
	before, err := os.ReadFile(docPath)
	require.NoError(t, err)

	_, err = s.Create(ctx, "Finals")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))
	assert.Contains(t, err.Error(), "already exists")

	after, err := os.ReadFile(docPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	loaded, err := s.Get(ctx, "Finals")
	require.NoError(t, err)
	assert.Equal(t, first.ID, loaded.ID)
}

func TestCreateTournamentAssignsDistinctIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	a, err := s.Create(ctx, "A")
	require.NoError(t, err)
	b, err := s.Create(ctx, "B")
	require.NoError(t, err)

	assert.Equal(t, a.ID+1, b.ID)
}

func TestCreateTournamentRejectsUnsafeNames(t *testing.T) {
	s := setupTestStore(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		_, err := s.Create(context.Background(), name)
		assert.Truef(t, errors.Is(err, ErrInvalidInput), "name %q: %v", name, err)
	}

	_, err := os.Stat(filepath.Join(filepath.Dir(s.Root()), "escape"))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateRoundTrip(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "League Night")
	require.NoError(t, err)

	modified := *created
	modified.Status = bracket.TournamentInProgress
	modified.CurrentRound = 2
	modified.Icon = "mdi-sword"
	modified.Colors = bracket.Colors{Primary: "#00ff00", Background: "#101010"}
	modified.Participants = []json.RawMessage{
		json.RawMessage(`{"name":"Ann","image":"pictures/ann.png"}`),
		json.RawMessage(`{"name":"Bo & <Co>","seed":2}`),
	}
	modified.Extra = map[string]json.RawMessage{
		"matches": json.RawMessage(`[{"round":1,"winner":"Ann"}]`),
	}

	_, err = s.Update(ctx, &modified)
	require.NoError(t, err)

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, modified, all[0])

	raw, err := os.ReadFile(filepath.Join(s.Root(), "League Night", DocumentName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Bo & <Co>"`)
	assert.Contains(t, string(raw), `"matches": [`)
}

func TestUpdateReplacesWholeDocument(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Open")
	require.NoError(t, err)

	replacement := bracket.Tournament{ID: created.ID, Name: "Open", Status: bracket.TournamentCompleted}
	_, err = s.Update(ctx, &replacement)
	require.NoError(t, err)

	loaded, err := s.Get(ctx, "Open")
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentCompleted, loaded.Status)
	assert.Empty(t, loaded.Icon)
	assert.Nil(t, loaded.Participants)
}

func TestUpdateMissingDirectory(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.Update(context.Background(), &bracket.Tournament{Name: "Ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, statErr := os.Stat(filepath.Join(s.Root(), "Ghost"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateLeavesNoTemporaryFiles(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, "Tidy")
	require.NoError(t, err)
	_, err = s.Update(ctx, created)
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(s.Root(), "Tidy"))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{DocumentName, PicturesDir}, names)
}

func TestListSkipsCorruptAndMissingDocuments(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "Valid")
	require.NoError(t, err)

	broken := filepath.Join(s.Root(), "Broken")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, DocumentName), []byte(`{"id": 1, "name": "Bro`), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(s.Root(), "Empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(s.Root(), "stray.txt"), []byte("hi"), 0o644))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Valid", all[0].Name)
}

func TestListCreatesMissingRoot(t *testing.T) {
	s := setupTestStore(t)

	all, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	info, err := os.Stat(s.Root())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestListPreservesUnknownFields(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	dir := filepath.Join(s.Root(), "Imported")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	doc := `{
  "id": 42,
  "name": "Imported",
  "createdAt": "2024-01-02T03:04:05.678Z",
  "status": "completed",
  "participants": [
    {
      "name": "Zed"
    }
  ],
  "currentRound": 3,
  "icon": "mdi-star",
  "colors": {
    "primary": "#111111",
    "background": "#222222"
  },
  "winner": "Zed"
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentName), []byte(doc), 0o644))

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	got := all[0]
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, bracket.TournamentCompleted, got.Status)
	assert.Equal(t, "2024-01-02T03:04:05.678Z", got.CreatedAt.String())
	require.Len(t, got.Participants, 1)
	assert.JSONEq(t, `{"name":"Zed"}`, string(got.Participants[0]))
	assert.Equal(t, json.RawMessage(`"Zed"`), got.Extra["winner"])

	_, err = s.Update(ctx, &got)
	require.NoError(t, err)

	written, err := os.ReadFile(filepath.Join(dir, DocumentName))
	require.NoError(t, err)
	assert.Equal(t, doc, string(written))
}

func TestGetTournament(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Get(ctx, "Nope")
	assert.True(t, errors.Is(err, ErrNotFound))

	dir := filepath.Join(s.Root(), "Bad")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentName), []byte("not json"), 0o644))

	_, err = s.Get(ctx, "Bad")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestStoreHonoursCancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Create(ctx, "Late")
	assert.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(s.Root())
	assert.True(t, os.IsNotExist(statErr))
}

func TestUpdateKeepsMissingCreatedAtNull(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "Open")
	require.NoError(t, err)

	var doc bracket.Tournament
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"name":"Open","createdAt":null,"status":"setup"}`), &doc))
	_, err = s.Update(ctx, &doc)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(s.Root(), "Open", DocumentName))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"createdAt": null`)
	assert.NotContains(t, string(raw), "0001-01-01")

	loaded, err := s.Get(ctx, "Open")
	require.NoError(t, err)
	assert.True(t, loaded.CreatedAt.IsZero())
}

func TestCreateFailureFreesName(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	s.writeFile = func(string, []byte, fs.FileMode) error {
		return errors.New("disk full")
	}
	_, err := s.Create(ctx, "Retry")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(s.Root(), "Retry"))
	assert.True(t, os.IsNotExist(statErr))

	s.writeFile = os.WriteFile
	created, err := s.Create(ctx, "Retry")
	require.NoError(t, err)
	assert.Equal(t, "Retry", created.Name)
}

func TestListLogsSkippedDirectoryOnOneLine(t *testing.T) {
	var buf bytes.Buffer
	s := setupTestStore(t)
	s.logger = slog.New(slog.NewTextHandler(&buf, nil))

	broken := filepath.Join(s.Root(), "Broken")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, DocumentName), []byte(`{`), 0o644))

	_, err := s.List(context.Background())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "skipping tournament directory")
	assert.Equal(t, 1, strings.Count(out, "\n"), out)
}
