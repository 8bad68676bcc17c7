package store

import (
	"context"
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sourcegraph/conc/iter"
)

// TournamentStore keeps one tournament.json per tournament directory. The
// directory listing is the index: there is no other record of which
// tournaments exist.
type TournamentStore struct {
	layout
	logger *slog.Logger
	now       func() time.Time
	writeFile func(name string, data []byte, perm fs.FileMode) error
	lastID    atomic.Int64
}

func NewTournamentStore(root string, logger *slog.Logger) *TournamentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentStore{
		layout:    layout{root: root},
		logger:    logger,
		now:       time.Now,
		writeFile: os.WriteFile,
	}
}

// Root returns the store root directory.
func (s *TournamentStore) Root() string {
	return s.root
}

type loadResult struct {
	tournament bracket.Tournament
	err        error
}

// List loads every tournament under the root. Directories whose document is
// missing or unreadable are logged and left out rather than failing the call.
// Results follow directory enumeration order.
func (s *TournamentStore) List(ctx context.Context) ([]bracket.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := s.ensureRoot()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, classify(err, "read store root %s", root)
	}

	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry.Name())
		}
	}

	results := iter.Map(dirs, func(dir *string) loadResult {
		t, err := s.readDocument(*dir)
		return loadResult{tournament: t, err: err}
	})

	tournaments := make([]bracket.Tournament, 0, len(results))
	for i, res := range results {
		if res.err != nil {
			s.logger.WarnContext(ctx, "skipping tournament directory", "dir", dirs[i], "error", res.err.Error())
			continue
		}
		s.logger.DebugContext(ctx, "loaded tournament",
			"name", res.tournament.Name,
			"participants", res.tournament.ParticipantCount())
		tournaments = append(tournaments, res.tournament)
	}

	return tournaments, nil
}

// Get loads a single tournament by name.
func (s *TournamentStore) Get(ctx context.Context, name string) (*bracket.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSegment("tournament name", name); err != nil {
		return nil, err
	}
	if _, err := s.ensureRoot(); err != nil {
		return nil, err
	}

	t, err := s.readDocument(name)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create provisions <root>/<name>/ with an empty pictures folder and a fresh
// document. The directory is created with a plain Mkdir so a name that is
// already taken fails at the file-system level instead of after a separate
// existence check.
func (s *TournamentStore) Create(ctx context.Context, name string) (*bracket.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkSegment("tournament name", name); err != nil {
		return nil, err
	}
	if _, err := s.ensureRoot(); err != nil {
		return nil, err
	}

	dir := s.tournamentDir(name)
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, errors.Wrapf(ErrConflict, "create tournament %q", name)
		}
		return nil, classify(err, "create tournament directory %s", dir)
	}

	if err := os.MkdirAll(s.picturesDir(name), 0o755); err != nil {
		s.abandon(ctx, dir)
		return nil, classify(err, "create pictures directory for %q", name)
	}

	now := s.now()
	t := bracket.NewTournament(s.nextID(now), name, now)
	if err := s.writeDocument(&t); err != nil {
		s.abandon(ctx, dir)
		return nil, err
	}

	return &t, nil
}

// abandon removes a half-created tournament directory so the name can be
// claimed again.
func (s *TournamentStore) abandon(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		s.logger.WarnContext(ctx, "failed to clean up tournament directory", "dir", dir, "error", err.Error())
	}
}

// Update replaces the whole document of t.Name. Nothing is merged: the caller
// passes the complete document it previously loaded and modified.
func (s *TournamentStore) Update(ctx context.Context, t *bracket.Tournament) (*bracket.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if t == nil {
		return nil, errors.Wrap(ErrInvalidInput, "update tournament: nil document")
	}
	if err := checkSegment("tournament name", t.Name); err != nil {
		return nil, err
	}
	if _, err := s.ensureRoot(); err != nil {
		return nil, err
	}

	if err := s.writeDocument(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TournamentStore) readDocument(name string) (bracket.Tournament, error) {
	path := s.documentPath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		return bracket.Tournament{}, classify(err, "read %s", path)
	}

	var t bracket.Tournament
	if err := json.Unmarshal(data, &t); err != nil {
		return bracket.Tournament{}, errors.Mark(errors.Wrapf(err, "parse %s", path), ErrMalformed)
	}
	return t, nil
}

// writeDocument writes to a temporary sibling first and renames it over
// tournament.json, so a reader sees either the old or the new document.
func (s *TournamentStore) writeDocument(t *bracket.Tournament) error {
	data, err := bracket.MarshalIndent(t)
	if err != nil {
		return errors.Wrapf(err, "encode tournament %q", t.Name)
	}

	dir := s.tournamentDir(t.Name)
	tmp := filepath.Join(dir, "."+DocumentName+"."+uuid.NewString()+".tmp")
	if err := s.writeFile(tmp, data, 0o644); err != nil {
		return classify(err, "write tournament %q", t.Name)
	}

	target := s.documentPath(t.Name)
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return classify(err, "replace %s", target)
	}
	return nil
}

// nextID hands out creation-time ids in milliseconds, bumping by one when two
// tournaments are created within the same millisecond.
func (s *TournamentStore) nextID(now time.Time) int64 {
	candidate := now.UnixMilli()
	for {
		last := s.lastID.Load()
		next := candidate
		if next <= last {
			next = last + 1
		}
		if s.lastID.CompareAndSwap(last, next) {
			return next
		}
	}
}
