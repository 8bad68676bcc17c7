package store

import (
	"path/filepath"
	"strings"

	"github.com/AdamBeresnev/tournament-store/internal/datadir"
	"github.com/cockroachdb/errors"
)

const (
	DocumentName = "tournament.json"
	PicturesDir  = "pictures"
)

// layout maps tournament names onto the on-disk structure:
//
//	<root>/<name>/tournament.json
//	<root>/<name>/pictures/<file>
type layout struct {
	root string
}

func (l layout) ensureRoot() (string, error) {
	return datadir.EnsureRoot(l.root)
}

func (l layout) tournamentDir(name string) string {
	return filepath.Join(l.root, name)
}

func (l layout) documentPath(name string) string {
	return filepath.Join(l.root, name, DocumentName)
}

func (l layout) picturesDir(name string) string {
	return filepath.Join(l.root, name, PicturesDir)
}

// ValidSegment reports whether name can be used as a single directory or
// file name inside the store.
func ValidSegment(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	return filepath.IsLocal(name)
}

func checkSegment(kind, name string) error {
	if !ValidSegment(name) {
		return errors.Wrapf(ErrInvalidInput, "%s %q", kind, name)
	}
	return nil
}
