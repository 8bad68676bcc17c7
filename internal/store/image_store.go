package store

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/[\w.+-]+;base64,`)

// ImageStore keeps participant pictures in <root>/<tournament>/pictures.
type ImageStore struct {
	layout
	logger *slog.Logger
}

func NewImageStore(root string, logger *slog.Logger) *ImageStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ImageStore{layout: layout{root: root}, logger: logger}
}

// Save decodes imageData (a data URL or bare base64) and writes it to
// pictures/<fileName>, replacing any previous file of that name. The returned
// path is relative to the tournament directory and always uses forward
// slashes, so it can be embedded in participant records as-is.
func (s *ImageStore) Save(ctx context.Context, tournamentName, fileName, imageData string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSegment("tournament name", tournamentName); err != nil {
		return "", err
	}
	if err := checkSegment("image file name", fileName); err != nil {
		return "", err
	}

	data, err := DecodeImageData(imageData)
	if err != nil {
		return "", err
	}

	if _, err := s.ensureRoot(); err != nil {
		return "", err
	}
	if _, err := os.Stat(s.tournamentDir(tournamentName)); err != nil {
		return "", classify(err, "tournament %q", tournamentName)
	}

	pictures := s.picturesDir(tournamentName)
	if err := os.MkdirAll(pictures, 0o755); err != nil {
		return "", classify(err, "create pictures directory for %q", tournamentName)
	}

	target := filepath.Join(pictures, fileName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", classify(err, "write image %s", target)
	}

	s.logger.DebugContext(ctx, "saved participant image",
		"tournament", tournamentName,
		"file", fileName,
		"bytes", len(data))

	return path.Join(PicturesDir, fileName), nil
}

// Load reads an image previously returned by Save and encodes it as a data
// URL. The MIME subtype is taken from the file extension; content is not
// inspected.
func (s *ImageStore) Load(ctx context.Context, tournamentName, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkSegment("tournament name", tournamentName); err != nil {
		return "", err
	}

	rel := filepath.FromSlash(imagePath)
	if !filepath.IsLocal(rel) {
		return "", errors.Wrapf(ErrInvalidInput, "image path %q", imagePath)
	}

	if _, err := s.ensureRoot(); err != nil {
		return "", err
	}

	full := filepath.Join(s.tournamentDir(tournamentName), rel)
	data, err := os.ReadFile(full)
	if err != nil {
		return "", classify(err, "read image %s", full)
	}

	return EncodeDataURL(strings.TrimPrefix(filepath.Ext(full), "."), data), nil
}

// DecodeImageData strips an optional data:image/<type>;base64, prefix and
// decodes the remaining payload. Padding is optional.
func DecodeImageData(imageData string) ([]byte, error) {
	payload := dataURLPrefix.ReplaceAllLiteralString(imageData, "")
	payload = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err == nil {
		return data, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(payload); rawErr == nil {
		return raw, nil
	}
	return nil, errors.Mark(errors.Wrap(err, "decode image data"), ErrInvalidInput)
}

func EncodeDataURL(subtype string, data []byte) string {
	return "data:image/" + subtype + ";base64," + base64.StdEncoding.EncodeToString(data)
}

