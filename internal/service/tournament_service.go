package service

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/AdamBeresnev/tournament-store/internal/store"
	"github.com/AdamBeresnev/tournament-store/internal/theme"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"
)

type TournamentService struct {
	tournaments *store.TournamentStore
	images      *store.ImageStore
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewTournamentService(tournaments *store.TournamentStore, images *store.ImageStore, logger *slog.Logger) *TournamentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TournamentService{
		tournaments: tournaments,
		images:      images,
		validate:    newValidator(),
		logger:      logger,
	}
}

type CreateInput struct {
	Name string `validate:"required,pathsegment"`
}

type SaveImageInput struct {
	TournamentName string `validate:"required,pathsegment"`
	FileName       string `validate:"required,pathsegment"`
	ImageData      string `validate:"required"`
}

type ImageInput struct {
	TournamentName string `validate:"required,pathsegment"`
	ImagePath      string `validate:"required,localpath"`
}

func (s *TournamentService) GetTournaments(ctx context.Context) (tournaments []bracket.Tournament, err error) {
	ctx, span := startSpan(ctx, "TournamentService.GetTournaments")
	defer func() { endSpan(span, err) }()

	tournaments, err = s.tournaments.List(ctx)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("tournaments.count", len(tournaments)))
	return tournaments, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, name string) (t *bracket.Tournament, err error) {
	ctx, span := startSpan(ctx, "TournamentService.GetTournament", attribute.String("tournament.name", name))
	defer func() { endSpan(span, err) }()

	if err := s.checkName(name); err != nil {
		return nil, err
	}
	return s.tournaments.Get(ctx, name)
}

func (s *TournamentService) CreateTournament(ctx context.Context, input CreateInput) (t *bracket.Tournament, err error) {
	ctx, span := startSpan(ctx, "TournamentService.CreateTournament", attribute.String("tournament.name", input.Name))
	defer func() { endSpan(span, err) }()

	if err := s.check(input); err != nil {
		return nil, err
	}

	t, err = s.tournaments.Create(ctx, input.Name)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "created tournament", "name", t.Name, "id", t.ID)
	return t, nil
}

// UpdateTournament overwrites the stored document with t. The caller owns
// the whole document; fields it leaves empty are written empty.
func (s *TournamentService) UpdateTournament(ctx context.Context, t *bracket.Tournament) (updated *bracket.Tournament, err error) {
	if t == nil {
		return nil, errors.Wrap(store.ErrInvalidInput, "update tournament: missing document")
	}

	ctx, span := startSpan(ctx, "TournamentService.UpdateTournament",
		attribute.String("tournament.name", t.Name),
		attribute.Int("tournament.participants", t.ParticipantCount()))
	defer func() { endSpan(span, err) }()

	if err := s.check(t); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "saving tournament", "name", t.Name, "participants", t.ParticipantCount())
	updated, err = s.tournaments.Update(ctx, t)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to save tournament", "name", t.Name, "error", err)
		return nil, err
	}
	return updated, nil
}

// StorePath is the absolute store root, for display only.
func (s *TournamentService) StorePath() string {
	return s.tournaments.Root()
}

func (s *TournamentService) SaveParticipantImage(ctx context.Context, input SaveImageInput) (imagePath string, err error) {
	ctx, span := startSpan(ctx, "TournamentService.SaveParticipantImage",
		attribute.String("tournament.name", input.TournamentName),
		attribute.String("image.file", input.FileName))
	defer func() { endSpan(span, err) }()

	if err := s.check(input); err != nil {
		return "", err
	}
	return s.images.Save(ctx, input.TournamentName, input.FileName, input.ImageData)
}

func (s *TournamentService) GetImageData(ctx context.Context, input ImageInput) (dataURL string, err error) {
	ctx, span := startSpan(ctx, "TournamentService.GetImageData",
		attribute.String("tournament.name", input.TournamentName),
		attribute.String("image.path", input.ImagePath))
	defer func() { endSpan(span, err) }()

	if err := s.check(input); err != nil {
		return "", err
	}
	return s.images.Load(ctx, input.TournamentName, input.ImagePath)
}

// GetTheme returns the palette for the named tournament's colours.
func (s *TournamentService) GetTheme(ctx context.Context, name string) (palette theme.Palette, err error) {
	ctx, span := startSpan(ctx, "TournamentService.GetTheme", attribute.String("tournament.name", name))
	defer func() { endSpan(span, err) }()

	t, err := s.GetTournament(ctx, name)
	if err != nil {
		return theme.Palette{}, err
	}

	palette, err = theme.ForColors(t.Colors)
	if err != nil {
		return theme.Palette{}, errors.Mark(errors.Wrapf(err, "colors of %q", name), store.ErrMalformed)
	}
	return palette, nil
}
