package boundary

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/tournament-store/internal/bracket"
	"github.com/AdamBeresnev/tournament-store/internal/service"
	"github.com/cockroachdb/errors"
)

// Adapter exposes the tournament operations by name. No method returns an
// error or lets a panic escape: every outcome becomes a Response.
type Adapter struct {
	svc    *service.TournamentService
	logger *slog.Logger
}

func NewAdapter(svc *service.TournamentService, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{svc: svc, logger: logger}
}

func (a *Adapter) GetAll(ctx context.Context) (res Response[TournamentList]) {
	defer recoverInto(ctx, a.logger, "getAll", &res)

	tournaments, err := a.svc.GetTournaments(ctx)
	if err != nil {
		return fail[TournamentList](ctx, a, "getAll", err)
	}
	if tournaments == nil {
		tournaments = []bracket.Tournament{}
	}
	return succeed(TournamentList{Tournaments: tournaments})
}

func (a *Adapter) Create(ctx context.Context, name string) (res Response[TournamentPayload]) {
	defer recoverInto(ctx, a.logger, "create", &res)

	t, err := a.svc.CreateTournament(ctx, service.CreateInput{Name: name})
	if err != nil {
		return fail[TournamentPayload](ctx, a, "create", err)
	}
	return succeed(TournamentPayload{Tournament: *t})
}

func (a *Adapter) Update(ctx context.Context, t *bracket.Tournament) (res Response[TournamentPayload]) {
	defer recoverInto(ctx, a.logger, "update", &res)

	updated, err := a.svc.UpdateTournament(ctx, t)
	if err != nil {
		return fail[TournamentPayload](ctx, a, "update", err)
	}
	return succeed(TournamentPayload{Tournament: *updated})
}

// GetPath is informational only and has no failure shape.
func (a *Adapter) GetPath() string {
	return a.svc.StorePath()
}

func (a *Adapter) SaveParticipantImage(ctx context.Context, tournamentName, fileName, imageData string) (res Response[ImagePath]) {
	defer recoverInto(ctx, a.logger, "saveParticipantImage", &res)

	rel, err := a.svc.SaveParticipantImage(ctx, service.SaveImageInput{
		TournamentName: tournamentName,
		FileName:       fileName,
		ImageData:      imageData,
	})
	if err != nil {
		return fail[ImagePath](ctx, a, "saveParticipantImage", err)
	}
	return succeed(ImagePath{ImagePath: rel})
}

func (a *Adapter) GetImageData(ctx context.Context, tournamentName, imagePath string) (res Response[DataURL]) {
	defer recoverInto(ctx, a.logger, "getImageData", &res)

	dataURL, err := a.svc.GetImageData(ctx, service.ImageInput{
		TournamentName: tournamentName,
		ImagePath:      imagePath,
	})
	if err != nil {
		return fail[DataURL](ctx, a, "getImageData", err)
	}
	return succeed(DataURL{DataURL: dataURL})
}

func (a *Adapter) GetTheme(ctx context.Context, name string) (res Response[ThemePayload]) {
	defer recoverInto(ctx, a.logger, "getTheme", &res)

	palette, err := a.svc.GetTheme(ctx, name)
	if err != nil {
		return fail[ThemePayload](ctx, a, "getTheme", err)
	}
	return succeed(ThemePayload{Theme: palette})
}

// fail logs err and builds the failure response.
func fail[T any](ctx context.Context, a *Adapter, op string, err error) Response[T] {
	if mapError(err).HTTPStatus >= 500 {
		a.logger.ErrorContext(ctx, "boundary operation failed", "op", op, "error", err)
	} else {
		a.logger.WarnContext(ctx, "boundary operation rejected", "op", op, "error", err.Error())
	}
	return failWith[T](err)
}

func recoverInto[T any](ctx context.Context, logger *slog.Logger, op string, res *Response[T]) {
	r := recover()
	if r == nil {
		return
	}
	err := errors.Newf("%s: unexpected failure: %v", op, r)
	logger.ErrorContext(ctx, "boundary operation panicked", "op", op, "panic", r)
	*res = failWith[T](err)
}
