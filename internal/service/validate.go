package service

import (
	"path/filepath"

	"github.com/AdamBeresnev/tournament-store/internal/store"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// newValidator registers the tags used on inputs that end up as paths:
//
//	pathsegment  a single file or directory name inside the store
//	localpath    a relative path that stays inside its base directory
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("pathsegment", func(fl validator.FieldLevel) bool {
		return store.ValidSegment(fl.Field().String())
	})
	_ = v.RegisterValidation("localpath", func(fl validator.FieldLevel) bool {
		return filepath.IsLocal(filepath.FromSlash(fl.Field().String()))
	})
	return v
}

func (s *TournamentService) check(input any) error {
	if err := s.validate.Struct(input); err != nil {
		return errors.Mark(errors.Wrap(err, "validate input"), store.ErrInvalidInput)
	}
	return nil
}

func (s *TournamentService) checkName(name string) error {
	if err := s.validate.Var(name, "required,pathsegment"); err != nil {
		return errors.Mark(errors.Wrapf(err, "tournament name %q", name), store.ErrInvalidInput)
	}
	return nil
}
