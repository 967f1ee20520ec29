package persons

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// WriteRequest is the payload for create and update operations.
type WriteRequest struct {
	Nom     string `json:"nom" validate:"required"`
	Adresse string `json:"adresse"`
}

// ValidationError reports a bad or missing payload field. It maps to a
// 400 response at the API boundary.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

type Service struct {
	repo      Repository
	logger    zerolog.Logger
	validator *validator.Validate
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:      repo,
		logger:    logger.With().Str("component", "persons").Logger(),
		validator: validator.New(),
	}
}

func (s *Service) List(ctx context.Context) ([]Person, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*Person, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the payload and inserts a new person. A missing
// address normalizes to the empty string.
func (s *Service) Create(ctx context.Context, req WriteRequest) (*Person, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	person, err := s.repo.Create(ctx, req.Nom, req.Adresse)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", person.ID).Msg("person created")
	return person, nil
}

// Replace performs a full replace of name/address for an existing id.
// The existence check runs before payload validation so an unknown id
// answers 404 even when the payload is also bad.
func (s *Service) Replace(ctx context.Context, id int64, req WriteRequest) (*Person, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	person, err := s.repo.Update(ctx, id, req.Nom, req.Adresse)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("id", id).Msg("person updated")
	return person, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("id", id).Msg("person deleted")
	return nil
}

func (s *Service) validate(req WriteRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return ValidationError{Field: "nom", Message: "Le champ 'nom' est obligatoire."}
	}
	return nil
}
