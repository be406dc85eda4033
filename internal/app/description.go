package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"lokvista_admin/internal/domain"
)

// DescriptionService drafts a location description with a language model.
type DescriptionService struct {
	gen      domain.DescriptionGenerator
	validate *validator.Validate
}

func NewDescriptionService(gen domain.DescriptionGenerator) *DescriptionService {
	return &DescriptionService{gen: gen, validate: validator.New()}
}

func (s *DescriptionService) Generate(ctx context.Context, in domain.DescriptionInput) (string, error) {
	in.Coordinates = strings.TrimSpace(in.Coordinates)
	in.Landmarks = strings.TrimSpace(in.Landmarks)
	in.Infrastructure = strings.TrimSpace(in.Infrastructure)
	if err := s.validate.Struct(in); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if s.gen == nil {
		return "", domain.ErrUnavailable
	}
	out, err := s.gen.GenerateDescription(ctx, in)
	if err != nil {
		return "", fmt.Errorf("generate description: %w", err)
	}
	return strings.TrimSpace(out), nil
}
