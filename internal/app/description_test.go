package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lokvista_admin/internal/app"
	"lokvista_admin/internal/domain"
)

type fakeGenerator struct {
	got domain.DescriptionInput
	out string
	err error
}

func (g *fakeGenerator) GenerateDescription(ctx context.Context, in domain.DescriptionInput) (string, error) {
	g.got = in
	return g.out, g.err
}

func TestGenerateDescription(t *testing.T) {
	g := &fakeGenerator{out: "  A quiet lake town.\n"}
	svc := app.NewDescriptionService(g)

	got, err := svc.Generate(context.Background(), domain.DescriptionInput{
		Coordinates:    " 24.58, 73.71 ",
		Landmarks:      "Lake Pichola",
		Infrastructure: "Paved roads",
	})
	require.NoError(t, err)
	assert.Equal(t, "A quiet lake town.", got)
	assert.Equal(t, "24.58, 73.71", g.got.Coordinates)
}

func TestGenerateDescription_Validation(t *testing.T) {
	g := &fakeGenerator{}
	svc := app.NewDescriptionService(g)

	_, err := svc.Generate(context.Background(), domain.DescriptionInput{Coordinates: "1,2", Landmarks: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, g.got.Coordinates, "generator not called")
}

func TestGenerateDescription_NoGenerator(t *testing.T) {
	svc := app.NewDescriptionService(nil)
	_, err := svc.Generate(context.Background(), domain.DescriptionInput{Coordinates: "1,2", Landmarks: "x", Infrastructure: "y"})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
}
