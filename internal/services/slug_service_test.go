package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugService_Slugify(t *testing.T) {
	s := NewSlugService()

	assert.Equal(t, "jane-citizen", s.Slugify("Jane Citizen"))
	assert.Equal(t, "o-brien-associates", s.Slugify("O'Brien & Associates"))
	assert.Equal(t, "smith-partners-pty-ltd", s.Slugify("  Smith & Partners Pty. Ltd.  "))
	assert.Equal(t, "abc-123", s.Slugify("ABC 123"))
	assert.Equal(t, "", s.Slugify("!!!"))
}

func TestSlugService_GenerateNoCollision(t *testing.T) {
	s := NewSlugService()

	slug, err := s.Generate(context.Background(), "Jane Citizen", func(ctx context.Context, slug string) (bool, error) {
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "jane-citizen", slug)
}

func TestSlugService_GenerateAppendsSuffixOnCollision(t *testing.T) {
	s := NewSlugService()
	taken := map[string]bool{"jane-citizen": true, "jane-citizen-2": true}

	slug, err := s.Generate(context.Background(), "Jane Citizen", func(ctx context.Context, slug string) (bool, error) {
		return taken[slug], nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "jane-citizen-3", slug)
}

func TestSlugService_GenerateEmptyNameFallsBack(t *testing.T) {
	s := NewSlugService()

	slug, err := s.Generate(context.Background(), "???", func(ctx context.Context, slug string) (bool, error) {
		return false, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "profile", slug)
}
