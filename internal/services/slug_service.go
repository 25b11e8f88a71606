package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// SlugExistsFunc reports whether a candidate slug is already taken
type SlugExistsFunc func(ctx context.Context, slug string) (bool, error)

// SlugService builds URL-safe identifiers from display names and
// disambiguates collisions with a numeric suffix.
type SlugService struct{}

func NewSlugService() *SlugService {
	return &SlugService{}
}

// Slugify lowercases the name and collapses anything that is not a letter or
// digit into single hyphens.
func (s *SlugService) Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Generate returns a unique slug for the given name, appending a numeric
// suffix on collision and falling back to a timestamp suffix when the
// candidate space is exhausted.
func (s *SlugService) Generate(ctx context.Context, name string, exists SlugExistsFunc) (string, error) {
	base := s.Slugify(name)
	if base == "" {
		base = "profile"
	}

	taken, err := exists(ctx, base)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for i := 2; i <= 50; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	// Timestamp fallback keeps the operation bounded
	return fmt.Sprintf("%s-%d", base, time.Now().Unix()), nil
}
