package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/learnhub/lms-backend/internal/platform/apierr"
	"github.com/learnhub/lms-backend/internal/repos"
)

var (
	slugStripPattern    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapsePattern = regexp.MustCompile(`\s+`)
)

const (
	maxSlugLength = 200
	maxSlugProbes = 1000
)

func normalizeSlug(s string) string {
	out := strings.TrimSpace(strings.ToLower(s))
	out = slugStripPattern.ReplaceAllString(out, "")
	out = slugCollapsePattern.ReplaceAllString(out, "-")
	if len(out) > maxSlugLength {
		out = out[:maxSlugLength]
	}
	return out
}

// generateUniqueSlug probes course slugs, suffixing -1, -2, ... until one
// is free. It is not transactionally safe on its own; the unique index on
// course.slug backstops a race between two identical titles, and the
// caller retries once on a duplicate-key insert.
func generateUniqueSlug(ctx context.Context, tx *gorm.DB, courses repos.CourseRepo, title string) (string, error) {
	base := normalizeSlug(title)
	slug := base
	for count := 0; ; count++ {
		if count > maxSlugProbes {
			return "", apierr.Internal(fmt.Errorf("could not generate unique slug for %q", title))
		}
		taken, err := courses.SlugExists(ctx, tx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, count+1)
	}
}
