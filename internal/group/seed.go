package group

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/VitaminP8/yatube/internal/storage"
	log "github.com/sirupsen/logrus"
)

const maxTitleLen = 200

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

// Seed - описание группы из командной строки: slug:title[:description].
type Seed struct {
	Slug        string
	Title       string
	Description string
}

func ParseSeed(raw string) (Seed, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 {
		return Seed{}, fmt.Errorf("group %q: expected slug:title[:description]", raw)
	}

	s := Seed{
		Slug:  strings.TrimSpace(parts[0]),
		Title: strings.TrimSpace(parts[1]),
	}
	if len(parts) == 3 {
		s.Description = strings.TrimSpace(parts[2])
	}

	if !slugPattern.MatchString(s.Slug) {
		return Seed{}, fmt.Errorf("group %q: invalid slug %q", raw, s.Slug)
	}
	if s.Title == "" || len([]rune(s.Title)) > maxTitleLen {
		return Seed{}, fmt.Errorf("group %q: title must be 1..%d characters", raw, maxTitleLen)
	}
	return s, nil
}

// SeedFlag собирает повторяющийся флаг -group.
type SeedFlag []Seed

func (f *SeedFlag) String() string {
	slugs := make([]string, 0, len(*f))
	for _, s := range *f {
		slugs = append(slugs, s.Slug)
	}
	return strings.Join(slugs, ",")
}

func (f *SeedFlag) Set(raw string) error {
	s, err := ParseSeed(raw)
	if err != nil {
		return err
	}
	*f = append(*f, s)
	return nil
}

// Apply создает группы. Уже существующие slug пропускаются, поэтому повторный запуск безопасен.
func Apply(ctx context.Context, store GroupStorage, seeds []Seed) (created int, err error) {
	for _, s := range seeds {
		_, err := store.CreateGroup(ctx, s.Title, s.Slug, s.Description)
		if storage.IsConflict(err) {
			log.WithField("slug", s.Slug).Warn("group already exists, skipping")
			continue
		}
		if err != nil {
			return created, fmt.Errorf("create group %s: %w", s.Slug, err)
		}
		log.WithField("slug", s.Slug).Info("group created")
		created++
	}
	return created, nil
}
