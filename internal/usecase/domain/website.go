package domain

import (
	"context"
	"fmt"
	"regexp"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
)

var sectionKey = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Section returns a published website section.
func (u *Usecase) Section(ctx context.Context, key string) (*entities.WebsiteSection, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if !sectionKey.MatchString(key) {
		return nil, fmt.Errorf("%w: malformed section key", entities.ErrInvalidArgument)
	}
	s, err := u.repo.GetSection(ctx, key)
	if err != nil {
		return nil, err
	}
	if !s.IsPublished {
		return nil, entities.ErrNotFound
	}
	return s, nil
}

// Sections lists website sections.
func (u *Usecase) Sections(ctx context.Context, publishedOnly bool) ([]entities.WebsiteSection, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	return u.repo.ListSections(ctx, publishedOnly)
}

// UpsertSection stores website content. Admin only.
func (u *Usecase) UpsertSection(ctx context.Context, actor entities.Actor, s entities.WebsiteSection) (*entities.WebsiteSection, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !sectionKey.MatchString(s.Key) {
		return nil, fmt.Errorf("%w: key must be lowercase letters, digits, '-' or '_'", entities.ErrInvalidArgument)
	}
	if s.Content == nil {
		s.Content = map[string]any{}
	}
	return u.repo.UpsertSection(ctx, s)
}
