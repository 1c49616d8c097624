package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/jackc/pgx/v5"
)

const (
	sectionColumns     = `key, title, content, is_published, updated_at`
	selectSectionQuery = `SELECT ` + sectionColumns + ` FROM website_sections WHERE key = $1`
	listSectionsQuery  = `SELECT ` + sectionColumns + ` FROM website_sections WHERE ($1 = false OR is_published) ORDER BY key`
	upsertSectionQuery = `
INSERT INTO website_sections(key, title, content, is_published, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (key) DO UPDATE
SET title = EXCLUDED.title, content = EXCLUDED.content, is_published = EXCLUDED.is_published, updated_at = EXCLUDED.updated_at
RETURNING ` + sectionColumns
)

func scanSection(row pgx.Row) (entities.WebsiteSection, error) {
	var s entities.WebsiteSection
	err := row.Scan(&s.Key, &s.Title, &s.Content, &s.IsPublished, &s.UpdatedAt)
	return s, err
}

// GetSection returns a website section by key.
func (p *Postgres) GetSection(ctx context.Context, key string) (*entities.WebsiteSection, error) {
	s, err := scanSection(p.db.QueryRow(ctx, selectSectionQuery, key))
	if err != nil {
		return nil, mapError(err, "get website section")
	}
	return &s, nil
}

// ListSections lists website sections.
func (p *Postgres) ListSections(ctx context.Context, publishedOnly bool) ([]entities.WebsiteSection, error) {
	rows, err := p.db.Query(ctx, listSectionsQuery, publishedOnly)
	if err != nil {
		return nil, mapError(err, "list website sections")
	}
	return collect(rows, "website sections", func(r pgx.Rows) (entities.WebsiteSection, error) { return scanSection(r) })
}

// UpsertSection creates or replaces a website section.
func (p *Postgres) UpsertSection(ctx context.Context, s entities.WebsiteSection) (*entities.WebsiteSection, error) {
	if s.Content == nil {
		s.Content = map[string]any{}
	}
	saved, err := scanSection(p.db.QueryRow(ctx, upsertSectionQuery, s.Key, s.Title, s.Content, s.IsPublished, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to save website section", "error", err, "key", s.Key)
		return nil, mapError(err, "upsert website section")
	}
	p.log.Infow("website section saved", "key", saved.Key, "published", saved.IsPublished)
	return &saved, nil
}
