package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	templateColumns     = `id, branch_id, key, name, channel, subject, body, is_active, created_at, updated_at`
	listTemplatesQuery  = `
SELECT ` + templateColumns + `
FROM notification_templates
WHERE ($1::uuid IS NULL OR branch_id = $1 OR branch_id IS NULL)
ORDER BY key, channel, branch_id NULLS LAST`
	selectTemplateQuery = `SELECT ` + templateColumns + ` FROM notification_templates WHERE id = $1`
	findTemplateQuery   = `
SELECT ` + templateColumns + `
FROM notification_templates
WHERE key = $2 AND channel = $3 AND is_active AND (branch_id = $1 OR branch_id IS NULL)
ORDER BY branch_id NULLS LAST
LIMIT 1`
	insertTemplateQuery = `
INSERT INTO notification_templates(id, branch_id, key, name, channel, subject, body, is_active, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING ` + templateColumns
	updateTemplateQuery = `
UPDATE notification_templates
SET key = $2, name = $3, channel = $4, subject = $5, body = $6, is_active = $7, updated_at = $8
WHERE id = $1
RETURNING ` + templateColumns
	deleteTemplateQuery = `DELETE FROM notification_templates WHERE id = $1`

	notificationColumns     = `id, branch_id, member_id, template_id, channel, recipient, subject, body, status, error, sent_at, created_at`
	insertNotificationQuery = `
INSERT INTO notifications(id, branch_id, member_id, template_id, channel, recipient, subject, body, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + notificationColumns
	updateNotificationStatusQuery = `
UPDATE notifications
SET status = $2, error = $3, sent_at = CASE WHEN $2 = 'sent' THEN $4::timestamptz ELSE sent_at END
WHERE id = $1`

	feedbackColumns     = `id, branch_id, member_id, category, rating, comment, status, response, created_at, resolved_at`
	insertFeedbackQuery = `
INSERT INTO feedback(id, branch_id, member_id, category, rating, comment, status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, 'open', $7)
RETURNING ` + feedbackColumns
	selectFeedbackQuery  = `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1`
	resolveFeedbackQuery = `
UPDATE feedback
SET status = 'resolved', response = $2, resolved_at = $3
WHERE id = $1
RETURNING ` + feedbackColumns
)

func scanTemplate(row pgx.Row) (entities.NotificationTemplate, error) {
	var t entities.NotificationTemplate
	err := row.Scan(&t.ID, &t.BranchID, &t.Key, &t.Name, &t.Channel, &t.Subject, &t.Body, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func scanNotification(row pgx.Row) (entities.Notification, error) {
	var n entities.Notification
	err := row.Scan(&n.ID, &n.BranchID, &n.MemberID, &n.TemplateID, &n.Channel, &n.Recipient, &n.Subject, &n.Body,
		&n.Status, &n.Error, &n.SentAt, &n.CreatedAt)
	return n, err
}

func scanFeedback(row pgx.Row) (entities.Feedback, error) {
	var f entities.Feedback
	err := row.Scan(&f.ID, &f.BranchID, &f.MemberID, &f.Category, &f.Rating, &f.Comment, &f.Status, &f.Response, &f.CreatedAt, &f.ResolvedAt)
	return f, err
}

// ListTemplates lists templates of a branch together with global ones.
func (p *Postgres) ListTemplates(ctx context.Context, branchID *uuid.UUID) ([]entities.NotificationTemplate, error) {
	rows, err := p.db.Query(ctx, listTemplatesQuery, branchID)
	if err != nil {
		return nil, mapError(err, "list templates")
	}
	return collect(rows, "templates", func(r pgx.Rows) (entities.NotificationTemplate, error) { return scanTemplate(r) })
}

// GetTemplate returns a template by id.
func (p *Postgres) GetTemplate(ctx context.Context, id uuid.UUID) (*entities.NotificationTemplate, error) {
	t, err := scanTemplate(p.db.QueryRow(ctx, selectTemplateQuery, id))
	if err != nil {
		return nil, mapError(err, "get template")
	}
	return &t, nil
}

// FindTemplate resolves the active template for key and channel, preferring the branch's own.
func (p *Postgres) FindTemplate(ctx context.Context, branchID uuid.UUID, key string, ch entities.Channel) (*entities.NotificationTemplate, error) {
	t, err := scanTemplate(p.db.QueryRow(ctx, findTemplateQuery, branchID, key, ch))
	if err != nil {
		return nil, mapError(err, "find template")
	}
	return &t, nil
}

// CreateTemplate inserts a template.
func (p *Postgres) CreateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	created, err := scanTemplate(p.db.QueryRow(ctx, insertTemplateQuery,
		t.ID, t.BranchID, t.Key, t.Name, t.Channel, t.Subject, t.Body, t.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create template", "error", err, "key", t.Key)
		return nil, mapError(err, "create template")
	}
	p.log.Infow("template created", "template_id", created.ID, "key", created.Key, "channel", created.Channel)
	return &created, nil
}

// UpdateTemplate overwrites mutable template fields.
func (p *Postgres) UpdateTemplate(ctx context.Context, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	updated, err := scanTemplate(p.db.QueryRow(ctx, updateTemplateQuery,
		t.ID, t.Key, t.Name, t.Channel, t.Subject, t.Body, t.IsActive, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, "update template")
	}
	return &updated, nil
}

// DeleteTemplate removes a template.
func (p *Postgres) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete template", deleteTemplateQuery, id)
}

// CreateNotification stores a rendered notification.
func (p *Postgres) CreateNotification(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.Status == "" {
		n.Status = entities.NotificationQueued
	}
	created, err := scanNotification(p.db.QueryRow(ctx, insertNotificationQuery,
		n.ID, n.BranchID, n.MemberID, n.TemplateID, n.Channel, n.Recipient, n.Subject, n.Body, n.Status, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create notification", "error", err, "branch_id", n.BranchID)
		return nil, mapError(err, "create notification")
	}
	return &created, nil
}

// UpdateNotificationStatus records the delivery outcome.
func (p *Postgres) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string, at time.Time) error {
	if err := execOne(ctx, p.db, "update notification status", updateNotificationStatusQuery, id, status, errMsg, at); err != nil {
		p.log.Errorw("failed to update notification status", "error", err, "notification_id", id)
		return err
	}
	return nil
}

// ListNotifications filters by branch, status and recipient.
func (p *Postgres) ListNotifications(ctx context.Context, f entities.ListFilter) ([]entities.Notification, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("recipient ILIKE ?", "%"+f.Search+"%")
	}
	if f.From != nil {
		w.add("created_at >= ?", *f.From)
	}
	if f.To != nil {
		w.add("created_at < ?", *f.To)
	}
	query := `SELECT ` + notificationColumns + ` FROM notifications` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list notifications")
	}
	return collect(rows, "notifications", func(r pgx.Rows) (entities.Notification, error) { return scanNotification(r) })
}

// CreateFeedback stores open feedback.
func (p *Postgres) CreateFeedback(ctx context.Context, f entities.Feedback) (*entities.Feedback, error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	created, err := scanFeedback(p.db.QueryRow(ctx, insertFeedbackQuery,
		f.ID, f.BranchID, f.MemberID, f.Category, f.Rating, f.Comment, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, "create feedback")
	}
	p.log.Infow("feedback received", "feedback_id", created.ID, "branch_id", created.BranchID, "rating", created.Rating)
	return &created, nil
}

// GetFeedback returns feedback by id.
func (p *Postgres) GetFeedback(ctx context.Context, id uuid.UUID) (*entities.Feedback, error) {
	f, err := scanFeedback(p.db.QueryRow(ctx, selectFeedbackQuery, id))
	if err != nil {
		return nil, mapError(err, "get feedback")
	}
	return &f, nil
}

// ListFeedback filters by branch, status and comment search.
func (p *Postgres) ListFeedback(ctx context.Context, f entities.ListFilter) ([]entities.Feedback, error) {
	var w whereBuilder
	if f.BranchID != nil {
		w.add("branch_id = ?", *f.BranchID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.add("comment ILIKE ?", "%"+f.Search+"%")
	}
	query := `SELECT ` + feedbackColumns + ` FROM feedback` + w.sql() + ` ORDER BY created_at DESC` + w.page(f)

	rows, err := p.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, mapError(err, "list feedback")
	}
	return collect(rows, "feedback", func(r pgx.Rows) (entities.Feedback, error) { return scanFeedback(r) })
}

// ResolveFeedback marks feedback resolved with a response.
func (p *Postgres) ResolveFeedback(ctx context.Context, id uuid.UUID, response string, at time.Time) (*entities.Feedback, error) {
	f, err := scanFeedback(p.db.QueryRow(ctx, resolveFeedbackQuery, id, response, at))
	if err != nil {
		return nil, mapError(err, "resolve feedback")
	}
	return &f, nil
}
