package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/notify"

	"github.com/google/uuid"
)

// Templates lists templates visible to the actor: global ones plus the branch's own.
func (u *Usecase) Templates(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.NotificationTemplate, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	scoped, err := actor.ScopeBranch(branchID)
	if err != nil {
		return nil, err
	}
	return u.repo.ListTemplates(ctx, scoped)
}

// CreateTemplate stores a template. Global templates (no branch) are admin only.
func (u *Usecase) CreateTemplate(ctx context.Context, actor entities.Actor, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := u.checkTemplateAccess(actor, t.BranchID); err != nil {
		return nil, err
	}
	if err := validateTemplate(&t); err != nil {
		u.log.Errorw("failed to create template", "error", err)
		return nil, err
	}
	return u.repo.CreateTemplate(ctx, t)
}

// UpdateTemplate changes a template's content.
func (u *Usecase) UpdateTemplate(ctx context.Context, actor entities.Actor, t entities.NotificationTemplate) (*entities.NotificationTemplate, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID(t.ID, "id"); err != nil {
		return nil, err
	}
	current, err := u.repo.GetTemplate(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	if err := u.checkTemplateAccess(actor, current.BranchID); err != nil {
		return nil, err
	}
	t.BranchID = current.BranchID
	if err := validateTemplate(&t); err != nil {
		return nil, err
	}
	return u.repo.UpdateTemplate(ctx, t)
}

// DeleteTemplate removes a template.
func (u *Usecase) DeleteTemplate(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	current, err := u.repo.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if err := u.checkTemplateAccess(actor, current.BranchID); err != nil {
		return err
	}
	return u.repo.DeleteTemplate(ctx, id)
}

// PreviewTemplate renders a stored template with the given variables.
func (u *Usecase) PreviewTemplate(ctx context.Context, actor entities.Actor, id uuid.UUID, vars map[string]string) (*entities.TemplatePreview, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	t, err := u.repo.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.BranchID != nil && !actor.CanAccessBranch(*t.BranchID) {
		return nil, entities.ErrForbidden
	}
	missing := append(notify.Missing(t.Subject, vars), notify.Missing(t.Body, vars)...)
	return &entities.TemplatePreview{
		Subject: notify.Render(t.Subject, vars),
		Body:    notify.Render(t.Body, vars),
		Missing: dedupe(missing),
	}, nil
}

// SeedTemplates stores the built-in global templates that do not exist yet.
func (u *Usecase) SeedTemplates(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	defaults, err := notify.DefaultTemplates()
	if err != nil {
		return 0, err
	}
	existing, err := u.repo.ListTemplates(ctx, nil)
	if err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, t := range existing {
		if t.BranchID == nil {
			have[t.Key+"/"+string(t.Channel)] = true
		}
	}

	created := 0
	for _, t := range defaults {
		if have[t.Key+"/"+string(t.Channel)] {
			continue
		}
		if _, err := u.repo.CreateTemplate(ctx, t); err != nil {
			if errors.Is(err, entities.ErrConflict) {
				continue
			}
			return created, err
		}
		created++
	}
	if created > 0 {
		u.log.Infow("seeded notification templates", "count", created)
	}
	return created, nil
}

// SendNotification renders a template for a member and queues it for delivery.
func (u *Usecase) SendNotification(ctx context.Context, actor entities.Actor, req entities.SendRequest) (*entities.Notification, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	if err := requireID(req.MemberID, "member_id"); err != nil {
		return nil, err
	}
	if req.TemplateKey == "" || !req.Channel.Valid() {
		return nil, fmt.Errorf("%w: template_key and a valid channel are required", entities.ErrInvalidArgument)
	}
	m, err := u.repo.GetMember(ctx, req.MemberID)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, m.BranchID); err != nil {
		return nil, err
	}
	recipient := recipientFor(*m, req.Channel)
	if recipient == "" {
		return nil, fmt.Errorf("%w: member has no %s contact", entities.ErrInvalidArgument, req.Channel)
	}
	tpl, ok := u.template(ctx, m.BranchID, req.TemplateKey, req.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: template %s/%s", entities.ErrNotFound, req.TemplateKey, req.Channel)
	}

	vars := u.memberVars(ctx, *m)
	for k, v := range req.Vars {
		vars[k] = v
	}
	return u.dispatch(ctx, buildNotification(*m, tpl, recipient, vars))
}

// Notifications lists sent and queued notifications.
func (u *Usecase) Notifications(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Notification, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListNotifications(ctx, f)
}

// UpdateNotificationStatus records a delivery outcome reported by the notifier.
func (u *Usecase) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status entities.NotificationStatus, errMsg string) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireID(id, "id"); err != nil {
		return err
	}
	switch status {
	case entities.NotificationSent, entities.NotificationFailed:
	default:
		return fmt.Errorf("%w: unexpected status %q", entities.ErrInvalidArgument, status)
	}
	return u.repo.UpdateNotificationStatus(ctx, id, status, errMsg, u.now())
}

// SubmitFeedback records member feedback.
func (u *Usecase) SubmitFeedback(ctx context.Context, actor entities.Actor, f entities.Feedback) (*entities.Feedback, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireBranch(actor, f.BranchID); err != nil {
		return nil, err
	}
	if f.Rating < 1 || f.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", entities.ErrInvalidArgument)
	}
	if f.Category == "" {
		f.Category = "general"
	}
	f.Status = entities.FeedbackOpen
	f.Response, f.ResolvedAt = "", nil
	return u.repo.CreateFeedback(ctx, f)
}

// FeedbackList lists feedback of the actor's branch.
func (u *Usecase) FeedbackList(ctx context.Context, actor entities.Actor, f entities.ListFilter) ([]entities.Feedback, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	f, err := scope(actor, f)
	if err != nil {
		return nil, err
	}
	return u.repo.ListFeedback(ctx, f)
}

// ResolveFeedback closes feedback with a response.
func (u *Usecase) ResolveFeedback(ctx context.Context, actor entities.Actor, id uuid.UUID, response string) (*entities.Feedback, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireRole(actor, frontDesk...); err != nil {
		return nil, err
	}
	fb, err := u.repo.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := requireBranch(actor, fb.BranchID); err != nil {
		return nil, err
	}
	if fb.Status == entities.FeedbackResolved {
		return nil, fmt.Errorf("%w: feedback already resolved", entities.ErrConflict)
	}
	return u.repo.ResolveFeedback(ctx, id, strings.TrimSpace(response), u.now())
}

func (u *Usecase) checkTemplateAccess(actor entities.Actor, branchID *uuid.UUID) error {
	if branchID == nil {
		return requireAdmin(actor)
	}
	if err := requireRole(actor, managers...); err != nil {
		return err
	}
	return requireBranch(actor, *branchID)
}

func validateTemplate(t *entities.NotificationTemplate) error {
	t.Key = strings.TrimSpace(t.Key)
	switch {
	case t.Key == "":
		return fmt.Errorf("%w: key is required", entities.ErrInvalidArgument)
	case !t.Channel.Valid():
		return fmt.Errorf("%w: unknown channel %q", entities.ErrInvalidArgument, t.Channel)
	case strings.TrimSpace(t.Body) == "":
		return fmt.Errorf("%w: body is required", entities.ErrInvalidArgument)
	case t.Channel == entities.ChannelEmail && strings.TrimSpace(t.Subject) == "":
		return fmt.Errorf("%w: email templates need a subject", entities.ErrInvalidArgument)
	}
	if t.Name == "" {
		t.Name = t.Key
	}
	return nil
}

// template resolves the active branch template, then the active global one,
// then the built-in default. An inactive template never suppresses a message.
func (u *Usecase) template(ctx context.Context, branchID uuid.UUID, key string, ch entities.Channel) (entities.NotificationTemplate, bool) {
	t, err := u.repo.FindTemplate(ctx, branchID, key, ch)
	switch {
	case err == nil && t.IsActive:
		return *t, true
	case err == nil:
		u.log.Debugw("skipping inactive template", "template_id", t.ID, "key", key, "channel", ch)
	case !errors.Is(err, entities.ErrNotFound):
		u.log.Warnw("template lookup failed, using default", "key", key, "channel", ch, "error", err)
	}
	return notify.DefaultTemplate(key, ch)
}

func (u *Usecase) memberVars(ctx context.Context, m entities.Member) map[string]string {
	vars := map[string]string{
		"member_name":   m.FullName,
		"referral_code": m.ReferralCode,
	}
	if m.MembershipEnd != nil {
		vars["membership_end"] = m.MembershipEnd.Format("02 Jan 2006")
	}
	if b, err := u.repo.GetBranch(ctx, m.BranchID); err == nil {
		vars["branch_name"] = b.Name
	}
	return vars
}

// notifyMember queues a templated message on every channel the member can be reached on
// and reports whether any was queued. Failures are logged only.
func (u *Usecase) notifyMember(ctx context.Context, m entities.Member, key string, extra map[string]string) bool {
	vars := u.memberVars(ctx, m)
	for k, v := range extra {
		vars[k] = v
	}
	queued := false
	for _, ch := range []entities.Channel{entities.ChannelSMS, entities.ChannelEmail} {
		recipient := recipientFor(m, ch)
		if recipient == "" {
			continue
		}
		tpl, ok := u.template(ctx, m.BranchID, key, ch)
		if !ok {
			continue
		}
		if _, err := u.dispatch(ctx, buildNotification(m, tpl, recipient, vars)); err != nil {
			u.log.Warnw("notification not queued", "member_id", m.ID, "key", key, "channel", ch, "error", err)
			continue
		}
		queued = true
	}
	return queued
}

// dispatch persists a queued notification and publishes it to the outbox.
func (u *Usecase) dispatch(ctx context.Context, n entities.Notification) (*entities.Notification, error) {
	saved, err := u.repo.CreateNotification(ctx, n)
	if err != nil {
		return nil, err
	}
	if err := u.publisher.Publish(ctx, notify.MessageFrom(*saved)); err != nil {
		u.log.Errorw("failed to publish notification", "notification_id", saved.ID, "error", err)
		if uerr := u.repo.UpdateNotificationStatus(ctx, saved.ID, entities.NotificationFailed, err.Error(), u.now()); uerr != nil {
			u.log.Errorw("failed to mark notification failed", "notification_id", saved.ID, "error", uerr)
		}
		saved.Status, saved.Error = entities.NotificationFailed, err.Error()
		return saved, fmt.Errorf("%w: publish notification: %v", entities.ErrUpstream, err)
	}
	return saved, nil
}

func buildNotification(m entities.Member, tpl entities.NotificationTemplate, recipient string, vars map[string]string) entities.Notification {
	n := entities.Notification{
		BranchID:  m.BranchID,
		Channel:   tpl.Channel,
		Recipient: recipient,
		Subject:   notify.Render(tpl.Subject, vars),
		Body:      notify.Render(tpl.Body, vars),
		Status:    entities.NotificationQueued,
	}
	if m.ID != uuid.Nil {
		id := m.ID
		n.MemberID = &id
	}
	if tpl.ID != uuid.Nil {
		id := tpl.ID
		n.TemplateID = &id
	}
	return n
}

func recipientFor(m entities.Member, ch entities.Channel) string {
	switch ch {
	case entities.ChannelSMS:
		return strings.TrimSpace(m.Phone)
	case entities.ChannelEmail:
		return strings.TrimSpace(m.Email)
	}
	return ""
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
