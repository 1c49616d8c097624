package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSendNotificationPublishFailure(t *testing.T) {
	repo := &repoMock{}
	pub := &publisherStub{err: errors.New("broker unavailable")}
	uc := newTestUsecase(t, repo, Deps{Publisher: pub})
	branch := uuid.New()
	m := &entities.Member{ID: uuid.New(), BranchID: branch, FullName: "Asha", Email: "asha@example.com", ReferralCode: "ASHA01"}
	tplID := uuid.New()
	notificationID := uuid.New()

	repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
	repo.On("FindTemplate", mock.Anything, branch, "promo", entities.ChannelEmail).Return(&entities.NotificationTemplate{
		ID: tplID, BranchID: &branch, Key: "promo", Channel: entities.ChannelEmail,
		Subject: "{{offer}} at {{branch_name}}", Body: "Hi {{member_name}}, {{offer}} ends {{deadline}}.", IsActive: true,
	}, nil)
	repo.On("GetBranch", mock.Anything, branch).Return(&entities.Branch{ID: branch, Name: "Downtown"}, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.Recipient == "asha@example.com" && n.Subject == "20% off at Downtown" &&
			n.Body == "Hi Asha, 20% off ends {{deadline}}." && n.TemplateID != nil && *n.TemplateID == tplID
	})).Return(&entities.Notification{ID: notificationID, BranchID: branch, Status: entities.NotificationQueued}, nil)
	repo.On("UpdateNotificationStatus", mock.Anything, notificationID, entities.NotificationFailed, "broker unavailable", fixedNow).Return(nil)

	n, err := uc.SendNotification(context.Background(), managerOf(branch), entities.SendRequest{
		MemberID: m.ID, TemplateKey: "promo", Channel: entities.ChannelEmail, Vars: map[string]string{"offer": "20% off"},
	})
	require.ErrorIs(t, err, entities.ErrUpstream)
	require.Equal(t, entities.NotificationFailed, n.Status)
	repo.AssertExpectations(t)
}

func TestSendNotificationRejections(t *testing.T) {
	branch := uuid.New()
	m := &entities.Member{ID: uuid.New(), BranchID: branch, FullName: "Asha", Email: "asha@example.com"}

	t.Run("no phone for sms", func(t *testing.T) {
		repo := &repoMock{}
		uc := newTestUsecase(t, repo, Deps{})
		repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
		_, err := uc.SendNotification(context.Background(), managerOf(branch), entities.SendRequest{
			MemberID: m.ID, TemplateKey: entities.TemplateWelcome, Channel: entities.ChannelSMS,
		})
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})

	t.Run("unknown template", func(t *testing.T) {
		repo := &repoMock{}
		uc := newTestUsecase(t, repo, Deps{})
		repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
		repo.On("FindTemplate", mock.Anything, branch, "nope", entities.ChannelEmail).Return(nil, entities.ErrNotFound)
		_, err := uc.SendNotification(context.Background(), managerOf(branch), entities.SendRequest{
			MemberID: m.ID, TemplateKey: "nope", Channel: entities.ChannelEmail,
		})
		require.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("bad channel", func(t *testing.T) {
		uc := newTestUsecase(t, &repoMock{}, Deps{})
		_, err := uc.SendNotification(context.Background(), managerOf(branch), entities.SendRequest{
			MemberID: m.ID, TemplateKey: "welcome", Channel: "fax",
		})
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})
}

func TestPreviewTemplateReportsMissing(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()
	id := uuid.New()
	repo.On("GetTemplate", mock.Anything, id).Return(&entities.NotificationTemplate{
		ID: id, BranchID: &branch, Channel: entities.ChannelEmail,
		Subject: "Welcome to {{branch_name}}", Body: "Hi {{member_name}}, code {{referral_code}} for {{branch_name}}",
	}, nil)

	got, err := uc.PreviewTemplate(context.Background(), managerOf(branch), id, map[string]string{"member_name": "Asha"})
	require.NoError(t, err)
	require.Equal(t, "Hi Asha, code {{referral_code}} for {{branch_name}}", got.Body)
	require.Equal(t, []string{"branch_name", "referral_code"}, got.Missing)

	_, err = uc.PreviewTemplate(context.Background(), managerOf(uuid.New()), id, nil)
	require.ErrorIs(t, err, entities.ErrForbidden)
}

func TestCreateTemplateValidation(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()

	_, err := uc.CreateTemplate(context.Background(), managerOf(branch), entities.NotificationTemplate{
		Key: "promo", Name: "Promo", Channel: entities.ChannelSMS, Body: "x",
	})
	require.ErrorIs(t, err, entities.ErrForbidden)

	_, err = uc.CreateTemplate(context.Background(), managerOf(branch), entities.NotificationTemplate{
		BranchID: &branch, Key: "promo", Name: "Promo", Channel: entities.ChannelEmail, Body: "x",
	})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)
}

func TestSeedTemplatesSkipsExisting(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()

	repo.On("ListTemplates", mock.Anything, (*uuid.UUID)(nil)).Return([]entities.NotificationTemplate{
		{Key: entities.TemplateWelcome, Channel: entities.ChannelSMS},
		{BranchID: &branch, Key: entities.TemplateWelcome, Channel: entities.ChannelEmail},
	}, nil)
	repo.On("CreateTemplate", mock.Anything, mock.MatchedBy(func(t entities.NotificationTemplate) bool {
		return t.Key == entities.TemplateClassBooked && t.Channel == entities.ChannelEmail
	})).Return(nil, entities.ErrConflict)
	repo.On("CreateTemplate", mock.Anything, mock.Anything).Return(&entities.NotificationTemplate{ID: uuid.New()}, nil)

	n, err := uc.SeedTemplates(context.Background())
	require.NoError(t, err)
	require.Equal(t, 6, n)
	repo.AssertNumberOfCalls(t, "CreateTemplate", 7)
}

func TestUpdateNotificationStatus(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	id := uuid.New()

	require.ErrorIs(t, uc.UpdateNotificationStatus(context.Background(), id, entities.NotificationQueued, ""), entities.ErrInvalidArgument)

	repo.On("UpdateNotificationStatus", mock.Anything, id, entities.NotificationSent, "", fixedNow).Return(nil)
	require.NoError(t, uc.UpdateNotificationStatus(context.Background(), id, entities.NotificationSent, ""))
}

func TestFeedback(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()

	_, err := uc.SubmitFeedback(context.Background(), managerOf(branch), entities.Feedback{BranchID: branch, Rating: 6})
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	repo.On("CreateFeedback", mock.Anything, mock.MatchedBy(func(f entities.Feedback) bool {
		return f.Category == "general" && f.Status == entities.FeedbackOpen
	})).Return(&entities.Feedback{ID: uuid.New()}, nil)
	_, err = uc.SubmitFeedback(context.Background(), managerOf(branch), entities.Feedback{BranchID: branch, Rating: 4, Comment: "Great trainers"})
	require.NoError(t, err)

	resolved := &entities.Feedback{ID: uuid.New(), BranchID: branch, Status: entities.FeedbackResolved}
	repo.On("GetFeedback", mock.Anything, resolved.ID).Return(resolved, nil)
	_, err = uc.ResolveFeedback(context.Background(), managerOf(branch), resolved.ID, "thanks")
	require.ErrorIs(t, err, entities.ErrConflict)
}

func TestSendNotificationSkipsInactiveTemplate(t *testing.T) {
	repo := &repoMock{}
	pub := &publisherStub{}
	uc := newTestUsecase(t, repo, Deps{Publisher: pub})
	branch := uuid.New()
	m := &entities.Member{ID: uuid.New(), BranchID: branch, FullName: "Asha", Phone: "+911111111111", ReferralCode: "ASHA01"}

	repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
	repo.On("FindTemplate", mock.Anything, branch, entities.TemplateWelcome, entities.ChannelSMS).Return(&entities.NotificationTemplate{
		ID: uuid.New(), BranchID: &branch, Key: entities.TemplateWelcome, Channel: entities.ChannelSMS, Body: "disabled copy", IsActive: false,
	}, nil)
	repo.On("GetBranch", mock.Anything, branch).Return(&entities.Branch{ID: branch, Name: "Downtown"}, nil)
	repo.On("CreateNotification", mock.Anything, mock.MatchedBy(func(n entities.Notification) bool {
		return n.TemplateID == nil && n.Body == "Hi Asha, welcome to Downtown! Your referral code is ASHA01."
	})).Return(stored, nil)

	n, err := uc.SendNotification(context.Background(), managerOf(branch), entities.SendRequest{
		MemberID: m.ID, TemplateKey: entities.TemplateWelcome, Channel: entities.ChannelSMS,
	})
	require.NoError(t, err)
	require.Equal(t, "+911111111111", n.Recipient)
	require.Len(t, pub.sent(), 1)
	repo.AssertExpectations(t)
}

func TestTemplatesAndFeedbackForStaff(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()
	staff := entities.Actor{UserID: uuid.New(), Role: entities.RoleStaff, BranchID: &branch}
	trainer := entities.Actor{UserID: uuid.New(), Role: entities.RoleTrainer, BranchID: &branch}

	repo.On("ListTemplates", mock.Anything, &branch).Return([]entities.NotificationTemplate{{Key: entities.TemplateWelcome}}, nil)
	list, err := uc.Templates(context.Background(), staff, nil)
	require.NoError(t, err)
	require.Len(t, list, 1)
	_, err = uc.Templates(context.Background(), trainer, nil)
	require.ErrorIs(t, err, entities.ErrForbidden)

	id := uuid.New()
	repo.On("GetTemplate", mock.Anything, id).Return(&entities.NotificationTemplate{
		ID: id, BranchID: &branch, Channel: entities.ChannelSMS, Body: "Hi {{member_name}}",
	}, nil)
	preview, err := uc.PreviewTemplate(context.Background(), staff, id, map[string]string{"member_name": "Asha"})
	require.NoError(t, err)
	require.Equal(t, "Hi Asha", preview.Body)

	open := &entities.Feedback{ID: uuid.New(), BranchID: branch, Status: entities.FeedbackOpen}
	repo.On("GetFeedback", mock.Anything, open.ID).Return(open, nil)
	repo.On("ResolveFeedback", mock.Anything, open.ID, "called back", fixedNow).Return(&entities.Feedback{ID: open.ID, Status: entities.FeedbackResolved}, nil)
	fb, err := uc.ResolveFeedback(context.Background(), staff, open.ID, " called back ")
	require.NoError(t, err)
	require.Equal(t, entities.FeedbackResolved, fb.Status)

	_, err = uc.CreateTemplate(context.Background(), staff, entities.NotificationTemplate{
		BranchID: &branch, Key: "promo", Channel: entities.ChannelSMS, Body: "x",
	})
	require.ErrorIs(t, err, entities.ErrForbidden)
}
