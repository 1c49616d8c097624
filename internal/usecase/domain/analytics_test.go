package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestDashboard(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	months := []entities.MonthlyTotal{{Month: "2026-01", Amount: dec("1000")}, {Month: "2026-02", Amount: dec("2500")}}

	repo.On("CountMembers", mock.Anything, &branch, entities.MemberActive).Return(int64(40), nil)
	repo.On("CountNewMembers", mock.Anything, &branch, from, to).Return(int64(7), nil)
	repo.On("CountExpiring", mock.Anything, &branch, fixedNow, fixedNow.AddDate(0, 0, 3)).Return(int64(3), nil)
	repo.On("CountBookings", mock.Anything, &branch, from, to).Return(int64(120), nil)
	repo.On("CountOpenFeedback", mock.Anything, &branch).Return(int64(2), nil)
	repo.On("SumIncome", mock.Anything, &branch, from, to).Return(dec("3500"), nil)
	repo.On("SumExpense", mock.Anything, &branch, from, to).Return(dec("1200.50"), nil)
	repo.On("MonthlyRevenue", mock.Anything, &branch, from, to).Return(months, nil)

	stats, err := uc.Dashboard(context.Background(), managerOf(branch), nil, from, to)
	require.NoError(t, err)
	require.Equal(t, branch, *stats.BranchID)
	require.Equal(t, int64(40), stats.ActiveMembers)
	require.Equal(t, int64(7), stats.NewMembers)
	require.Equal(t, int64(3), stats.ExpiringSoon)
	require.Equal(t, int64(120), stats.ClassBookings)
	require.Equal(t, int64(2), stats.OpenFeedback)
	require.True(t, stats.Net.Equal(dec("2299.50")))
	require.Equal(t, months, stats.RevenueByMonth)
}

func TestDashboardFailure(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	boom := errors.New("db down")

	repo.On("CountMembers", mock.Anything, mock.Anything, mock.Anything).Return(int64(0), boom)
	repo.On("CountNewMembers", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CountExpiring", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CountBookings", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CountOpenFeedback", mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("SumIncome", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(dec("0"), nil)
	repo.On("SumExpense", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(dec("0"), nil)
	repo.On("MonthlyRevenue", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	_, err := uc.Dashboard(context.Background(), adminActor(), nil, time.Time{}, time.Time{})
	require.ErrorIs(t, err, boom)

	trainer := entities.Actor{Role: entities.RoleTrainer, BranchID: &uuid.UUID{}}
	_, err = uc.Dashboard(context.Background(), trainer, nil, time.Time{}, time.Time{})
	require.ErrorIs(t, err, entities.ErrForbidden)
}

func TestDashboardForStaff(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()
	staff := entities.Actor{UserID: uuid.New(), Role: entities.RoleStaff, BranchID: &branch}

	repo.On("CountMembers", mock.Anything, &branch, entities.MemberActive).Return(int64(5), nil)
	repo.On("CountNewMembers", mock.Anything, &branch, mock.Anything, mock.Anything).Return(int64(1), nil)
	repo.On("CountExpiring", mock.Anything, &branch, mock.Anything, mock.Anything).Return(int64(0), nil)
	repo.On("CountBookings", mock.Anything, &branch, mock.Anything, mock.Anything).Return(int64(9), nil)
	repo.On("CountOpenFeedback", mock.Anything, &branch).Return(int64(0), nil)
	repo.On("SumIncome", mock.Anything, &branch, mock.Anything, mock.Anything).Return(dec("100"), nil)
	repo.On("SumExpense", mock.Anything, &branch, mock.Anything, mock.Anything).Return(dec("40"), nil)
	repo.On("MonthlyRevenue", mock.Anything, &branch, mock.Anything, mock.Anything).Return(nil, nil)

	stats, err := uc.Dashboard(context.Background(), staff, nil, time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Equal(t, branch, *stats.BranchID)
	require.Equal(t, int64(5), stats.ActiveMembers)
	require.True(t, stats.Net.Equal(dec("60")))

	other := uuid.New()
	_, err = uc.Dashboard(context.Background(), staff, &other, time.Time{}, time.Time{})
	require.ErrorIs(t, err, entities.ErrForbidden)
}

func TestExpireMemberships(t *testing.T) {
	repo := &repoMock{}
	pub := &publisherStub{}
	uc := newTestUsecase(t, repo, Deps{Publisher: pub})
	branch := uuid.New()
	personID := "p-1"
	enrolled := &entities.Member{ID: uuid.New(), BranchID: branch, FullName: "Ravi", Status: entities.MemberExpired, HikvisionPersonID: &personID}
	gone := uuid.New()
	windowEnd := fixedNow.AddDate(0, 0, 3)
	expiring := entities.ExpiringMembership{
		MemberID: uuid.New(), BranchID: branch, FullName: "Asha", Email: "asha@example.com",
		MembershipEnd: windowEnd.Add(-30 * time.Minute),
	}
	unreachable := entities.ExpiringMembership{
		MemberID: uuid.New(), BranchID: branch, FullName: "Kiran", MembershipEnd: fixedNow.Add(2 * time.Hour),
	}

	repo.On("ExpireMemberships", mock.Anything, fixedNow).Return([]uuid.UUID{enrolled.ID, gone}, nil)
	repo.On("GetMember", mock.Anything, enrolled.ID).Return(enrolled, nil)
	repo.On("GetMember", mock.Anything, gone).Return(nil, entities.ErrNotFound)
	repo.On("ExpiringMemberships", mock.Anything, fixedNow, windowEnd).Return([]entities.ExpiringMembership{unreachable, expiring}, nil)
	repo.On("GetBranch", mock.Anything, branch).Return(&entities.Branch{ID: branch, Name: "Downtown"}, nil)
	expectNotification(repo, branch, entities.TemplateMembershipExpiring, entities.ChannelEmail, "Your membership at Downtown ends on 04 May 2026.")
	repo.On("MarkExpiryReminded", mock.Anything, expiring.MemberID, expiring.MembershipEnd).Return(nil).Once()

	res, err := uc.ExpireMemberships(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, entities.ExpiryResult{Expired: 2, Reminded: 1}, res)
	uc.Wait()

	msgs := pub.sent()
	require.Len(t, msgs, 1)
	require.Equal(t, "asha@example.com", msgs[0].Recipient)
	require.Equal(t, "Your membership ends on 04 May 2026", msgs[0].Subject)
	repo.AssertNotCalled(t, "MarkExpiryReminded", mock.Anything, unreachable.MemberID, mock.Anything)
	repo.AssertExpectations(t)
}

func TestExpiryReminderRetriedAfterFailure(t *testing.T) {
	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{})
	branch := uuid.New()
	due := entities.ExpiringMembership{
		MemberID: uuid.New(), BranchID: branch, FullName: "Asha", Phone: "+911111111111",
		MembershipEnd: fixedNow.AddDate(0, 0, 2),
	}

	repo.On("ExpireMemberships", mock.Anything, fixedNow).Return([]uuid.UUID{}, nil)
	repo.On("ExpiringMemberships", mock.Anything, fixedNow, fixedNow.AddDate(0, 0, 3)).Return([]entities.ExpiringMembership{due}, nil)
	repo.On("GetBranch", mock.Anything, branch).Return(&entities.Branch{ID: branch, Name: "Downtown"}, nil)
	repo.On("FindTemplate", mock.Anything, branch, entities.TemplateMembershipExpiring, entities.ChannelSMS).Return(nil, entities.ErrNotFound)
	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(nil, errors.New("db down")).Once()

	res, err := uc.ExpireMemberships(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, 0, res.Reminded)
	repo.AssertNotCalled(t, "MarkExpiryReminded", mock.Anything, mock.Anything, mock.Anything)

	repo.On("CreateNotification", mock.Anything, mock.Anything).Return(stored, nil).Once()
	repo.On("MarkExpiryReminded", mock.Anything, due.MemberID, due.MembershipEnd).Return(nil).Once()

	res, err = uc.ExpireMemberships(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Equal(t, 1, res.Reminded)
	repo.AssertExpectations(t)
}

func TestRunExpiryJobStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	repo := &repoMock{}
	uc := newTestUsecase(t, repo, Deps{ExpiryInterval: time.Hour})
	repo.On("ExpireMemberships", mock.Anything, fixedNow).Return([]uuid.UUID{}, nil)
	ran := make(chan struct{})
	var once sync.Once
	repo.On("ExpiringMemberships", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { once.Do(func() { close(ran) }) }).
		Return([]entities.ExpiringMembership{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- uc.RunExpiryJob(ctx) }()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("expiry pass did not run")
	}
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("expiry job did not stop")
	}
}
