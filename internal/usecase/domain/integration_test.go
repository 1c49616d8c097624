package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/hikvision"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type accessMock struct{ mock.Mock }

var _ AccessClient = (*accessMock)(nil)

func (a *accessMock) Token(ctx context.Context) (string, error) {
	args := a.Called(ctx)
	return args.String(0), args.Error(1)
}

func (a *accessMock) AllDevices(ctx context.Context) ([]hikvision.Device, error) {
	args := a.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]hikvision.Device), args.Error(1)
}

func (a *accessMock) RemoteControlDoor(ctx context.Context, doorID string, cmd hikvision.DoorCommand) error {
	return a.Called(ctx, doorID, cmd).Error(0)
}

func (a *accessMock) AddPerson(ctx context.Context, p hikvision.Person) (string, error) {
	args := a.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (a *accessMock) UpdatePerson(ctx context.Context, p hikvision.Person) error {
	return a.Called(ctx, p).Error(0)
}

type accessFixture struct {
	repo   *repoMock
	client *accessMock
	creds  []hikvision.Credentials
	uc     *Usecase
	branch uuid.UUID
}

func newAccessFixture(t *testing.T) *accessFixture {
	t.Helper()
	f := &accessFixture{repo: &repoMock{}, client: &accessMock{}, branch: uuid.New()}
	f.uc = newTestUsecase(t, f.repo, Deps{
		AccessControl: func(creds hikvision.Credentials) AccessClient {
			f.creds = append(f.creds, creds)
			return f.client
		},
	})
	return f
}

func (f *accessFixture) activeSettings() {
	f.repo.On("GetHikvisionSettings", mock.Anything, f.branch).Return(&entities.HikvisionSettings{
		BranchID: f.branch, AppKey: "app", SecretKey: "secret", APIURL: "https://hik.example.com", IsActive: true,
	}, nil)
}

func (f *accessFixture) expectStatus(state entities.IntegrationState) {
	f.repo.On("ListIntegrationStatuses", mock.Anything, mock.Anything).Return([]entities.IntegrationStatus{}, nil)
	f.repo.On("UpsertIntegrationStatus", mock.Anything, mock.MatchedBy(func(s entities.IntegrationStatus) bool {
		return s.BranchID == f.branch && s.Integration == entities.IntegrationHikvision && s.Status == state
	})).Return(&entities.IntegrationStatus{}, nil).Once()
}

func TestSyncDevices(t *testing.T) {
	f := newAccessFixture(t)
	f.activeSettings()
	f.expectStatus(entities.IntegrationConnected)
	f.client.On("AllDevices", mock.Anything).Return([]hikvision.Device{
		{ID: "d1", Name: "Front door", Category: "accessControllerDevice", SerialNo: "SN1", IP: "10.0.0.2", OnlineStatus: 1},
		{ID: "d2", Name: "Back door", OnlineStatus: 0},
	}, nil)
	f.repo.On("UpsertDevices", mock.Anything, f.branch, mock.MatchedBy(func(ds []entities.HikvisionDevice) bool {
		return len(ds) == 2 &&
			ds[0].SerialNumber == "SN1" && ds[0].Status == entities.DeviceOnline &&
			ds[0].LastSeenAt != nil && ds[0].LastSeenAt.Equal(fixedNow) && ds[0].DeviceType == "accessControllerDevice" &&
			ds[1].SerialNumber == "d2" && ds[1].Status == entities.DeviceOffline && ds[1].LastSeenAt == nil
	})).Return(2, nil)

	n, err := f.uc.SyncDevices(context.Background(), adminActor(), f.branch)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []hikvision.Credentials{{BaseURL: "https://hik.example.com", AppKey: "app", SecretKey: "secret"}}, f.creds)
	f.repo.AssertExpectations(t)
}

func TestSyncDevicesFailures(t *testing.T) {
	t.Run("manager is forbidden", func(t *testing.T) {
		f := newAccessFixture(t)
		_, err := f.uc.SyncDevices(context.Background(), managerOf(f.branch), f.branch)
		require.ErrorIs(t, err, entities.ErrForbidden)
	})

	t.Run("no settings", func(t *testing.T) {
		f := newAccessFixture(t)
		f.repo.On("GetHikvisionSettings", mock.Anything, f.branch).Return(nil, entities.ErrNotFound)
		_, err := f.uc.SyncDevices(context.Background(), adminActor(), f.branch)
		require.ErrorIs(t, err, entities.ErrIntegrationDisabled)
	})

	t.Run("inactive settings", func(t *testing.T) {
		f := newAccessFixture(t)
		f.repo.On("GetHikvisionSettings", mock.Anything, f.branch).Return(&entities.HikvisionSettings{
			BranchID: f.branch, AppKey: "app", SecretKey: "secret",
		}, nil)
		_, err := f.uc.SyncDevices(context.Background(), adminActor(), f.branch)
		require.ErrorIs(t, err, entities.ErrIntegrationDisabled)
		require.Empty(t, f.creds)
	})

	t.Run("platform error is recorded", func(t *testing.T) {
		f := newAccessFixture(t)
		f.activeSettings()
		f.expectStatus(entities.IntegrationError)
		f.client.On("AllDevices", mock.Anything).Return(nil, hikvision.NewAPIError(hikvision.CodeInvalidAppKey, "bad key", 200))

		_, err := f.uc.SyncDevices(context.Background(), adminActor(), f.branch)
		require.ErrorIs(t, err, entities.ErrUpstream)
		f.repo.AssertNotCalled(t, "UpsertDevices", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no access control configured", func(t *testing.T) {
		uc := newTestUsecase(t, &repoMock{}, Deps{})
		_, err := uc.SyncDevices(context.Background(), adminActor(), uuid.New())
		require.ErrorIs(t, err, entities.ErrIntegrationDisabled)
	})
}

func TestSyncMemberAccessEnrollsPerson(t *testing.T) {
	f := newAccessFixture(t)
	f.activeSettings()
	start := fixedNow.AddDate(0, 0, -10)
	end := fixedNow.AddDate(0, 0, 20)
	m := &entities.Member{
		ID: uuid.New(), BranchID: f.branch, FullName: "Asha Devi Rao", Phone: "+911111111111",
		Status: entities.MemberActive, MembershipStart: &start, MembershipEnd: &end,
	}
	f.repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
	f.client.On("AddPerson", mock.Anything, mock.MatchedBy(func(p hikvision.Person) bool {
		return p.PersonCode == m.ID.String() && p.FirstName == "Asha Devi" && p.LastName == "Rao" &&
			p.StartDate == start.Format(hikvision.ValidityLayout) && p.EndDate == end.Format(hikvision.ValidityLayout)
	})).Return("p-1", nil)
	f.repo.On("SetHikvisionPersonID", mock.Anything, m.ID, "p-1").Return(nil).Once()

	got, err := f.uc.SyncMemberAccess(context.Background(), adminActor(), m.ID)
	require.NoError(t, err)
	require.Equal(t, "p-1", *got.HikvisionPersonID)
	require.Equal(t, m.FullName, got.FullName)
	require.Nil(t, m.HikvisionPersonID)
	f.client.AssertExpectations(t)
	f.repo.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything)
	f.repo.AssertExpectations(t)
}

func TestSyncMemberAccessRevokesLapsedMember(t *testing.T) {
	f := newAccessFixture(t)
	f.activeSettings()
	end := fixedNow.AddDate(0, 0, -1)
	personID := "p-2"
	m := &entities.Member{
		ID: uuid.New(), BranchID: f.branch, FullName: "Ravi", Status: entities.MemberExpired,
		MembershipEnd: &end, HikvisionPersonID: &personID,
	}
	f.repo.On("GetMember", mock.Anything, m.ID).Return(m, nil)
	f.client.On("UpdatePerson", mock.Anything, mock.MatchedBy(func(p hikvision.Person) bool {
		return p.PersonID == "p-2" && p.EndDate == fixedNow.Format(hikvision.ValidityLayout) && p.LastName == ""
	})).Return(nil)

	_, err := f.uc.SyncMemberAccess(context.Background(), adminActor(), m.ID)
	require.NoError(t, err)
	f.repo.AssertNotCalled(t, "UpdateMember", mock.Anything, mock.Anything)
}

func TestOpenDoor(t *testing.T) {
	f := newAccessFixture(t)
	f.activeSettings()
	door := &entities.AccessDoor{ID: uuid.New(), BranchID: f.branch, Name: "Main", ExternalDoorID: "door-9"}
	unlinked := &entities.AccessDoor{ID: uuid.New(), BranchID: f.branch, Name: "Side"}
	f.repo.On("GetDoor", mock.Anything, door.ID).Return(door, nil)
	f.repo.On("GetDoor", mock.Anything, unlinked.ID).Return(unlinked, nil)
	f.client.On("RemoteControlDoor", mock.Anything, "door-9", hikvision.DoorOpen).Return(nil).Once()

	require.NoError(t, f.uc.OpenDoor(context.Background(), adminActor(), door.ID))
	require.ErrorIs(t, f.uc.OpenDoor(context.Background(), adminActor(), unlinked.ID), entities.ErrInvalidArgument)

	f.client.On("RemoteControlDoor", mock.Anything, "door-9", hikvision.DoorOpen).Return(context.Canceled).Once()
	err := f.uc.OpenDoor(context.Background(), adminActor(), door.ID)
	require.True(t, errors.Is(err, context.Canceled))
	require.False(t, errors.Is(err, entities.ErrUpstream))
}

func TestSaveHikvisionSettings(t *testing.T) {
	t.Run("secret required on first save", func(t *testing.T) {
		f := newAccessFixture(t)
		f.repo.On("GetHikvisionSettings", mock.Anything, f.branch).Return(nil, entities.ErrNotFound)
		_, err := f.uc.SaveHikvisionSettings(context.Background(), adminActor(), entities.HikvisionSettings{BranchID: f.branch, AppKey: "app"})
		require.ErrorIs(t, err, entities.ErrInvalidArgument)
	})

	t.Run("empty secret keeps stored secret", func(t *testing.T) {
		f := newAccessFixture(t)
		f.activeSettings()
		f.expectStatus(entities.IntegrationDisconnected)
		f.repo.On("UpsertHikvisionSettings", mock.Anything, mock.MatchedBy(func(s entities.HikvisionSettings) bool {
			return s.SecretKey == "" && s.AppKey == "app2" && s.APIURL == "https://hik.example.com"
		})).Return(&entities.HikvisionSettings{BranchID: f.branch, AppKey: "app2", SecretKey: "secret", IsActive: true}, nil)

		saved, err := f.uc.SaveHikvisionSettings(context.Background(), adminActor(), entities.HikvisionSettings{
			BranchID: f.branch, AppKey: " app2 ", APIURL: "https://hik.example.com/", IsActive: true,
		})
		require.NoError(t, err)
		require.True(t, saved.SecretConfigured())
		f.repo.AssertExpectations(t)
	})
}

func TestSetIntegrationActive(t *testing.T) {
	f := newAccessFixture(t)
	_, err := f.uc.SetIntegrationActive(context.Background(), adminActor(), f.branch, "telegram", true)
	require.ErrorIs(t, err, entities.ErrInvalidArgument)

	f.repo.On("ListIntegrationStatuses", mock.Anything, mock.Anything).Return([]entities.IntegrationStatus{
		{BranchID: f.branch, Integration: entities.IntegrationRazorpay, Status: entities.IntegrationConnected, IsActive: true},
	}, nil)
	f.repo.On("UpsertIntegrationStatus", mock.Anything, mock.MatchedBy(func(s entities.IntegrationStatus) bool {
		return s.Integration == entities.IntegrationRazorpay && !s.IsActive && s.Status == entities.IntegrationDisconnected
	})).Return(&entities.IntegrationStatus{Integration: entities.IntegrationRazorpay}, nil)

	_, err = f.uc.SetIntegrationActive(context.Background(), adminActor(), f.branch, entities.IntegrationRazorpay, false)
	require.NoError(t, err)
}

func TestSplitName(t *testing.T) {
	first, last := splitName("  Asha  ")
	require.Equal(t, "Asha", first)
	require.Empty(t, last)
	first, last = splitName("Mary Jane Watson")
	require.Equal(t, "Mary Jane", first)
	require.Equal(t, "Watson", last)
}
