package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"
	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/hikvision"

	"github.com/google/uuid"
)

var knownIntegrations = map[string]bool{
	entities.IntegrationHikvision: true,
	entities.IntegrationRazorpay:  true,
	entities.IntegrationSMS:       true,
	entities.IntegrationEmail:     true,
}

// IntegrationStatuses lists integration states. Admin only.
func (u *Usecase) IntegrationStatuses(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.IntegrationStatus, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.ListIntegrationStatuses(ctx, branchID)
}

// SetIntegrationActive switches an integration on or off for a branch.
func (u *Usecase) SetIntegrationActive(ctx context.Context, actor entities.Actor, branchID uuid.UUID, integration string, active bool) (*entities.IntegrationStatus, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(branchID, "branch_id"); err != nil {
		return nil, err
	}
	if !knownIntegrations[integration] {
		return nil, fmt.Errorf("%w: unknown integration %q", entities.ErrInvalidArgument, integration)
	}
	st := u.currentStatus(ctx, branchID, integration)
	st.IsActive = active
	if !active {
		st.Status = entities.IntegrationDisconnected
	}
	return u.repo.UpsertIntegrationStatus(ctx, st)
}

// HikvisionSettings returns the branch's access-control credentials. The secret
// is never serialised.
func (u *Usecase) HikvisionSettings(ctx context.Context, actor entities.Actor, branchID uuid.UUID) (*entities.HikvisionSettings, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.GetHikvisionSettings(ctx, branchID)
}

// SaveHikvisionSettings stores credentials. An empty secret keeps the stored one.
func (u *Usecase) SaveHikvisionSettings(ctx context.Context, actor entities.Actor, s entities.HikvisionSettings) (*entities.HikvisionSettings, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(s.BranchID, "branch_id"); err != nil {
		return nil, err
	}
	s.AppKey = strings.TrimSpace(s.AppKey)
	s.APIURL = strings.TrimRight(strings.TrimSpace(s.APIURL), "/")
	if s.AppKey == "" {
		return nil, fmt.Errorf("%w: app_key is required", entities.ErrInvalidArgument)
	}
	if s.SecretKey == "" {
		current, err := u.repo.GetHikvisionSettings(ctx, s.BranchID)
		if err != nil && !errors.Is(err, entities.ErrNotFound) {
			return nil, err
		}
		if current == nil || !current.SecretConfigured() {
			return nil, fmt.Errorf("%w: secret_key is required", entities.ErrInvalidArgument)
		}
	}

	saved, err := u.repo.UpsertHikvisionSettings(ctx, s)
	if err != nil {
		return nil, err
	}
	st := u.currentStatus(ctx, s.BranchID, entities.IntegrationHikvision)
	st.IsActive = s.IsActive
	st.Status = entities.IntegrationDisconnected
	if _, err := u.repo.UpsertIntegrationStatus(ctx, st); err != nil {
		u.log.Warnw("failed to update integration status", "branch_id", s.BranchID, "error", err)
	}
	u.log.Infow("hikvision settings saved", "branch_id", s.BranchID, "user_id", actor.UserID)
	return saved, nil
}

// TestHikvisionConnection requests an access token with the stored credentials.
func (u *Usecase) TestHikvisionConnection(ctx context.Context, actor entities.Actor, branchID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.vendorTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	client, err := u.accessClient(ctx, branchID)
	if err != nil {
		return err
	}
	_, err = client.Token(ctx)
	u.recordSync(ctx, branchID, err)
	if err != nil {
		return upstream("token", err)
	}
	return nil
}

// Devices lists access-control devices. Admin only.
func (u *Usecase) Devices(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.HikvisionDevice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.ListDevices(ctx, branchID)
}

// CreateDevice registers a device by hand.
func (u *Usecase) CreateDevice(ctx context.Context, actor entities.Actor, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(d.BranchID, "branch_id"); err != nil {
		return nil, err
	}
	if err := validateDevice(&d); err != nil {
		return nil, err
	}
	if err := u.checkZone(ctx, d.BranchID, d.ZoneID); err != nil {
		return nil, err
	}
	return u.repo.CreateDevice(ctx, d)
}

// UpdateDevice updates a device. The branch cannot change.
func (u *Usecase) UpdateDevice(ctx context.Context, actor entities.Actor, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	current, err := u.repo.GetDevice(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	d.BranchID = current.BranchID
	if err := validateDevice(&d); err != nil {
		return nil, err
	}
	if err := u.checkZone(ctx, d.BranchID, d.ZoneID); err != nil {
		return nil, err
	}
	return u.repo.UpdateDevice(ctx, d)
}

// DeleteDevice removes a device.
func (u *Usecase) DeleteDevice(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := requireID(id, "id"); err != nil {
		return err
	}
	return u.repo.DeleteDevice(ctx, id)
}

// SyncDevices pulls the device inventory from the platform and upserts it by serial number.
func (u *Usecase) SyncDevices(ctx context.Context, actor entities.Actor, branchID uuid.UUID) (int, error) {
	ctx, cancel := withTimeout(ctx, u.vendorTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	client, err := u.accessClient(ctx, branchID)
	if err != nil {
		return 0, err
	}
	remote, err := client.AllDevices(ctx)
	u.recordSync(ctx, branchID, err)
	if err != nil {
		u.log.Errorw("device sync failed", "branch_id", branchID, "error", err)
		return 0, upstream("list devices", err)
	}

	now := u.now()
	devices := make([]entities.HikvisionDevice, 0, len(remote))
	for _, r := range remote {
		serial := r.SerialNo
		if serial == "" {
			serial = r.ID
		}
		d := entities.HikvisionDevice{
			BranchID:     branchID,
			ExternalID:   r.ID,
			SerialNumber: serial,
			Name:         r.Name,
			DeviceType:   r.Category,
			IPAddress:    r.IP,
			Status:       entities.DeviceOffline,
		}
		if r.Online() {
			d.Status = entities.DeviceOnline
			d.LastSeenAt = &now
		}
		devices = append(devices, d)
	}
	n, err := u.repo.UpsertDevices(ctx, branchID, devices)
	if err != nil {
		return 0, err
	}
	u.log.Infow("devices synced", "branch_id", branchID, "count", n)
	return n, nil
}

// OpenDoor sends a remote open command to a door.
func (u *Usecase) OpenDoor(ctx context.Context, actor entities.Actor, doorID uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.vendorTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	door, err := u.repo.GetDoor(ctx, doorID)
	if err != nil {
		return err
	}
	if door.ExternalDoorID == "" {
		return fmt.Errorf("%w: door has no platform id", entities.ErrInvalidArgument)
	}
	client, err := u.accessClient(ctx, door.BranchID)
	if err != nil {
		return err
	}
	if err := client.RemoteControlDoor(ctx, door.ExternalDoorID, hikvision.DoorOpen); err != nil {
		u.log.Errorw("door open failed", "door_id", doorID, "error", err)
		return upstream("door control", err)
	}
	u.log.Infow("door opened", "door_id", doorID, "user_id", actor.UserID)
	return nil
}

// SyncMemberAccess pushes a member and their membership validity to the access-control platform.
func (u *Usecase) SyncMemberAccess(ctx context.Context, actor entities.Actor, memberID uuid.UUID) (*entities.Member, error) {
	ctx, cancel := withTimeout(ctx, u.vendorTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	m, err := u.repo.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return u.syncAccess(ctx, *m)
}

// Zones lists access zones. Admin only.
func (u *Usecase) Zones(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.AccessZone, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.ListZones(ctx, branchID)
}

// CreateZone creates an access zone.
func (u *Usecase) CreateZone(ctx context.Context, actor entities.Actor, z entities.AccessZone) (*entities.AccessZone, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(z.BranchID, "branch_id"); err != nil {
		return nil, err
	}
	z.Name = strings.TrimSpace(z.Name)
	if z.Name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	return u.repo.CreateZone(ctx, z)
}

// DeleteZone removes an access zone.
func (u *Usecase) DeleteZone(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	return u.repo.DeleteZone(ctx, id)
}

// Doors lists doors. Admin only.
func (u *Usecase) Doors(ctx context.Context, actor entities.Actor, branchID *uuid.UUID) ([]entities.AccessDoor, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return u.repo.ListDoors(ctx, branchID)
}

// CreateDoor registers a door controlled by a device.
func (u *Usecase) CreateDoor(ctx context.Context, actor entities.Actor, d entities.AccessDoor) (*entities.AccessDoor, error) {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := requireID(d.BranchID, "branch_id"); err != nil {
		return nil, err
	}
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return nil, fmt.Errorf("%w: name is required", entities.ErrInvalidArgument)
	}
	if err := u.checkZone(ctx, d.BranchID, d.ZoneID); err != nil {
		return nil, err
	}
	if d.DeviceID != nil {
		dev, err := u.repo.GetDevice(ctx, *d.DeviceID)
		if err != nil {
			return nil, err
		}
		if dev.BranchID != d.BranchID {
			return nil, fmt.Errorf("%w: device belongs to another branch", entities.ErrInvalidArgument)
		}
	}
	return u.repo.CreateDoor(ctx, d)
}

// DeleteDoor removes a door.
func (u *Usecase) DeleteDoor(ctx context.Context, actor entities.Actor, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx, u.timeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return err
	}
	return u.repo.DeleteDoor(ctx, id)
}

// accessClient returns a platform client for an active branch configuration.
func (u *Usecase) accessClient(ctx context.Context, branchID uuid.UUID) (AccessClient, error) {
	if u.access == nil {
		return nil, fmt.Errorf("%w: access control is not configured", entities.ErrIntegrationDisabled)
	}
	s, err := u.repo.GetHikvisionSettings(ctx, branchID)
	if errors.Is(err, entities.ErrNotFound) {
		return nil, fmt.Errorf("%w: no hikvision settings for branch", entities.ErrIntegrationDisabled)
	}
	if err != nil {
		return nil, err
	}
	if !s.IsActive || !s.SecretConfigured() {
		return nil, fmt.Errorf("%w: hikvision is disabled for branch", entities.ErrIntegrationDisabled)
	}
	return u.access(hikvision.Credentials{BaseURL: s.APIURL, AppKey: s.AppKey, SecretKey: s.SecretKey}), nil
}

// syncAccess creates or updates the member's person record. Without a running
// membership the validity window is closed at now, which revokes access.
func (u *Usecase) syncAccess(ctx context.Context, m entities.Member) (*entities.Member, error) {
	client, err := u.accessClient(ctx, m.BranchID)
	if err != nil {
		return nil, err
	}

	now := u.now()
	start, end := now, now
	if m.HasActiveMembership(now) {
		if m.MembershipStart != nil {
			start = *m.MembershipStart
		}
		end = *m.MembershipEnd
	}
	first, last := splitName(m.FullName)
	person := hikvision.Person{
		PersonCode: m.ID.String(),
		FirstName:  first,
		LastName:   last,
		Phone:      m.Phone,
		Email:      m.Email,
		CardNo:     m.AccessCardNo,
		StartDate:  start.Format(hikvision.ValidityLayout),
		EndDate:    end.Format(hikvision.ValidityLayout),
	}

	if m.HikvisionPersonID != nil && *m.HikvisionPersonID != "" {
		person.PersonID = *m.HikvisionPersonID
		if err := client.UpdatePerson(ctx, person); err != nil {
			return nil, upstream("update person", err)
		}
		return &m, nil
	}

	personID, err := client.AddPerson(ctx, person)
	if err != nil {
		return nil, upstream("add person", err)
	}
	if err := u.repo.SetHikvisionPersonID(ctx, m.ID, personID); err != nil {
		return nil, err
	}
	m.HikvisionPersonID = &personID
	u.log.Infow("member enrolled for access", "member_id", m.ID, "person_id", personID)
	return &m, nil
}

// refreshAccess syncs a member in the background after a payment or expiry.
func (u *Usecase) refreshAccess(_ context.Context, m entities.Member) {
	u.bg.Add(1)
	go func() {
		defer u.bg.Done()
		ctx, cancel := withTimeout(u.ctx, u.vendorTimeout)
		defer cancel()

		if _, err := u.syncAccess(ctx, m); err != nil && !errors.Is(err, entities.ErrIntegrationDisabled) {
			u.log.Warnw("access sync failed", "member_id", m.ID, "error", err)
		}
	}()
}

// Wait blocks until background work has finished.
func (u *Usecase) Wait() {
	u.bg.Wait()
}

func (u *Usecase) currentStatus(ctx context.Context, branchID uuid.UUID, integration string) entities.IntegrationStatus {
	statuses, err := u.repo.ListIntegrationStatuses(ctx, &branchID)
	if err == nil {
		for _, st := range statuses {
			if st.Integration == integration {
				return st
			}
		}
	}
	return entities.IntegrationStatus{
		BranchID:    branchID,
		Integration: integration,
		Status:      entities.IntegrationDisconnected,
	}
}

func (u *Usecase) recordSync(ctx context.Context, branchID uuid.UUID, callErr error) {
	st := u.currentStatus(ctx, branchID, entities.IntegrationHikvision)
	st.IsActive = true
	if callErr != nil {
		st.Status = entities.IntegrationError
		st.LastError = callErr.Error()
	} else {
		now := u.now()
		st.Status = entities.IntegrationConnected
		st.LastError = ""
		st.LastSyncAt = &now
	}
	if _, err := u.repo.UpsertIntegrationStatus(ctx, st); err != nil {
		u.log.Warnw("failed to record integration status", "branch_id", branchID, "error", err)
	}
}

func (u *Usecase) checkZone(ctx context.Context, branchID uuid.UUID, zoneID *uuid.UUID) error {
	if zoneID == nil {
		return nil
	}
	z, err := u.repo.GetZone(ctx, *zoneID)
	if err != nil {
		return err
	}
	if z.BranchID != branchID {
		return fmt.Errorf("%w: zone belongs to another branch", entities.ErrInvalidArgument)
	}
	return nil
}

func validateDevice(d *entities.HikvisionDevice) error {
	d.SerialNumber = strings.TrimSpace(d.SerialNumber)
	d.Name = strings.TrimSpace(d.Name)
	if d.SerialNumber == "" || d.Name == "" {
		return fmt.Errorf("%w: serial_number and name are required", entities.ErrInvalidArgument)
	}
	switch d.Status {
	case "":
		d.Status = entities.DeviceUnknown
	case entities.DeviceOnline, entities.DeviceOffline, entities.DeviceUnknown:
	default:
		return fmt.Errorf("%w: unknown status %q", entities.ErrInvalidArgument, d.Status)
	}
	return nil
}

// upstream wraps a platform failure. Cancellation of the caller passes through.
func upstream(op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr *hikvision.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: %s: %s", entities.ErrUpstream, op, apiErr.Error())
	}
	return fmt.Errorf("%w: %s: %v", entities.ErrUpstream, op, err)
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}
