package postgres

import (
	"context"
	"time"

	"github.com/alvstore/muscle-garage-evolve-central-31-sub010/internal/entities"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	integrationColumns     = `id, branch_id, integration, status, is_active, last_sync_at, last_error, updated_at`
	listIntegrationsQuery  = `
SELECT ` + integrationColumns + `
FROM integration_statuses
WHERE ($1::uuid IS NULL OR branch_id = $1)
ORDER BY branch_id, integration`
	upsertIntegrationQuery = `
INSERT INTO integration_statuses(id, branch_id, integration, status, is_active, last_sync_at, last_error, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (branch_id, integration) DO UPDATE
SET status = EXCLUDED.status, is_active = EXCLUDED.is_active,
    last_sync_at = COALESCE(EXCLUDED.last_sync_at, integration_statuses.last_sync_at),
    last_error = EXCLUDED.last_error, updated_at = EXCLUDED.updated_at
RETURNING ` + integrationColumns

	hikvisionSettingsColumns = `branch_id, app_key, secret_key, api_url, site_id, is_active, updated_at`
	selectHikvisionSettings  = `SELECT ` + hikvisionSettingsColumns + ` FROM hikvision_api_settings WHERE branch_id = $1`
	upsertHikvisionSettings  = `
INSERT INTO hikvision_api_settings(branch_id, app_key, secret_key, api_url, site_id, is_active, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (branch_id) DO UPDATE
SET app_key = EXCLUDED.app_key,
    secret_key = CASE WHEN EXCLUDED.secret_key = '' THEN hikvision_api_settings.secret_key ELSE EXCLUDED.secret_key END,
    api_url = EXCLUDED.api_url, site_id = EXCLUDED.site_id,
    is_active = EXCLUDED.is_active, updated_at = EXCLUDED.updated_at
RETURNING ` + hikvisionSettingsColumns

	deviceColumns     = `id, branch_id, zone_id, external_id, serial_number, name, device_type, ip_address, status, last_seen_at, created_at, updated_at`
	listDevicesQuery  = `SELECT ` + deviceColumns + ` FROM hikvision_devices WHERE ($1::uuid IS NULL OR branch_id = $1) ORDER BY name`
	selectDeviceQuery = `SELECT ` + deviceColumns + ` FROM hikvision_devices WHERE id = $1`
	insertDeviceQuery = `
INSERT INTO hikvision_devices(id, branch_id, zone_id, external_id, serial_number, name, device_type, ip_address, status, last_seen_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
RETURNING ` + deviceColumns
	updateDeviceQuery = `
UPDATE hikvision_devices
SET zone_id = $2, external_id = $3, serial_number = $4, name = $5, device_type = $6, ip_address = $7,
    status = $8, last_seen_at = $9, updated_at = $10
WHERE id = $1
RETURNING ` + deviceColumns
	deleteDeviceQuery = `DELETE FROM hikvision_devices WHERE id = $1`
	upsertDeviceQuery = `
INSERT INTO hikvision_devices(id, branch_id, external_id, serial_number, name, device_type, ip_address, status, last_seen_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
ON CONFLICT (branch_id, serial_number) DO UPDATE
SET external_id = EXCLUDED.external_id, name = EXCLUDED.name, device_type = EXCLUDED.device_type,
    ip_address = EXCLUDED.ip_address, status = EXCLUDED.status,
    last_seen_at = COALESCE(EXCLUDED.last_seen_at, hikvision_devices.last_seen_at), updated_at = EXCLUDED.updated_at`

	zoneColumns     = `id, branch_id, name, description, created_at`
	listZonesQuery  = `SELECT ` + zoneColumns + ` FROM access_zones WHERE ($1::uuid IS NULL OR branch_id = $1) ORDER BY name`
	selectZoneQuery = `SELECT ` + zoneColumns + ` FROM access_zones WHERE id = $1`
	insertZoneQuery = `
INSERT INTO access_zones(id, branch_id, name, description, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + zoneColumns
	deleteZoneQuery = `DELETE FROM access_zones WHERE id = $1`

	doorColumns     = `id, branch_id, zone_id, device_id, name, external_door_id, door_no, created_at`
	listDoorsQuery  = `SELECT ` + doorColumns + ` FROM access_doors WHERE ($1::uuid IS NULL OR branch_id = $1) ORDER BY name`
	selectDoorQuery = `SELECT ` + doorColumns + ` FROM access_doors WHERE id = $1`
	insertDoorQuery = `
INSERT INTO access_doors(id, branch_id, zone_id, device_id, name, external_door_id, door_no, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + doorColumns
	deleteDoorQuery = `DELETE FROM access_doors WHERE id = $1`
)

func scanIntegration(row pgx.Row) (entities.IntegrationStatus, error) {
	var s entities.IntegrationStatus
	err := row.Scan(&s.ID, &s.BranchID, &s.Integration, &s.Status, &s.IsActive, &s.LastSyncAt, &s.LastError, &s.UpdatedAt)
	return s, err
}

func scanHikvisionSettings(row pgx.Row) (entities.HikvisionSettings, error) {
	var s entities.HikvisionSettings
	err := row.Scan(&s.BranchID, &s.AppKey, &s.SecretKey, &s.APIURL, &s.SiteID, &s.IsActive, &s.UpdatedAt)
	return s, err
}

func scanDevice(row pgx.Row) (entities.HikvisionDevice, error) {
	var d entities.HikvisionDevice
	err := row.Scan(&d.ID, &d.BranchID, &d.ZoneID, &d.ExternalID, &d.SerialNumber, &d.Name, &d.DeviceType,
		&d.IPAddress, &d.Status, &d.LastSeenAt, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func scanZone(row pgx.Row) (entities.AccessZone, error) {
	var z entities.AccessZone
	err := row.Scan(&z.ID, &z.BranchID, &z.Name, &z.Description, &z.CreatedAt)
	return z, err
}

func scanDoor(row pgx.Row) (entities.AccessDoor, error) {
	var d entities.AccessDoor
	err := row.Scan(&d.ID, &d.BranchID, &d.ZoneID, &d.DeviceID, &d.Name, &d.ExternalDoorID, &d.DoorNo, &d.CreatedAt)
	return d, err
}

// ListIntegrationStatuses lists integration states of a branch, or all branches.
func (p *Postgres) ListIntegrationStatuses(ctx context.Context, branchID *uuid.UUID) ([]entities.IntegrationStatus, error) {
	rows, err := p.db.Query(ctx, listIntegrationsQuery, branchID)
	if err != nil {
		return nil, mapError(err, "list integration statuses")
	}
	return collect(rows, "integration statuses", func(r pgx.Rows) (entities.IntegrationStatus, error) { return scanIntegration(r) })
}

// UpsertIntegrationStatus saves the state of one integration of a branch.
func (p *Postgres) UpsertIntegrationStatus(ctx context.Context, s entities.IntegrationStatus) (*entities.IntegrationStatus, error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	saved, err := scanIntegration(p.db.QueryRow(ctx, upsertIntegrationQuery,
		s.ID, s.BranchID, s.Integration, s.Status, s.IsActive, s.LastSyncAt, s.LastError, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to save integration status", "error", err, "branch_id", s.BranchID, "integration", s.Integration)
		return nil, mapError(err, "upsert integration status")
	}
	p.log.Infow("integration status saved", "branch_id", saved.BranchID, "integration", saved.Integration, "status", saved.Status)
	return &saved, nil
}

// GetHikvisionSettings returns the OpenAPI credentials of a branch.
func (p *Postgres) GetHikvisionSettings(ctx context.Context, branchID uuid.UUID) (*entities.HikvisionSettings, error) {
	s, err := scanHikvisionSettings(p.db.QueryRow(ctx, selectHikvisionSettings, branchID))
	if err != nil {
		return nil, mapError(err, "get hikvision settings")
	}
	return &s, nil
}

// UpsertHikvisionSettings saves credentials. An empty secret keeps the stored one.
func (p *Postgres) UpsertHikvisionSettings(ctx context.Context, s entities.HikvisionSettings) (*entities.HikvisionSettings, error) {
	saved, err := scanHikvisionSettings(p.db.QueryRow(ctx, upsertHikvisionSettings,
		s.BranchID, s.AppKey, s.SecretKey, s.APIURL, s.SiteID, s.IsActive, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to save hikvision settings", "error", err, "branch_id", s.BranchID)
		return nil, mapError(err, "upsert hikvision settings")
	}
	p.log.Infow("hikvision settings saved", "branch_id", saved.BranchID)
	return &saved, nil
}

// ListDevices lists devices of a branch, or all branches.
func (p *Postgres) ListDevices(ctx context.Context, branchID *uuid.UUID) ([]entities.HikvisionDevice, error) {
	rows, err := p.db.Query(ctx, listDevicesQuery, branchID)
	if err != nil {
		return nil, mapError(err, "list devices")
	}
	return collect(rows, "devices", func(r pgx.Rows) (entities.HikvisionDevice, error) { return scanDevice(r) })
}

// GetDevice returns a device by id.
func (p *Postgres) GetDevice(ctx context.Context, id uuid.UUID) (*entities.HikvisionDevice, error) {
	d, err := scanDevice(p.db.QueryRow(ctx, selectDeviceQuery, id))
	if err != nil {
		return nil, mapError(err, "get device")
	}
	return &d, nil
}

// CreateDevice registers a device.
func (p *Postgres) CreateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	created, err := scanDevice(p.db.QueryRow(ctx, insertDeviceQuery,
		d.ID, d.BranchID, d.ZoneID, d.ExternalID, d.SerialNumber, d.Name, d.DeviceType, d.IPAddress, d.Status, d.LastSeenAt, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to create device", "error", err, "serial_number", d.SerialNumber)
		return nil, mapError(err, "create device")
	}
	p.log.Infow("device created", "device_id", created.ID, "serial_number", created.SerialNumber)
	return &created, nil
}

// UpdateDevice overwrites mutable device fields.
func (p *Postgres) UpdateDevice(ctx context.Context, d entities.HikvisionDevice) (*entities.HikvisionDevice, error) {
	updated, err := scanDevice(p.db.QueryRow(ctx, updateDeviceQuery,
		d.ID, d.ZoneID, d.ExternalID, d.SerialNumber, d.Name, d.DeviceType, d.IPAddress, d.Status, d.LastSeenAt, time.Now().UTC()))
	if err != nil {
		p.log.Errorw("failed to update device", "error", err, "device_id", d.ID)
		return nil, mapError(err, "update device")
	}
	return &updated, nil
}

// DeleteDevice removes a device and its doors.
func (p *Postgres) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if err := execOne(ctx, p.db, "delete device", deleteDeviceQuery, id); err != nil {
		return err
	}
	p.log.Infow("device deleted", "device_id", id)
	return nil
}

// UpsertDevices merges a platform device listing into the branch inventory keyed by serial number.
func (p *Postgres) UpsertDevices(ctx context.Context, branchID uuid.UUID, devices []entities.HikvisionDevice) (int, error) {
	if len(devices) == 0 {
		return 0, nil
	}
	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, d := range devices {
		batch.Queue(upsertDeviceQuery, uuid.New(), branchID, d.ExternalID, d.SerialNumber, d.Name, d.DeviceType, d.IPAddress, d.Status, d.LastSeenAt, now)
	}

	tx, err := p.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	br := tx.SendBatch(ctx, batch)
	for range devices {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			p.log.Errorw("failed to upsert device", "error", err, "branch_id", branchID)
			return 0, mapError(err, "upsert device")
		}
	}
	if err := br.Close(); err != nil {
		return 0, mapError(err, "upsert devices")
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}

	p.log.Infow("devices synced", "branch_id", branchID, "count", len(devices))
	return len(devices), nil
}

// ListZones lists access zones of a branch, or all branches.
func (p *Postgres) ListZones(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessZone, error) {
	rows, err := p.db.Query(ctx, listZonesQuery, branchID)
	if err != nil {
		return nil, mapError(err, "list zones")
	}
	return collect(rows, "zones", func(r pgx.Rows) (entities.AccessZone, error) { return scanZone(r) })
}

// GetZone returns a zone by id.
func (p *Postgres) GetZone(ctx context.Context, id uuid.UUID) (*entities.AccessZone, error) {
	z, err := scanZone(p.db.QueryRow(ctx, selectZoneQuery, id))
	if err != nil {
		return nil, mapError(err, "get zone")
	}
	return &z, nil
}

// CreateZone inserts an access zone.
func (p *Postgres) CreateZone(ctx context.Context, z entities.AccessZone) (*entities.AccessZone, error) {
	if z.ID == uuid.Nil {
		z.ID = uuid.New()
	}
	created, err := scanZone(p.db.QueryRow(ctx, insertZoneQuery, z.ID, z.BranchID, z.Name, z.Description, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, "create zone")
	}
	return &created, nil
}

// DeleteZone removes an access zone.
func (p *Postgres) DeleteZone(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete zone", deleteZoneQuery, id)
}

// ListDoors lists doors of a branch, or all branches.
func (p *Postgres) ListDoors(ctx context.Context, branchID *uuid.UUID) ([]entities.AccessDoor, error) {
	rows, err := p.db.Query(ctx, listDoorsQuery, branchID)
	if err != nil {
		return nil, mapError(err, "list doors")
	}
	return collect(rows, "doors", func(r pgx.Rows) (entities.AccessDoor, error) { return scanDoor(r) })
}

// GetDoor returns a door by id.
func (p *Postgres) GetDoor(ctx context.Context, id uuid.UUID) (*entities.AccessDoor, error) {
	d, err := scanDoor(p.db.QueryRow(ctx, selectDoorQuery, id))
	if err != nil {
		return nil, mapError(err, "get door")
	}
	return &d, nil
}

// CreateDoor inserts a door.
func (p *Postgres) CreateDoor(ctx context.Context, d entities.AccessDoor) (*entities.AccessDoor, error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	created, err := scanDoor(p.db.QueryRow(ctx, insertDoorQuery,
		d.ID, d.BranchID, d.ZoneID, d.DeviceID, d.Name, d.ExternalDoorID, d.DoorNo, time.Now().UTC()))
	if err != nil {
		return nil, mapError(err, "create door")
	}
	return &created, nil
}

// DeleteDoor removes a door.
func (p *Postgres) DeleteDoor(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, p.db, "delete door", deleteDoorQuery, id)
}
