package entities

import (
	"time"

	"github.com/google/uuid"
)

// Integration names stored in integration_statuses.
const (
	IntegrationHikvision = "hikvision"
	IntegrationRazorpay  = "razorpay"
	IntegrationSMS       = "sms"
	IntegrationEmail     = "email"
)

// IntegrationState is the health of an integration.
type IntegrationState string

const (
	IntegrationConnected    IntegrationState = "connected"
	IntegrationDisconnected IntegrationState = "disconnected"
	IntegrationError        IntegrationState = "error"
)

// IntegrationStatus is the per-branch state of a third-party integration.
type IntegrationStatus struct {
	ID          uuid.UUID        `json:"id"`
	BranchID    uuid.UUID        `json:"branch_id"`
	Integration string           `json:"integration"`
	Status      IntegrationState `json:"status"`
	IsActive    bool             `json:"is_active"`
	LastSyncAt  *time.Time       `json:"last_sync_at,omitempty"`
	LastError   string           `json:"last_error,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// HikvisionSettings are the per-branch OpenAPI credentials.
type HikvisionSettings struct {
	BranchID  uuid.UUID `json:"branch_id"`
	AppKey    string    `json:"app_key"`
	SecretKey string    `json:"-"`
	APIURL    string    `json:"api_url"`
	SiteID    string    `json:"site_id"`
	IsActive  bool      `json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SecretConfigured reports whether a secret is stored without revealing it.
func (s HikvisionSettings) SecretConfigured() bool { return s.SecretKey != "" }

// DeviceStatus is the last known device connectivity.
type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "online"
	DeviceOffline DeviceStatus = "offline"
	DeviceUnknown DeviceStatus = "unknown"
)

// HikvisionDevice is an access-control device registered for a branch.
type HikvisionDevice struct {
	ID           uuid.UUID    `json:"id"`
	BranchID     uuid.UUID    `json:"branch_id"`
	ZoneID       *uuid.UUID   `json:"zone_id,omitempty"`
	ExternalID   string       `json:"external_id"`
	SerialNumber string       `json:"serial_number"`
	Name         string       `json:"name"`
	DeviceType   string       `json:"device_type"`
	IPAddress    string       `json:"ip_address,omitempty"`
	Status       DeviceStatus `json:"status"`
	LastSeenAt   *time.Time   `json:"last_seen_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// AccessZone groups doors of a branch.
type AccessZone struct {
	ID          uuid.UUID `json:"id"`
	BranchID    uuid.UUID `json:"branch_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccessDoor is a controllable door behind a device.
type AccessDoor struct {
	ID             uuid.UUID  `json:"id"`
	BranchID       uuid.UUID  `json:"branch_id"`
	ZoneID         *uuid.UUID `json:"zone_id,omitempty"`
	DeviceID       *uuid.UUID `json:"device_id,omitempty"`
	Name           string     `json:"name"`
	ExternalDoorID string     `json:"external_door_id"`
	DoorNo         int        `json:"door_no"`
	CreatedAt      time.Time  `json:"created_at"`
}
