package domain

import "time"

// DeviceStatus is the closed set of pairing states for monitoring hardware.
type DeviceStatus string

const (
	DevicePaired      DeviceStatus = "paired"
	DeviceInactive    DeviceStatus = "inactive"
	DeviceUnpaired    DeviceStatus = "unpaired"
	DeviceMaintenance DeviceStatus = "maintenance"
)

// Label returns the display form of the status.
func (s DeviceStatus) Label() string {
	switch s {
	case DevicePaired:
		return "Paired"
	case DeviceInactive:
		return "Inactive"
	case DeviceUnpaired:
		return "Unpaired"
	case DeviceMaintenance:
		return "Maintenance"
	}
	return "Unknown"
}

// Device is a locally seeded display record for monitoring hardware.
type Device struct {
	ID         int64        `json:"id"`
	Serial     string       `json:"serial"`
	Firmware   string       `json:"firmware"`
	Model      string       `json:"model"`
	AssignedTo string       `json:"assignedTo"`
	Battery    int          `json:"battery"`
	LastSyncAt *time.Time   `json:"lastSyncAt"`
	Status     DeviceStatus `json:"status"`
}
