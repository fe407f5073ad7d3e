package seed

import (
	"time"

	"github.com/zivahealth/admin-console/internal/domain"
)

// Devices returns the seeded monitoring hardware list. Devices without an
// assignee have never synced.
func Devices() []domain.Device {
	return []domain.Device{
		{ID: 1, Serial: "SN-1182-6519", Firmware: "3.3.2", Model: "EEG-3000", AssignedTo: "User 6", Battery: 42, LastSyncAt: syncDate(2025, 5, 3), Status: domain.DevicePaired},
		{ID: 2, Serial: "SN-1583-4119", Firmware: "3.6.3", Model: "EEG-2000", AssignedTo: "User 14", Battery: 46, LastSyncAt: syncDate(2025, 5, 3), Status: domain.DevicePaired},
		{ID: 3, Serial: "SN-2417-2648", Firmware: "2.5.3", Model: "EEG-2000", AssignedTo: "", Battery: 27, Status: domain.DeviceInactive},
		{ID: 4, Serial: "SN-3711-2819", Firmware: "3.7.8", Model: "EEG-1000", AssignedTo: "", Battery: 29, Status: domain.DeviceUnpaired},
		{ID: 5, Serial: "SN-4286-9659", Firmware: "2.7.4", Model: "EEG-2000", AssignedTo: "User 15", Battery: 28, LastSyncAt: syncDate(2025, 5, 6), Status: domain.DeviceMaintenance},
		{ID: 6, Serial: "SN-4291-1113", Firmware: "3.2.8", Model: "EEG-4000", AssignedTo: "User 14", Battery: 76, LastSyncAt: syncDate(2025, 5, 6), Status: domain.DevicePaired},
		{ID: 7, Serial: "SN-4393-1811", Firmware: "2.1.2", Model: "EEG-1000", AssignedTo: "User 6", Battery: 97, LastSyncAt: syncDate(2025, 5, 5), Status: domain.DevicePaired},
		{ID: 8, Serial: "SN-4536-9858", Firmware: "3.2.1", Model: "EEG-2000", AssignedTo: "User 9", Battery: 91, LastSyncAt: syncDate(2025, 5, 7), Status: domain.DevicePaired},
	}
}

func syncDate(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
