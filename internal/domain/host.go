package domain

// OSInfo describes the installed operating system
type OSInfo struct {
	Caption        string  `json:"Caption,omitempty"`
	Version        string  `json:"Version,omitempty"`
	BuildNumber    string  `json:"BuildNumber,omitempty"`
	InstallDate    string  `json:"InstallDate,omitempty"`
	LastBootUpTime string  `json:"LastBootUpTime,omitempty"`
	UptimeHours    float64 `json:"UptimeHours,omitempty"`
}

// ComputerInfo describes the machine hardware identity
type ComputerInfo struct {
	MachineName         string `json:"MachineName,omitempty"`
	Manufacturer        string `json:"Manufacturer,omitempty"`
	Model               string `json:"Model,omitempty"`
	TotalPhysicalMemory int64  `json:"TotalPhysicalMemory,omitempty"`
}

// ProcessorInfo describes the primary processor
type ProcessorInfo struct {
	Name              string `json:"Name,omitempty"`
	Cores             int    `json:"NumberOfCores,omitempty"`
	LogicalProcessors int    `json:"NumberOfLogicalProcessors,omitempty"`
	MaxClockSpeedMHz  int    `json:"MaxClockSpeed,omitempty"`
}

// DiskInfo describes one fixed logical disk
type DiskInfo struct {
	DeviceID  string `json:"DeviceID"`
	SizeBytes int64  `json:"Size,omitempty"`
	FreeBytes int64  `json:"FreeSpace,omitempty"`
}

// SystemInfo is the host snapshot captured once per collection run.
// Read-only after capture.
type SystemInfo struct {
	OS        OSInfo        `json:"OS"`
	Computer  ComputerInfo  `json:"Computer"`
	Processor ProcessorInfo `json:"Processor"`
	Disks     []DiskInfo    `json:"Disks"`
}
