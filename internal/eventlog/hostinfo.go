package eventlog

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/animus-cli/animus/internal/domain"
)

const hostInfoScript = `$ErrorActionPreference = 'SilentlyContinue'
$os = Get-CimInstance Win32_OperatingSystem
$cs = Get-CimInstance Win32_ComputerSystem
$cpu = Get-CimInstance Win32_Processor | Select-Object -First 1
$disks = @(Get-CimInstance Win32_LogicalDisk -Filter "DriveType=3")
[pscustomobject]@{
  OS = [pscustomobject]@{
    Caption        = $os.Caption
    Version        = $os.Version
    BuildNumber    = $os.BuildNumber
    InstallDate    = if ($os.InstallDate) { $os.InstallDate.ToUniversalTime().ToString('o') } else { $null }
    LastBootUpTime = if ($os.LastBootUpTime) { $os.LastBootUpTime.ToUniversalTime().ToString('o') } else { $null }
  }
  Computer = [pscustomobject]@{
    MachineName         = $cs.Name
    Manufacturer        = $cs.Manufacturer
    Model               = $cs.Model
    TotalPhysicalMemory = $cs.TotalPhysicalMemory
  }
  Processor = [pscustomobject]@{
    Name                      = $cpu.Name
    NumberOfCores             = $cpu.NumberOfCores
    NumberOfLogicalProcessors = $cpu.NumberOfLogicalProcessors
    MaxClockSpeed             = $cpu.MaxClockSpeed
  }
  Disks = @($disks | Select-Object DeviceID, Size, FreeSpace)
} | ConvertTo-Json -Compress -Depth 4`

// Snapshot captures host metadata once per collection run. Failure here
// degrades to a partial snapshot with a warning; host info is never worth
// aborting a run over.
func (c *Collector) Snapshot(ctx context.Context, timeout time.Duration) (domain.SystemInfo, []string) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	queryCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := c.runner.Run(queryCtx, hostInfoScript)
	if err != nil {
		c.logger.Warn("host info capture failed", zap.Error(err))
		return domain.SystemInfo{Disks: []domain.DiskInfo{}},
			[]string{"host information could not be captured: " + err.Error()}
	}

	return parseHostInfo(out, c.clock.Now().UTC()), nil
}

// parseHostInfo decodes the CIM snapshot JSON. Missing fields stay zero;
// UptimeHours is derived from LastBootUpTime.
func parseHostInfo(data []byte, now time.Time) domain.SystemInfo {
	v := gjson.ParseBytes(data)

	info := domain.SystemInfo{
		OS: domain.OSInfo{
			Caption:        v.Get("OS.Caption").String(),
			Version:        v.Get("OS.Version").String(),
			BuildNumber:    v.Get("OS.BuildNumber").String(),
			InstallDate:    v.Get("OS.InstallDate").String(),
			LastBootUpTime: v.Get("OS.LastBootUpTime").String(),
		},
		Computer: domain.ComputerInfo{
			MachineName:         v.Get("Computer.MachineName").String(),
			Manufacturer:        v.Get("Computer.Manufacturer").String(),
			Model:               v.Get("Computer.Model").String(),
			TotalPhysicalMemory: v.Get("Computer.TotalPhysicalMemory").Int(),
		},
		Processor: domain.ProcessorInfo{
			Name:              v.Get("Processor.Name").String(),
			Cores:             int(v.Get("Processor.NumberOfCores").Int()),
			LogicalProcessors: int(v.Get("Processor.NumberOfLogicalProcessors").Int()),
			MaxClockSpeedMHz:  int(v.Get("Processor.MaxClockSpeed").Int()),
		},
		Disks: []domain.DiskInfo{},
	}

	if boot, err := time.Parse(time.RFC3339Nano, info.OS.LastBootUpTime); err == nil {
		if up := now.Sub(boot); up > 0 {
			info.OS.UptimeHours = up.Hours()
		}
	}

	disks := v.Get("Disks")
	appendDisk := func(d gjson.Result) {
		if !d.IsObject() {
			return
		}
		info.Disks = append(info.Disks, domain.DiskInfo{
			DeviceID:  d.Get("DeviceID").String(),
			SizeBytes: d.Get("Size").Int(),
			FreeBytes: d.Get("FreeSpace").Int(),
		})
	}
	if disks.IsArray() {
		disks.ForEach(func(_, d gjson.Result) bool {
			appendDisk(d)
			return true
		})
	} else {
		appendDisk(disks)
	}

	return info
}
