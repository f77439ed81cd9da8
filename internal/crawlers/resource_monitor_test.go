package crawlers

import (
	"errors"
	"testing"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/stretchr/testify/assert"
)

func TestResourceMonitor_Snapshot(t *testing.T) {
	rm := NewResourceMonitor(ResourceMonitorConfig{})
	rm.virtualMemory = func() (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{Total: 8192 * mb, Available: 2048 * mb}, nil
	}
	rm.cpuPercent = func() (float64, error) { return 37.5, nil }

	snap := rm.Snapshot()
	assert.Equal(t, uint64(8192), snap.TotalMemoryMB)
	assert.Equal(t, uint64(2048), snap.AvailableMemoryMB)
	assert.Equal(t, 37.5, snap.CPUPercent)
	assert.Positive(t, snap.Goroutines)
}

func TestResourceMonitor_SnapshotSamplingErrors(t *testing.T) {
	rm := NewResourceMonitor(ResourceMonitorConfig{})
	rm.virtualMemory = func() (*mem.VirtualMemoryStat, error) { return nil, errors.New("不支持的平台") }
	rm.cpuPercent = func() (float64, error) { return 0, errors.New("不支持的平台") }

	snap := rm.Snapshot()
	assert.Zero(t, snap.TotalMemoryMB)
	assert.Zero(t, snap.CPUPercent)
}

func TestResourceMonitor_CheckResourceAvailability(t *testing.T) {
	tests := []struct {
		name   string
		config ResourceMonitorConfig
		snap   models.SystemSnapshot
		wantOK bool
	}{
		{
			name:   "资源充足",
			config: ResourceMonitorConfig{MinAvailableMemoryMB: 512, CPULoadThreshold: 90},
			snap:   models.SystemSnapshot{TotalMemoryMB: 8192, AvailableMemoryMB: 4096, CPUPercent: 20},
			wantOK: true,
		},
		{
			name:   "内存不足",
			config: ResourceMonitorConfig{MinAvailableMemoryMB: 512},
			snap:   models.SystemSnapshot{TotalMemoryMB: 8192, AvailableMemoryMB: 100},
			wantOK: false,
		},
		{
			name:   "内存采样失败时不判断",
			config: ResourceMonitorConfig{MinAvailableMemoryMB: 512},
			snap:   models.SystemSnapshot{},
			wantOK: true,
		},
		{
			name:   "CPU过高",
			config: ResourceMonitorConfig{CPULoadThreshold: 80},
			snap:   models.SystemSnapshot{CPUPercent: 95},
			wantOK: false,
		},
		{
			name:   "CPU检查禁用",
			config: ResourceMonitorConfig{CPULoadThreshold: 200},
			snap:   models.SystemSnapshot{CPUPercent: 99},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := NewResourceMonitor(tt.config).CheckResourceAvailability(tt.snap)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.NotEmpty(t, reason)
			}
		})
	}
}
