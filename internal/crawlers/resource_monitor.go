package crawlers

import (
	"fmt"
	"runtime"
	"time"

	"github.com/RecoveryAshes/CafeScraper/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

const mb = 1024 * 1024

// ResourceMonitorConfig 资源检查阈值
type ResourceMonitorConfig struct {
	MinAvailableMemoryMB uint64  `mapstructure:"min_available_memory_mb"` // 可用内存低于此值时警告
	CPULoadThreshold     float64 `mapstructure:"cpu_load_threshold"`      // CPU使用率(%)高于此值时警告, >=200视为禁用
}

// ResourceMonitor 系统资源采样
type ResourceMonitor struct {
	config ResourceMonitorConfig

	// 采样函数,测试中可替换
	virtualMemory func() (*mem.VirtualMemoryStat, error)
	cpuPercent    func() (float64, error)
}

// NewResourceMonitor 创建资源监控器
func NewResourceMonitor(config ResourceMonitorConfig) *ResourceMonitor {
	return &ResourceMonitor{
		config:        config,
		virtualMemory: mem.VirtualMemory,
		cpuPercent:    sampleCPU,
	}
}

// sampleCPU 100ms采样,所有核心的平均使用率
func sampleCPU() (float64, error) {
	percentages, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(percentages) == 0 {
		return 0, fmt.Errorf("CPU使用率数据为空")
	}
	return percentages[0], nil
}

// Snapshot 当前系统与进程资源状态,采样失败的项保持为0
func (rm *ResourceMonitor) Snapshot() models.SystemSnapshot {
	var snap models.SystemSnapshot

	if vm, err := rm.virtualMemory(); err != nil {
		log.Warn().Err(err).Msg("获取系统内存失败")
	} else {
		snap.TotalMemoryMB = vm.Total / mb
		snap.AvailableMemoryMB = vm.Available / mb
	}

	if pct, err := rm.cpuPercent(); err != nil {
		log.Warn().Err(err).Msg("获取CPU使用率失败")
	} else {
		snap.CPUPercent = pct
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	snap.HeapAllocMB = ms.HeapAlloc / mb
	snap.Goroutines = runtime.NumGoroutine()
	return snap
}

// CheckResourceAvailability 判断资源是否足够启动浏览器
// 只用于提示,调用方决定是否继续
func (rm *ResourceMonitor) CheckResourceAvailability(snap models.SystemSnapshot) (ok bool, reason string) {
	if rm.config.MinAvailableMemoryMB > 0 && snap.TotalMemoryMB > 0 &&
		snap.AvailableMemoryMB < rm.config.MinAvailableMemoryMB {
		return false, fmt.Sprintf("可用内存不足(当前%dMB, 建议至少%dMB)", snap.AvailableMemoryMB, rm.config.MinAvailableMemoryMB)
	}
	if rm.config.CPULoadThreshold > 0 && rm.config.CPULoadThreshold < 200 &&
		snap.CPUPercent > rm.config.CPULoadThreshold {
		return false, fmt.Sprintf("CPU负载过高(当前%.1f%%)", snap.CPUPercent)
	}
	return true, ""
}
