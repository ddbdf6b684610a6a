// Package status collects device health counters for the status endpoint.
package status

import (
	"context"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/css-signage/css-agent-go/internal/models"
)

const thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"

// Collect gathers the device status snapshot. Individual counter failures
// degrade to zero values rather than failing the whole call; a device with a
// broken thermal zone still has to report its uptime.
func Collect(ctx context.Context, cfg models.Config) models.Status {
	st := models.Status{
		Name:       cfg.Name,
		Room:       cfg.Room,
		CurrentURL: cfg.DisplayURL,
		IPAddress:  localIP(),
		Timestamp:  models.Timestamp(time.Now()),
	}

	if boot, err := host.BootTimeWithContext(ctx); err == nil {
		st.Uptime = time.Now().Unix() - int64(boot)
	} else {
		slog.Debug("status: boot time unavailable", "err", err)
	}

	// Matches the Python agent's psutil.cpu_percent(interval=1).
	if pct, err := cpu.PercentWithContext(ctx, time.Second, false); err == nil && len(pct) > 0 {
		st.CPUPercent = round1(pct[0])
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		st.MemoryPercent = round1(vm.UsedPercent)
	}

	if temp, ok := cpuTemp(); ok {
		st.Temperature = &temp
	}

	return st
}

// cpuTemp reads the SoC temperature from the thermal zone file.
// Missing on non-Pi hardware; reported as null in that case.
func cpuTemp() (float64, bool) {
	data, err := os.ReadFile(thermalZonePath)
	if err != nil {
		return 0, false
	}
	millideg, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, false
	}
	return round1(float64(millideg) / 1000.0), true
}

// localIP determines the device's outbound IP by opening a UDP socket toward
// a public address. No packets are sent.
func localIP() string {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "Unknown"
	}
	defer conn.Close()
	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		return addr.IP.String()
	}
	return "Unknown"
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
