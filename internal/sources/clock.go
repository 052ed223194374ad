package sources

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mkoskinen/vfd-display/internal/domain"
)

// Linux files the stats readouts come from.
const (
	defaultLoadAvgPath = "/proc/loadavg"
	defaultCPUTempPath = "/sys/class/thermal/thermal_zone0/temp"
)

// ClockStats yields the clock/stats screen: "HH:MM:SS DD/MM" on line
// one, one-minute load average and CPU temperature on line two. Both
// readouts degrade to placeholders when their files are unreadable, so
// the screen itself never skips.
type ClockStats struct {
	Now      func() time.Time
	LoadPath string
	TempPath string
}

// NewClockStats creates the clock/stats source reading the standard
// Linux proc and sysfs paths.
func NewClockStats() *ClockStats {
	return &ClockStats{
		Now:      time.Now,
		LoadPath: defaultLoadAvgPath,
		TempPath: defaultCPUTempPath,
	}
}

// Name identifies the source in logs.
func (s *ClockStats) Name() string { return "clock" }

// Produce returns the current clock/stats screen.
func (s *ClockStats) Produce(ctx context.Context) (domain.Content, bool) {
	line1 := s.Now().Format("15:04:05 02/01")
	line2 := fmt.Sprintf("L:%s %s", s.load(), s.temp())
	return domain.Centered(line1, line2), true
}

// load returns the one-minute load average, or "?" when unreadable.
func (s *ClockStats) load() string {
	b, err := os.ReadFile(s.LoadPath)
	if err != nil {
		return "?"
	}
	fields := strings.Fields(string(b))
	if len(fields) == 0 {
		return "?"
	}
	return fields[0]
}

// temp returns the CPU temperature in whole degrees, or "??C". The
// sysfs value is in millidegrees.
func (s *ClockStats) temp() string {
	b, err := os.ReadFile(s.TempPath)
	if err != nil {
		return "??C"
	}
	v, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return "??C"
	}
	return fmt.Sprintf("%dC", v/1000)
}
