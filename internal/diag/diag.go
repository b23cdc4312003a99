// Package diag gathers the environment facts behind `pivot doctor`.
package diag

import (
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"

	"github.com/displayops/pivot/internal/display"
)

// Report describes the host and which display backend pivot will use.
type Report struct {
	OS              string
	Platform        string
	PlatformVersion string
	Kernel          string
	Backend         string
	SessionHint     string
	BackendReady    bool
}

// Collect builds the report. The provider is probed with a single query
// against the primary display to tell whether the backend is usable.
func Collect(p display.Provider) Report {
	r := Report{
		OS:          runtime.GOOS,
		Backend:     backendName(),
		SessionHint: sessionHint(),
	}

	if info, err := host.Info(); err == nil {
		r.Platform = info.Platform
		r.PlatformVersion = info.PlatformVersion
		r.Kernel = info.KernelVersion
	}

	if _, err := p.Query(""); err == nil {
		r.BackendReady = true
	}

	return r
}

func backendName() string {
	switch runtime.GOOS {
	case "windows":
		return "user32 (EnumDisplaySettings/ChangeDisplaySettingsEx)"
	case "linux":
		return "x11 randr"
	default:
		return "none"
	}
}

func sessionHint() string {
	if runtime.GOOS != "linux" {
		return ""
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return "wayland session detected; randr works only through XWayland"
	}
	if d := os.Getenv("DISPLAY"); d != "" {
		return "x11 session on " + d
	}
	return "no DISPLAY set"
}
