// Package bridge connects the hub to the host platform: device readiness and widget delivery.
package bridge

import (
	"os"
	"runtime"

	"go.uber.org/zap"
)

// DeviceInfo describes the host the hub runs on.
type DeviceInfo struct {
	Ready     bool   `json:"ready"`
	Hostname  string `json:"hostname,omitempty"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"goVersion"`
}

// ProbeDevice queries the host once. A failing lookup is not an error; the
// corresponding field stays empty.
func ProbeDevice(logger *zap.Logger) DeviceInfo {
	if logger == nil {
		logger = zap.NewNop()
	}
	info := DeviceInfo{
		Ready:     true,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		GoVersion: runtime.Version(),
	}
	hostname, err := os.Hostname()
	if err != nil {
		logger.Debug("hostname unavailable", zap.Error(err))
	} else {
		info.Hostname = hostname
	}
	return info
}
