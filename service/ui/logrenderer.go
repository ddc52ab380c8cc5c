// SPDX-License-Identifier: BSD-3-Clause

package ui

import "log/slog"

// LogRenderer renders every screen as a structured log line instead of
// driving a physical display. It reproduces the fixed screen text a real
// display would show, which makes it useful both as a development
// stand-in and as the renderer cmd/dongle falls back to when no display
// is wired up.
type LogRenderer struct {
	logger *slog.Logger
}

// NewLogRenderer returns a Renderer that logs each screen through logger.
func NewLogRenderer(logger *slog.Logger) *LogRenderer {
	return &LogRenderer{logger: logger}
}

func (r *LogRenderer) DrawHome(connected bool, deviceName string) {
	status := "Idle"
	if connected {
		status = "Connected"
	}
	r.logger.Info("screen", "name", "home", "line1", "bt2usb", "line2", status,
		"line3", deviceName, "line4", "Press SELECT to scan")
}

func (r *LogRenderer) DrawScanning(dots uint8) {
	suffix := ""
	for range dots % 4 {
		suffix += "."
	}
	r.logger.Info("screen", "name", "scanning", "line1", "Scanning"+suffix, "line2", "Please wait...")
}

func (r *LogRenderer) DrawDeviceList(names []string, selected int) {
	rows := make([]string, 0, 4)
	for i, name := range names {
		if i >= 4 {
			break
		}
		marker := " "
		if i == selected {
			marker = ">"
		}
		rows = append(rows, marker+name)
	}
	r.logger.Info("screen", "name", "device_list", "title", "Select device", "rows", rows)
}

func (r *LogRenderer) DrawConnected(deviceName string) {
	r.logger.Info("screen", "name", "connected", "line1", "Connected", "line2", deviceName,
		"line3", "SEL:add  DOWN:disc", "line4", "HID active")
}

func (r *LogRenderer) DrawError(message string) {
	r.logger.Info("screen", "name", "error", "line1", "ERROR", "line2", message)
}
