// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package usbhid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chefzaid/bt2usb/pkg/hidreport"
)

const (
	configfsPath = "/sys/kernel/config"
	gadgetPath   = "/sys/kernel/config/usb_gadget"
	udcPath      = "/sys/class/udc"

	suspendPollInterval = 500 * time.Millisecond
	writeDeadline       = 10 * time.Millisecond
)

type function struct {
	name       string
	descriptor []byte
	attrs      map[string]string
	devicePath string
}

// Gadget is the real, configfs-backed CompositeDevice: a three-function
// composite HID gadget (keyboard, mouse, consumer control), one
// /dev/hidgN node per function in link order.
type Gadget struct {
	config *GadgetConfig

	mu     sync.Mutex
	closed bool

	suspend  chan bool
	stopPoll chan struct{}
}

// NewGadget creates, configures and binds a composite HID gadget per
// config, returning a CompositeDevice ready to stream reports.
func NewGadget(config *GadgetConfig) (*Gadget, error) {
	if config == nil {
		config = DefaultGadgetConfig()
	}
	if err := ensureConfigFSMounted(); err != nil {
		return nil, err
	}

	gadgetDir := filepath.Join(gadgetPath, config.Name)
	if _, err := os.Stat(gadgetDir); err == nil {
		return nil, ErrGadgetExists
	}

	if err := createGadget(gadgetDir, config); err != nil {
		os.RemoveAll(gadgetDir)
		return nil, err
	}

	udc, err := findAvailableUDC()
	if err != nil {
		os.RemoveAll(gadgetDir)
		return nil, err
	}
	if err := writeFile(filepath.Join(gadgetDir, "UDC"), udc); err != nil {
		os.RemoveAll(gadgetDir)
		return nil, fmt.Errorf("usbhid: bind gadget to UDC: %w", err)
	}

	g := &Gadget{
		config:   config,
		suspend:  make(chan bool, 1),
		stopPoll: make(chan struct{}),
	}
	go g.pollSuspendState(udc)
	return g, nil
}

func createGadget(gadgetDir string, config *GadgetConfig) error {
	if err := os.MkdirAll(gadgetDir, 0o755); err != nil {
		if os.IsPermission(err) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("usbhid: create gadget directory: %w", err)
	}

	attrs := map[string]string{
		"bcdUSB":    "0x0200",
		"idVendor":  config.VendorID,
		"idProduct": config.ProductID,
		"bcdDevice": "0x0100",
	}
	for attr, value := range attrs {
		if err := writeFile(filepath.Join(gadgetDir, attr), value); err != nil {
			return fmt.Errorf("usbhid: write %s: %w", attr, err)
		}
	}

	stringsDir := filepath.Join(gadgetDir, "strings/0x409")
	if err := os.MkdirAll(stringsDir, 0o755); err != nil {
		return fmt.Errorf("usbhid: create strings directory: %w", err)
	}
	strs := map[string]string{
		"serialnumber": config.SerialNumber,
		"manufacturer": config.Manufacturer,
		"product":      config.Product,
	}
	for name, value := range strs {
		if err := writeFile(filepath.Join(stringsDir, name), value); err != nil {
			return fmt.Errorf("usbhid: write %s string: %w", name, err)
		}
	}

	configDir := filepath.Join(gadgetDir, "configs/c.1")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("usbhid: create config directory: %w", err)
	}
	maxPower := config.MaxPower
	if maxPower == 0 {
		maxPower = 250
	}
	if err := writeFile(filepath.Join(configDir, "MaxPower"), fmt.Sprintf("%d", maxPower)); err != nil {
		return fmt.Errorf("usbhid: write MaxPower: %w", err)
	}
	configStringsDir := filepath.Join(configDir, "strings/0x409")
	if err := os.MkdirAll(configStringsDir, 0o755); err != nil {
		return fmt.Errorf("usbhid: create config strings directory: %w", err)
	}
	if err := writeFile(filepath.Join(configStringsDir, "configuration"), "Config 1: HID"); err != nil {
		return fmt.Errorf("usbhid: write configuration string: %w", err)
	}

	functions := []function{
		{name: "hid.usb0", descriptor: keyboardReportDescriptor, devicePath: config.KeyboardDevicePath, attrs: map[string]string{
			"protocol": "1", "subclass": "1", "report_length": "8", "no_out_endpoint": "1",
		}},
		{name: "hid.usb1", descriptor: mouseReportDescriptor, devicePath: config.MouseDevicePath, attrs: map[string]string{
			"protocol": "0", "subclass": "0", "report_length": "4", "no_out_endpoint": "1",
		}},
		{name: "hid.usb2", descriptor: consumerReportDescriptor, devicePath: config.ConsumerDevicePath, attrs: map[string]string{
			"protocol": "0", "subclass": "0", "report_length": "2", "no_out_endpoint": "1",
		}},
	}
	for _, fn := range functions {
		if err := createFunction(gadgetDir, configDir, fn); err != nil {
			return err
		}
	}
	return nil
}

func createFunction(gadgetDir, configDir string, fn function) error {
	functionDir := filepath.Join(gadgetDir, "functions", fn.name)
	if err := os.MkdirAll(functionDir, 0o755); err != nil {
		return fmt.Errorf("usbhid: create function directory %s: %w", fn.name, err)
	}
	for attr, value := range fn.attrs {
		if err := writeFile(filepath.Join(functionDir, attr), value); err != nil {
			return fmt.Errorf("usbhid: write %s/%s: %w", fn.name, attr, err)
		}
	}
	if err := os.WriteFile(filepath.Join(functionDir, "report_desc"), fn.descriptor, 0o644); err != nil {
		return fmt.Errorf("usbhid: write %s report descriptor: %w", fn.name, err)
	}
	if err := os.Symlink(functionDir, filepath.Join(configDir, fn.name)); err != nil {
		return fmt.Errorf("usbhid: link %s into config: %w", fn.name, err)
	}
	return nil
}

// Write sends a canonical report to the matching gadget function.
func (g *Gadget) Write(r hidreport.Report) error {
	path, err := g.pathForKind(r.Kind())
	if err != nil {
		return err
	}

	var buf [8]byte
	n, err := r.Serialize(buf[:])
	if err != nil {
		return err
	}
	return writeHIDReport(path, buf[:n])
}

func (g *Gadget) pathForKind(k hidreport.Kind) (string, error) {
	switch k {
	case hidreport.KindKeyboard:
		return g.config.KeyboardDevicePath, nil
	case hidreport.KindMouse:
		return g.config.MouseDevicePath, nil
	case hidreport.KindConsumer:
		return g.config.ConsumerDevicePath, nil
	default:
		return "", ErrUnsupportedKind
	}
}

func writeHIDReport(devicePath string, report []byte) error {
	if _, err := os.Stat(devicePath); os.IsNotExist(err) {
		return ErrDeviceNotFound
	}

	f, err := os.OpenFile(devicePath, os.O_WRONLY, 0)
	if err != nil {
		if os.IsPermission(err) {
			return ErrPermissionDenied
		}
		return fmt.Errorf("usbhid: open HID device: %w", err)
	}
	defer f.Close()

	if err := f.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		return fmt.Errorf("usbhid: set write deadline: %w", err)
	}
	if _, err := f.Write(report); err != nil {
		if os.IsTimeout(err) {
			return ErrWriteTimeout
		}
		return fmt.Errorf("usbhid: write HID report: %w", err)
	}
	return nil
}

func (g *Gadget) SuspendSignal() <-chan bool {
	return g.suspend
}

// pollSuspendState watches the bound UDC's state attribute and reports
// suspend/resume transitions. configfs has no blocking wait primitive
// for this, so polling is the same approach the rest of this package
// uses for every other UDC state read.
func (g *Gadget) pollSuspendState(udc string) {
	statePath := filepath.Join(udcPath, udc, "state")
	suspended := false
	ticker := time.NewTicker(suspendPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-g.stopPoll:
			return
		case <-ticker.C:
			content, err := readFile(statePath)
			if err != nil {
				continue
			}
			now := strings.TrimSpace(content) == "suspended"
			if now == suspended {
				continue
			}
			suspended = now
			select {
			case g.suspend <- suspended:
			default:
			}
		}
	}
}

func (g *Gadget) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	close(g.stopPoll)

	gadgetDir := filepath.Join(gadgetPath, g.config.Name)
	_ = writeFile(filepath.Join(gadgetDir, "UDC"), "")
	return os.RemoveAll(gadgetDir)
}

func ensureConfigFSMounted() error {
	if _, err := os.Stat(configfsPath); os.IsNotExist(err) {
		return ErrConfigFSNotMounted
	}
	if _, err := os.Stat(gadgetPath); os.IsNotExist(err) {
		return ErrConfigFSNotMounted
	}
	return nil
}

func findAvailableUDC() (string, error) {
	entries, err := os.ReadDir(udcPath)
	if err != nil {
		return "", ErrUDCNotFound
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		udcName := entry.Name()
		statePath := filepath.Join(udcPath, udcName, "state")
		if content, err := readFile(statePath); err == nil {
			if strings.TrimSpace(content) == "not attached" {
				return udcName, nil
			}
		}
	}
	return "", ErrUDCNotFound
}

func writeFile(path, content string) error {
	err := os.WriteFile(path, []byte(content), 0o644)
	if os.IsPermission(err) {
		return ErrPermissionDenied
	}
	return err
}

func readFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(content), nil
}
