package camera

import (
	"os"
	"path/filepath"
	"sort"
)

// Device describes one V4L2 video node surfaced to the devices command.
type Device struct {
	Path     string
	Readable bool
}

// ListDevices enumerates /dev/video* nodes with a readability probe.
// Not every node is a capture device; the doctor's open check is the
// authoritative test.
func ListDevices() ([]Device, error) {
	matches, err := filepath.Glob("/dev/video*")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	devices := make([]Device, 0, len(matches))
	for _, path := range matches {
		devices = append(devices, Device{Path: path, Readable: readable(path)})
	}
	return devices, nil
}

func readable(path string) bool {
	f, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}
