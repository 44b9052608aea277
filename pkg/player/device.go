package player

import (
	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
)

var newCUDADevice = func() (gpu.Device, error) {
	return gpu.NewCUDADevice()
}

var newSoftwareDevice = func() gpu.Device {
	return gpu.NewSoftwareDevice()
}

// resolveDevice never fails, a missing accelerator means the software
// device and "none" means drawing without one.
func resolveDevice(name string) gpu.Device {
	switch name {
	case "none":
		log.Info("No graphics device requested, drawing directly")
		return nil
	case "cuda":
		dev, err := newCUDADevice()
		if err == nil {
			return dev
		}
		log.Warn("Unable to use cuda device, falling back to software: %v", err)
	}
	return newSoftwareDevice()
}

type DeviceInfo struct {
	Name          string
	Available     bool
	SeparableBlur bool
	Detail        string
}

// Devices reports every device the player can be configured with.
func Devices() []DeviceInfo {
	infos := []DeviceInfo{}

	if dev, err := newCUDADevice(); err != nil {
		infos = append(infos, DeviceInfo{Name: "cuda", Detail: err.Error()})
	} else {
		infos = append(infos, DeviceInfo{Name: "cuda", Available: true, SeparableBlur: dev.SupportsSeparableBlur(), Detail: dev.Name()})
		closeDevice(dev)
	}

	dev := newSoftwareDevice()
	infos = append(infos, DeviceInfo{Name: "software", Available: true, SeparableBlur: dev.SupportsSeparableBlur(), Detail: dev.Name()})
	closeDevice(dev)

	infos = append(infos, DeviceInfo{Name: "none", Available: true, Detail: "direct draw only"})
	return infos
}
