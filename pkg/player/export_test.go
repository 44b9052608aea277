package player

import "github.com/tauraamui/blurplayer/pkg/gpu"

func OverloadNewCUDADevice(overload func() (gpu.Device, error)) func() {
	ref := newCUDADevice
	newCUDADevice = overload
	return func() { newCUDADevice = ref }
}
