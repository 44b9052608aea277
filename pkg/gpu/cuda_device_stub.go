//go:build !cuda
// +build !cuda

package gpu

import "github.com/tauraamui/xerror"

// NewCUDADevice needs the cuda build tag and an OpenCV built with CUDA.
func NewCUDADevice(opts ...SoftwareOption) (Device, error) {
	return nil, xerror.Errorf("cuda support not compiled in: %w", ErrNoDevice)
}
