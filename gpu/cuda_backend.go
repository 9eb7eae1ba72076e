//go:build cuda

package gpu

import (
	"fmt"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
)

// CUDABackendName is the name the CUDA backend is registered under.
const CUDABackendName = "cuda"

func init() {
	RegisterFactory(CUDABackendName, func() Backend { return &CUDABackend{} })
}

// CUDABackend discovers NVIDIA devices through NVML. Contexts cannot be
// opened yet because the module carries no cuFFT binding.
type CUDABackend struct{}

func (b *CUDABackend) Info() BackendInfo {
	version := "unknown"
	if ret := nvml.Init(); ret == nvml.SUCCESS {
		defer func() { _ = nvml.Shutdown() }()

		if v, ret := nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
			version = v
		}
	}

	return BackendInfo{
		Name:        CUDABackendName,
		Version:     version,
		Description: "CUDA backend (NVML device discovery, no cuFFT binding)",
	}
}

// Available reports whether NVML loads and sees at least one device.
func (b *CUDABackend) Available() bool {
	devices, err := b.Devices()
	return err == nil && len(devices) > 0
}

func (b *CUDABackend) Devices() ([]DeviceInfo, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("%w: nvml init: %s", ErrBackendUnavailable, nvml.ErrorString(ret))
	}
	defer func() { _ = nvml.Shutdown() }()

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvml device count: %s", nvml.ErrorString(ret))
	}

	driver, _ := nvml.SystemGetDriverVersion()

	devices := make([]DeviceInfo, 0, count)
	for i := range count {
		dev, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			return nil, fmt.Errorf("nvml device %d: %s", i, nvml.ErrorString(ret))
		}

		info := DeviceInfo{Vendor: "NVIDIA", Driver: driver}

		if name, ret := dev.GetName(); ret == nvml.SUCCESS {
			info.Name = name
		}

		if mem, ret := dev.GetMemoryInfo(); ret == nvml.SUCCESS {
			info.MemoryMB = int(mem.Total / (1 << 20))
		}

		if major, minor, ret := dev.GetCudaComputeCapability(); ret == nvml.SUCCESS {
			info.ComputeCap = fmt.Sprintf("%d.%d", major, minor)
		}

		devices = append(devices, info)
	}

	return devices, nil
}

func (b *CUDABackend) NewContext(deviceIndex int) (Context, error) {
	devices, err := b.Devices()
	if err != nil {
		return nil, err
	}

	if deviceIndex < 0 || deviceIndex >= len(devices) {
		return nil, fmt.Errorf("cuda backend: device index %d out of range", deviceIndex)
	}

	return nil, fmt.Errorf("cuda backend: %w: cuFFT plans", ErrNotImplemented)
}

// RegisterCUDABackend registers the CUDA backend as the active backend.
func RegisterCUDABackend() {
	RegisterBackend(&CUDABackend{})
}
