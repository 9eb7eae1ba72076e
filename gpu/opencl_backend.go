//go:build opencl

package gpu

// OpenCLBackendName is the name the OpenCL backend is registered under.
const OpenCLBackendName = "opencl"

func init() {
	RegisterFactory(OpenCLBackendName, func() Backend { return &OpenCLBackend{} })
}

// OpenCLBackend is the placeholder selected by Use("opencl") in builds
// tagged "opencl". It reports itself unavailable, so OpenContext fails with
// ErrBackendUnavailable instead of the name being unknown. No device code is
// wired yet.
type OpenCLBackend struct{}

func (b *OpenCLBackend) Info() BackendInfo {
	return BackendInfo{
		Name:        OpenCLBackendName,
		Version:     "stub",
		Description: "OpenCL backend stub (no implementation)",
	}
}

func (b *OpenCLBackend) Available() bool {
	return false
}

func (b *OpenCLBackend) Devices() ([]DeviceInfo, error) {
	return nil, ErrBackendUnavailable
}

func (b *OpenCLBackend) NewContext(_ int) (Context, error) {
	return nil, ErrBackendUnavailable
}
