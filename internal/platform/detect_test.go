package platform

import (
	"context"
	"errors"
	"runtime"
	"testing"
)

// MockDetector is a test implementation of Detector.
type MockDetector struct {
	info *Info
	err  error
}

// NewMockDetector creates a mock detector with specified return values.
func NewMockDetector(info *Info, err error) Detector {
	return &MockDetector{info: info, err: err}
}

// Detect returns the pre-configured info and error.
func (m *MockDetector) Detect(ctx context.Context) (*Info, error) {
	return m.info, m.err
}

func TestRealDetector_Detect(t *testing.T) {
	info, err := NewDetector().Detect(context.Background())
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS = %v, want %v", info.OS, runtime.GOOS)
	}
	if info.ArchRaw != runtime.GOARCH {
		t.Errorf("ArchRaw = %v, want %v", info.ArchRaw, runtime.GOARCH)
	}
	if info.Arch == "" || info.ArchToken == "" {
		t.Errorf("Arch/ArchToken should not be empty: %+v", info)
	}

	// Distro fields are either all unset or platform and family are both set
	if info.Platform != "" && info.Family == "" {
		t.Error("Family should be set when Platform is set")
	}
	if runtime.GOOS != "linux" && info.Platform != "" {
		t.Errorf("Platform should be empty on non-Linux, got %v", info.Platform)
	}
}

func TestDetect_Linux(t *testing.T) {
	lookup := func(ctx context.Context) (string, string, string, error) {
		return "Ubuntu", "debian", "22.04", nil
	}

	info, err := detect(context.Background(), "linux", "amd64", lookup)
	if err != nil {
		t.Fatalf("detect() error = %v", err)
	}

	want := Info{
		OS:        "linux",
		Arch:      "amd64",
		ArchRaw:   "amd64",
		ArchToken: "x86_64",
		Platform:  "ubuntu",
		Family:    FamilyDebian,
		Version:   "22.04",
	}
	if *info != want {
		t.Errorf("detect() = %+v, want %+v", *info, want)
	}
}

func TestDetect_LookupFailureFallsBack(t *testing.T) {
	lookup := func(ctx context.Context) (string, string, string, error) {
		return "", "", "", errors.New("no os-release")
	}

	info, err := detect(context.Background(), "linux", "arm64", lookup)
	if err != nil {
		t.Fatalf("detect() error = %v", err)
	}
	if info.Platform != "" || info.Family != "" {
		t.Errorf("distro fields should be empty, got %+v", info)
	}
	if info.ArchToken != "arm64" {
		t.Errorf("ArchToken = %v, want arm64", info.ArchToken)
	}
}

func TestDetect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lookup := func(ctx context.Context) (string, string, string, error) {
		return "", "", "", ctx.Err()
	}

	if _, err := detect(ctx, "linux", "amd64", lookup); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestDetect_NonLinuxSkipsLookup(t *testing.T) {
	called := false
	lookup := func(ctx context.Context) (string, string, string, error) {
		called = true
		return "", "", "", nil
	}

	info, err := detect(context.Background(), "darwin", "arm64", lookup)
	if err != nil {
		t.Fatalf("detect() error = %v", err)
	}
	if called {
		t.Error("distro lookup should not run on non-Linux")
	}
	if info.HasDistro() {
		t.Error("HasDistro() should be false on darwin")
	}
}
