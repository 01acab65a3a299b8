package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect uses runtime.GOOS/GOARCH for OS and architecture and gopsutil for
// Linux distribution details. A distribution lookup failure leaves the distro
// fields empty; only context cancellation is reported as an error.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	return detect(ctx, runtime.GOOS, runtime.GOARCH, host.PlatformInformationWithContext)
}

type platformInfoFunc func(ctx context.Context) (platform, family, version string, err error)

func detect(ctx context.Context, goos, goarch string, lookup platformInfoFunc) (*Info, error) {
	arch := normalizeArch(goarch)
	info := &Info{
		OS:        goos,
		Arch:      arch,
		ArchRaw:   goarch,
		ArchToken: archToken(arch),
	}

	if goos != "linux" {
		return info, nil
	}

	platform, family, version, err := lookup(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}
