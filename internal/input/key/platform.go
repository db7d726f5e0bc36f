package key

import (
	"runtime"
	"strings"
)

// Platform decides how the platform-resolved modifiers cmd and meta map onto
// event modifier bits.
type Platform uint8

const (
	// PlatformAuto resolves to CurrentPlatform.
	PlatformAuto Platform = iota
	// PlatformOther maps cmd and meta to the Ctrl bit.
	PlatformOther
	// PlatformMac maps cmd and meta to the Meta bit.
	PlatformMac
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case PlatformAuto:
		return "auto"
	case PlatformMac:
		return "mac"
	}
	return "other"
}

// Resolve returns CurrentPlatform for PlatformAuto and p otherwise.
func (p Platform) Resolve() Platform {
	if p == PlatformAuto {
		return CurrentPlatform()
	}
	return p
}

// IsMac reports whether p is a Mac-like platform.
func (p Platform) IsMac() bool {
	return p.Resolve() == PlatformMac
}

// CurrentPlatform returns the platform of the running process.
func CurrentPlatform() Platform {
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return PlatformMac
	}
	return PlatformOther
}

// ParsePlatform parses "mac", "darwin", "other", "linux", "windows" or
// "auto". Unknown names and "auto" resolve to CurrentPlatform.
func ParsePlatform(s string) Platform {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mac", "macos", "darwin", "ios":
		return PlatformMac
	case "other", "linux", "windows", "pc":
		return PlatformOther
	default:
		return CurrentPlatform()
	}
}
