package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	info := Info()
	if !strings.HasPrefix(info, "WineGallery dev") {
		t.Errorf("Info() = %q, want prefix %q", info, "WineGallery dev")
	}
	if !strings.Contains(info, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Errorf("Info() should contain platform, got: %s", info)
	}
}

func TestShort(t *testing.T) {
	if got := Short(); got != "dev" {
		t.Errorf("Short() = %q, want %q (default)", got, "dev")
	}
}

func TestGet(t *testing.T) {
	b := Get()
	if b.Version != "dev" {
		t.Errorf("Version = %q, want dev", b.Version)
	}
	if b.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", b.GoVersion, runtime.Version())
	}
	if b.OS != runtime.GOOS || b.Arch != runtime.GOARCH {
		t.Errorf("platform = %s/%s, want %s/%s", b.OS, b.Arch, runtime.GOOS, runtime.GOARCH)
	}
}

func TestGet_Overrides(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "1.4.2"
	if got := Get().Version; got != "1.4.2" {
		t.Errorf("Get().Version = %q, want 1.4.2", got)
	}
}
