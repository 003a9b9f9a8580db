package abnmcp

import "testing"

func TestVersion(t *testing.T) {
	t.Parallel()

	if Version != "0.0.3" {
		t.Errorf("Version = %s, want 0.0.3", Version)
	}
}

func TestGetVersion(t *testing.T) {
	t.Parallel()

	if v := GetVersion(); v != Version {
		t.Errorf("GetVersion() = %s, want %s", v, Version)
	}
}
