package buildinfo

import "testing"

func withBuild(t *testing.T, version, commit string) {
	t.Helper()
	oldV, oldC := Version, Commit
	Version, Commit = version, commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })
}

func TestShort(t *testing.T) {
	cases := []struct {
		version, commit, want string
	}{
		{"dev", "unknown", "dev"},
		{"1.2.3", "abc", "v1.2.3"},
		{"v0.4.0-rc.1", "abc", "v0.4.0-rc.1"},
		{"nightly", "0123456789abcdef", "0123456789ab"},
		{"dev", "abc123", "abc123"},
	}
	for _, c := range cases {
		withBuild(t, c.version, c.commit)
		if got := Short(); got != c.want {
			t.Errorf("Short() with version=%q commit=%q = %q, want %q", c.version, c.commit, got, c.want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	withBuild(t, "1.4.0", "")
	if !AtLeast("1.2.0") {
		t.Fatalf("AtLeast(1.2.0) = false for 1.4.0")
	}
	if AtLeast("2.0.0") {
		t.Fatalf("AtLeast(2.0.0) = true for 1.4.0")
	}

	withBuild(t, "dev", "")
	if !AtLeast("9.9.9") {
		t.Fatalf("dev build must satisfy any minimum")
	}
}
