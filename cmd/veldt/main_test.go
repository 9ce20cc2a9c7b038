package main

import "testing"

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1 << 20, "1.0 MB"},
		{5 << 30, "5.0 GB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestProjectNameRe(t *testing.T) {
	valid := []string{"blog", "my-site", "app2", "a"}
	for _, name := range valid {
		if !projectNameRe.MatchString(name) {
			t.Errorf("%q rejected, want accepted", name)
		}
	}

	invalid := []string{"", "My-Site", "2app", "-app", "my_site", "my site", "app."}
	for _, name := range invalid {
		if projectNameRe.MatchString(name) {
			t.Errorf("%q accepted, want rejected", name)
		}
	}
}
