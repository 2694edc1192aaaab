package engine

import "testing"

func TestWindowClampOffset(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		offset int
		want   int
	}{
		{"within range", Window{Limit: 25, Total: 100}, 50, 50},
		{"past end snaps to last page", Window{Limit: 25, Total: 100}, 200, 75},
		{"negative snaps to zero", Window{Limit: 25, Total: 100}, -25, 0},
		{"fewer rows than one page", Window{Limit: 25, Total: 10}, 25, 0},
		{"empty listing", Window{Limit: 25, Total: 0}, 50, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.window.clampOffset(tc.offset)
			if got != tc.want {
				t.Fatalf("clampOffset(%d) = %d, want %d", tc.offset, got, tc.want)
			}
		})
	}
}

func TestWindowLabel(t *testing.T) {
	cases := []struct {
		name   string
		window Window
		want   string
	}{
		{"first page", Window{Offset: 0, Limit: 25, Total: 100}, "Page 1 of 4"},
		{"middle page", Window{Offset: 50, Limit: 25, Total: 100}, "Page 3 of 4"},
		{"partial last page", Window{Offset: 75, Limit: 25, Total: 80}, "Page 4 of 4"},
		{"empty listing", Window{Offset: 0, Limit: 25, Total: 0}, "Page 0 of 0"},
		{"single short page", Window{Offset: 0, Limit: 25, Total: 3}, "Page 1 of 1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.window.Label(); got != tc.want {
				t.Fatalf("Label() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNormalizeLimit(t *testing.T) {
	if got := normalizeLimit(0); got != DefaultLimit {
		t.Fatalf("normalizeLimit(0) = %d, want %d", got, DefaultLimit)
	}
	if got := normalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("normalizeLimit(-5) = %d, want %d", got, DefaultLimit)
	}
	if got := normalizeLimit(1000); got != MaxLimit {
		t.Fatalf("normalizeLimit(1000) = %d, want %d", got, MaxLimit)
	}
	if got := normalizeLimit(10); got != 10 {
		t.Fatalf("normalizeLimit(10) = %d, want 10", got)
	}
}
