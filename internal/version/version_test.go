package version

import "testing"

func TestCalculateBuildID(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		expected  int
		wantError bool
	}{
		{
			name:     "epoch date",
			date:     "2025-12-04",
			expected: 0,
		},
		{
			name:     "next day after epoch",
			date:     "2025-12-05",
			expected: 1,
		},
		{
			name:     "one year later",
			date:     "2026-12-04",
			expected: 365,
		},
		{
			name:     "date with leap years included",
			date:     "2032-12-04",
			expected: 2557,
		},
		{
			name:      "invalid format",
			date:      "invalid",
			wantError: true,
		},
		{
			name:      "empty date",
			date:      "",
			wantError: true,
		},
		{
			name:      "before epoch",
			date:      "2025-12-03",
			wantError: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildID(tt.date)

			if tt.wantError {
				if err == nil {
					t.Fatalf("expected error, got nil (id=%d)", got)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.expected {
				t.Errorf("buildID() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name       string
		attrs      map[string]string
		want       Format
		compatible bool
		legacy     bool
	}{
		{
			name:       "current",
			attrs:      Current.Attrs(),
			want:       Current,
			compatible: true,
		},
		{
			name:       "legacy intermediate",
			attrs:      map[string]string{"major": "0", "minor": "0", "bug": "7"},
			want:       Format{Bug: 7},
			compatible: true,
			legacy:     true,
		},
		{
			name:  "future major",
			attrs: map[string]string{"major": "2", "minor": "1"},
			want:  Format{Major: 2, Minor: 1},
		},
		{
			name:       "garbage",
			attrs:      map[string]string{"major": "x"},
			want:       Format{},
			compatible: true,
			legacy:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFormat(func(name string) string { return tt.attrs[name] })
			if got != tt.want {
				t.Fatalf("ParseFormat() = %s, want %s", got, tt.want)
			}
			if c := Current.Compatible(got); c != tt.compatible {
				t.Errorf("Compatible() = %v, want %v", c, tt.compatible)
			}
			if l := got.Legacy(); l != tt.legacy {
				t.Errorf("Legacy() = %v, want %v", l, tt.legacy)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	saved := BuildDate
	defer func() { BuildDate = saved }()

	BuildDate = ""
	info := Info()
	if info.Err == nil || info.Number != -1 {
		t.Fatalf("expected unknown build, got %+v", info)
	}
	if got := info.Fields()["build"]; got != "unknown" {
		t.Errorf("Fields()[build] = %v, want unknown", got)
	}

	BuildDate = "2025-12-14"
	info = Info()
	if info.Err != nil {
		t.Fatalf("unexpected error: %v", info.Err)
	}
	if info.Number != 10 {
		t.Errorf("Number = %d, want 10", info.Number)
	}
	if info.CI != "local" {
		t.Errorf("CI = %q, want local", info.CI)
	}
	fields := info.Fields()
	if fields["build"] != 10 || fields["format"] != Current.String() {
		t.Errorf("Fields() = %v", fields)
	}
	if want := "Kuiper build 10 (2025-12-14)"; String()[:len(want)] != want {
		t.Errorf("String() = %q, want prefix %q", String(), want)
	}
}
