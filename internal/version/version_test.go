package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColored_PlainWhenColorDisabled(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	origVersion := Version
	defer func() { Version = origVersion }()

	tests := []struct {
		in, want string
	}{
		{"1.2.3", "1.2.3"},
		{"0.1.0-dev", "0.1.0-dev"},
		{"  ", "dev"},
		{"2.0", "2.0"},
	}
	for _, tt := range tests {
		Version = tt.in
		if got := Colored(); got != tt.want {
			t.Errorf("Colored() with %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestColored_ColorsParts(t *testing.T) {
	orig := color.NoColor
	color.NoColor = false
	defer func() { color.NoColor = orig }()

	origVersion := Version
	defer func() { Version = origVersion }()
	Version = "1.2.3-rc1"

	got := Colored()
	if got == "1.2.3-rc1" {
		t.Fatalf("expected escape sequences, got %q", got)
	}
	want := partColors[0].Sprint("1") + "." + partColors[1].Sprint("2") + "." + partColors[2].Sprint("3") + "-rc1"
	if got != want {
		t.Errorf("Colored() = %q, want %q", got, want)
	}
}
