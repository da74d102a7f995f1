package profile

import (
	"slices"
	"testing"
)

func TestStart_EmptyModeIsNoop(t *testing.T) {
	p := Profiler{}.Start()
	if _, ok := p.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", p)
	}

	p.Stop()
}

func TestStart_UnknownModeIsNoop(t *testing.T) {
	p := Profiler{Mode: "flamegraph", Path: t.TempDir()}.Start()
	if _, ok := p.(ignore); !ok {
		t.Errorf("Start() = %T, want no-op", p)
	}

	p.Stop()
}

func TestModes(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("Modes() = %v without pprof support", modes)
		}

		return
	}

	if !slices.IsSorted(modes) || !slices.Contains(modes, "cpu") {
		t.Errorf("Modes() = %v", modes)
	}
}
