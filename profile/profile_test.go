package profile

import (
	"slices"
	"testing"
)

func TestMake(t *testing.T) {
	p := Make(WithMode("cpu"), WithPath("/tmp/prof"), WithQuiet(true))

	want := Profiler{Mode: "cpu", Path: "/tmp/prof", Quiet: true}
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}

func TestStart_NoMode(t *testing.T) {
	stop := Make(WithPath(t.TempDir())).Start()

	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op profiler, got %T", stop)
	}

	stop.Stop()
}

func TestStart_UnknownMode(t *testing.T) {
	stop := Make(WithMode("bogus"), WithPath(t.TempDir())).Start()

	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op profiler for unknown mode, got %T", stop)
	}

	stop.Stop()
}

func TestModes_Sorted(t *testing.T) {
	if m := Modes(); !slices.IsSorted(m) {
		t.Errorf("modes not sorted: %v", m)
	}
}
