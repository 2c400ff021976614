package log

import (
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{" debug ", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"debug+4", LevelInfo},
		{"bogus", DefaultLevel},
		{"", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevels_RoundTrip(t *testing.T) {
	var n int

	for name := range Levels() {
		n++

		if got := ParseLevel(name); got.String() != name {
			t.Errorf("%q parsed as %v", name, got)
		}
	}

	if n != 5 {
		t.Errorf("expected 5 levels, got %d", n)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"json", FormatJSON},
		{"Text", FormatText},
		{"xml", DefaultFormat},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	for name := range Formats() {
		if ParseFormat(name).String() != name {
			t.Errorf("format %q does not round-trip", name)
		}
	}
}

func TestOptions_SetFields(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatText),
		WithCaller(true),
		WithPretty(false),
	)

	if c.level != LevelWarn {
		t.Errorf("expected level warn, got %v", c.level)
	}

	if c.format != FormatText {
		t.Errorf("expected format text, got %v", c.format)
	}

	if !c.caller {
		t.Error("expected caller enabled")
	}

	if c.pretty {
		t.Error("expected pretty disabled")
	}

	if c.mutex == nil {
		t.Error("expected options to allocate a mutex")
	}
}

func TestWithTimeLayout(t *testing.T) {
	now := time.Date(2023, 10, 15, 14, 30, 45, 123456789, time.UTC)

	tests := []struct {
		name   string
		layout string
		want   string
	}{
		{"rfc3339", "RFC3339", "2023-10-15T14:30:45Z"},
		{"rfc3339 nano with punctuation", "rfc-3339-nano", "2023-10-15T14:30:45.123456789Z"},
		{"kitchen", "Kitchen", "2:30PM"},
		{"custom", "2006/01/02", "2023/10/15"},
		{"empty", "", ""},
		{"whitespace", " \t ", ""},
		{"none", "none", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := WithTimeLayout(tt.layout)(config{})

			if got := c.formatTime(now); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestConfig_CloneIsIndependent(t *testing.T) {
	var sb strings.Builder

	base := makeConfig(&sb, WithLevel(LevelInfo))
	derived := base.clone(WithLevel(LevelTrace))

	if base.level != LevelInfo || derived.level != LevelTrace {
		t.Errorf("clone leaked: base=%v derived=%v", base.level, derived.level)
	}

	if base.mutex == derived.mutex {
		t.Error("clone shares mutex")
	}
}

func BenchmarkFormatTime(b *testing.B) {
	c := WithTimeLayout("RFC3339Nano")(config{})
	now := time.Now()

	for b.Loop() {
		_ = c.formatTime(now)
	}
}
