package pkg

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "ccnt" {
		t.Errorf("Expected Name to be %q, got %q", "ccnt", Name)
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version() != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version())
	}
}

func TestAuthorStruct(t *testing.T) {
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestPrefix_TestBinaryUsesName(t *testing.T) {
	if got := Prefix(); got != Name {
		t.Errorf("Prefix() = %q, want %q", got, Name)
	}
}

func TestConfigPath_JoinsConfigDir(t *testing.T) {
	got := ConfigPath("a", "b.yaml")
	want := filepath.Join(ConfigDir(), "a", "b.yaml")

	if got != want {
		t.Errorf("ConfigPath() = %q, want %q", got, want)
	}
}

func TestError_Format(t *testing.T) {
	base := NewError("open counter")
	cause := errors.New("permission denied")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"message only", base, "open counter"},
		{"message and cause", base.Wrap(cause), "open counter: permission denied"},
		{"cause only", WrapError(cause), "permission denied"},
		{"empty", &Error{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsMatchesDecoratedSentinel(t *testing.T) {
	sentinel := NewError("busy")
	other := NewError("timeout")

	err := fmt.Errorf("outer: %w",
		sentinel.With(slog.Int("n", 3)).Wrap(errors.New("inner")))

	if !errors.Is(err, sentinel) {
		t.Error("decorated error should match its sentinel")
	}

	if errors.Is(err, other) {
		t.Error("decorated error should not match an unrelated sentinel")
	}
}

func TestError_WithDoesNotMutateReceiver(t *testing.T) {
	base := NewError("base").With(slog.String("a", "1"))
	_ = base.With(slog.String("b", "2"))

	if len(base.attrs) != 1 {
		t.Errorf("expected receiver to keep 1 attr, got %d", len(base.attrs))
	}
}

func TestError_LogValue(t *testing.T) {
	err := NewError("schedule").
		With(slog.String("task", "profiler")).
		Wrap(errors.New("closed"))

	got := err.LogValue().Group()

	keys := make([]string, 0, len(got))
	for _, a := range got {
		keys = append(keys, a.Key)
	}

	if strings.Join(keys, ",") != "error,cause,task" {
		t.Errorf("unexpected attribute keys: %v", keys)
	}
}
