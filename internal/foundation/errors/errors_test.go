package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryDocument, "invalid header").
			WithSeverity(SeverityFatal).
			WithContext("path", "source/shio.md").
			Build()

		if err.Category() != CategoryDocument {
			t.Errorf("expected category %s, got %s", CategoryDocument, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid header" {
			t.Errorf("expected message 'invalid header', got %s", err.Message())
		}

		path, exists := err.Context()["path"]
		if !exists || path != "source/shio.md" {
			t.Errorf("expected context path=source/shio.md, got %v", path)
		}
	})

	t.Run("Wrapped classified error is found through fmt wrapping", func(t *testing.T) {
		cause := errors.New("permission denied")
		inner := WrapError(cause, CategoryFileSystem, "write page").Build()
		outer := fmt.Errorf("stage write: %w", inner)

		if _, ok := AsClassified(outer); !ok {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(outer, CategoryFileSystem) {
			t.Error("expected filesystem category")
		}
		if !errors.Is(outer, cause) {
			t.Error("expected errors.Is to reach the cause")
		}
	})

	t.Run("Unclassified errors fall back to internal", func(t *testing.T) {
		if got := GetCategory(errors.New("boom")); got != CategoryInternal {
			t.Errorf("expected %s, got %s", CategoryInternal, got)
		}
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := EnvironmentError("please provide a source directory").Build()
		withPath := base.WithContext("path", "source")

		if _, ok := base.Context()["path"]; ok {
			t.Error("expected original context to stay untouched")
		}
		if p, _ := withPath.Context()["path"]; p != "source" {
			t.Errorf("expected path=source, got %q", p)
		}
	})

	t.Run("Detail lists context in key order", func(t *testing.T) {
		err := WrapError(errors.New("eof"), CategoryDocument, "invalid header").
			WithContext("path", "a.md").
			WithContext("field", "name").
			Build()

		want := "invalid header field=name path=a.md: eof"
		if got := err.Detail(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
	}{
		{"EnvironmentError", EnvironmentError("test"), CategoryEnvironment},
		{"DocumentError", DocumentError("test"), CategoryDocument},
		{"ConfigError", ConfigError("test"), CategoryConfig},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem},
		{"RenderError", RenderError("test"), CategoryRender},
		{"InternalError", InternalError("test"), CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != SeverityFatal {
				t.Errorf("expected %s to be fatal", tt.name)
			}
		})
	}
}
