package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())
		assert.Equal(t, "[config:fatal] invalid configuration", err.Error())

		file, ok := err.Context().Get("file")
		require.True(t, ok)
		assert.Equal(t, "config.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, HasSeverity(err, SeverityFatal))
		assert.False(t, err.CanRetry())
		assert.True(t, err.IsFatal())
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ContentError("invalid utf-8").WithContext("file", "a.md").Build()
		wrapped := fmt.Errorf("load: %w", inner)

		classified, ok := AsClassified(wrapped)
		require.True(t, ok)
		assert.Equal(t, CategoryContent, classified.Category())
		assert.True(t, HasCategory(wrapped, CategoryContent))
		assert.False(t, HasCategory(stderrors.New("plain"), CategoryContent))
		assert.False(t, HasSeverity(stderrors.New("plain"), SeverityError))
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := stderrors.New("original error")
		err := WrapError(originalErr, CategoryNetwork, "publish failed").
			Warning().
			Retryable().
			WithContext("subject", "simplessg.builds").
			Build()

		assert.Equal(t, CategoryNetwork, err.Category())
		assert.Equal(t, SeverityWarning, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		assert.ErrorIs(t, err, originalErr)
		assert.True(t, err.CanRetry())
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    RetryStrategy
		}{
			{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal, RetryUserAction},
			{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal, RetryUserAction},
			{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityError, RetryBackoff},
			{"ContentError", ContentError("test"), CategoryContent, SeverityError, RetryNever},
			{"RenderError", RenderError("test"), CategoryRender, SeverityError, RetryNever},
			{"ArtifactError", ArtifactError("test"), CategoryArtifact, SeverityWarning, RetryNever},
			{"BuildError", BuildError("test"), CategoryBuild, SeverityFatal, RetryNever},
			{"NetworkError", NetworkError("test"), CategoryNetwork, SeverityError, RetryBackoff},
			{"InternalError", InternalError("test"), CategoryInternal, SeverityFatal, RetryNever},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.RetryStrategy())
			})
		}
	})
}

func TestErrorContext(t *testing.T) {
	ctx := make(ErrorContext)
	ctx = ctx.Set("key1", "value1").Set("key2", 42)

	v, ok := ctx.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = ctx.Get("missing")
	assert.False(t, ok)

	var empty ErrorContext
	_, ok = empty.Get("key1")
	assert.False(t, ok)
	assert.Len(t, empty.Set("key1", "x"), 1)
}

func TestClassifiedError_LogValue(t *testing.T) {
	err := WrapError(stderrors.New("disk full"), CategoryFileSystem, "failed to write page").
		WithContext("path", "build/about.html").
		WithContext("attempt", 2).
		Build()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	logger.Error("write failed", slog.Any("error", err))

	assert.Equal(t,
		`level=ERROR msg="write failed" error.category=filesystem error.severity=error `+
			`error.message="failed to write page" error.attempt=2 error.path=build/about.html error.cause="disk full"`+"\n",
		buf.String())
}
