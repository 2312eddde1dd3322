package errors

// ErrorCategory is the broad class of a failure, used for routing and exit codes.
type ErrorCategory string

const (
	// CategoryConfig covers configuration files, flags and user input.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryFileSystem covers reading sources and writing the output tree.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryContent    ErrorCategory = "content"
	CategoryRender     ErrorCategory = "render"
	CategoryArtifact   ErrorCategory = "artifact"
	CategoryBuild      ErrorCategory = "build"

	// CategoryNetwork covers optional integrations (event bus, preview server).
	CategoryNetwork    ErrorCategory = "network"
	CategoryEventStore ErrorCategory = "eventstore"

	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the build
	SeverityError   ErrorSeverity = "error"   // Fails one document or operation
	SeverityWarning ErrorSeverity = "warning" // Logged, the build continues
	SeverityInfo    ErrorSeverity = "info"
)

// RetryStrategy indicates whether repeating the operation can help.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"
	RetryImmediate  RetryStrategy = "immediate"
	RetryBackoff    RetryStrategy = "backoff"
	RetryUserAction RetryStrategy = "user"
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}
