// Package errors provides the classified error type used across simple-ssg.
//
// A ClassifiedError carries a category (config, filesystem, content, render,
// artifact, ...), a severity and free-form context. The build treats fatal
// errors as aborting, error severity as a per-document failure and warnings
// as log-only. CLIErrorAdapter turns them into exit codes and messages.
//
//	err := errors.NewError(errors.CategoryContent, "invalid utf-8").
//		WithContext("file", path).
//		WithCause(cause).
//		Build()
package errors
