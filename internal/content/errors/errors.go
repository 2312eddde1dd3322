// Package errors provides sentinel errors for content discovery and loading.
package errors

import "errors"

var (
	// ErrContentRootNotFound indicates the configured content directory does not exist.
	ErrContentRootNotFound = errors.New("content root not found")

	// ErrContentRootNotDir indicates the content root exists but is not a directory.
	ErrContentRootNotDir = errors.New("content root is not a directory")

	// ErrWalkFailed indicates traversal of the content tree failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a source document failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrInvalidEncoding indicates a source document is not valid UTF-8.
	ErrInvalidEncoding = errors.New("content file is not valid UTF-8")

	// ErrInvalidRelativePath indicates a path could not be made relative to the content root.
	ErrInvalidRelativePath = errors.New("invalid relative path calculation")
)
