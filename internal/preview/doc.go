// Package preview serves a built site locally, optionally rebuilding it when
// sources change or on a schedule.
package preview
