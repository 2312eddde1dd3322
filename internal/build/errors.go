package build

import "errors"

// Sentinel errors for setup failures. They are wrapped with context at the
// call site.
var (
	ErrContentRootMissing = errors.New("simplessg: content directory not found")
	ErrTemplateMissing    = errors.New("simplessg: template not found")
	ErrOutputSetup        = errors.New("simplessg: output directory setup failed")
)
