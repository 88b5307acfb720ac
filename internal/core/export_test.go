package core

// IsShared exposes isShared to the external test package.
//
//nolint:gochecknoglobals // test-only export
var IsShared = isShared
