package codenotes

import _ "embed"

// Version is the release of the library.
//
//go:embed VERSION
var Version string
