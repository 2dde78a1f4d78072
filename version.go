package brainloop

import _ "embed"

// Version is the release of the brainloop module, read from the VERSION file.
//
//go:embed VERSION
var Version string
