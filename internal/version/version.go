// Package version simply contains a statically-set version number for
// released builds of ictgen.
package version

// Current is the version of this build.
const Current = "0.1.0"
