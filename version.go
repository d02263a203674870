// Package qampsim computes a single complex amplitude <y|C|x> of an
// n-qubit circuit restricted to Hadamard, Toffoli, and diagonal phase
// gates, via three independent simulation strategies.
package qampsim

import "github.com/blang/semver/v4"

// Version is the current qampsim release.
var Version = semver.MustParse("0.1.0")
