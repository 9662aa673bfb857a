package flowdag

import (
	"crypto/rand"
	"fmt"
)

// runIDAlphabet is the character set run identifiers are sampled from:
// A-Z, a-z, 0-9, '-', '_'.
const runIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

// runIDLength is the fixed length of a generated run identifier.
const runIDLength = 21

// newRunID samples a runIDLength-character opaque token, uniformly over
// runIDAlphabet, using a CSPRNG. Collisions are not checked; none are
// expected at any plausible call rate.
func newRunID() string {
	buf := make([]byte, runIDLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read on any supported platform does not fail in
		// practice; a failure here indicates a broken entropy source.
		panic(fmt.Errorf("flowdag: failed to read random bytes for run id: %w", err))
	}
	id := make([]byte, runIDLength)
	for i, b := range buf {
		id[i] = runIDAlphabet[int(b)%len(runIDAlphabet)]
	}
	return string(id)
}
