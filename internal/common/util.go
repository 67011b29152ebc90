package common

import (
	"crypto/rand"
	"io"
)

// randReader is a test seam for the system CSPRNG.
var randReader io.Reader = rand.Reader

// GenerateRandBytes returns n cryptographically random bytes.
func GenerateRandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(randReader, b); err != nil {
		return nil, err
	}
	return b, nil
}

// WipeByteArray overwrites the contents of the provided byte slice with zeros.
// It is used to drop plaintext secrets read from the terminal.
//
// If the slice is nil, the function does nothing.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
