// Package auth provides the one-way password digest used for stored credentials.
package auth

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a supported digest function.
type Algorithm string

// Supported digest algorithms.
const (
	SHA1       Algorithm = "sha1"
	SHA256     Algorithm = "sha256"
	SHA3_256   Algorithm = "sha3-256"
	BLAKE2b256 Algorithm = "blake2b-256"
)

// DefaultAlgorithm keeps digests compatible with existing stored passwords.
const DefaultAlgorithm = SHA1

// ErrUnknownAlgorithm indicates the configured algorithm is not supported.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")

var constructors = map[Algorithm]func() hash.Hash{
	SHA1:     sha1.New,
	SHA256:   sha256.New,
	SHA3_256: sha3.New256,
	BLAKE2b256: func() hash.Hash {
		// New256 only fails for keys longer than 64 bytes.
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Digester computes unsalted, deterministic hex digests of plaintext passwords.
type Digester struct {
	alg     Algorithm
	newHash func() hash.Hash
}

// NewDigester returns a Digester for the named algorithm.
// An empty name selects DefaultAlgorithm.
func NewDigester(name string) (*Digester, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if alg == "" {
		alg = DefaultAlgorithm
	}

	newHash, ok := constructors[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}

	return &Digester{alg: alg, newHash: newHash}, nil
}

// IsSupported reports whether name is a known algorithm.
func IsSupported(name string) bool {
	_, err := NewDigester(name)
	return err == nil
}

// Algorithm returns the digest algorithm in use.
func (d *Digester) Algorithm() Algorithm {
	return d.alg
}

// Digest returns the lowercase hexadecimal digest of plaintext.
// The output length is fixed per algorithm (40 chars for sha1, 64 for the others).
func (d *Digester) Digest(plaintext string) string {
	h := d.newHash()
	h.Write([]byte(plaintext))
	return hex.EncodeToString(h.Sum(nil))
}
