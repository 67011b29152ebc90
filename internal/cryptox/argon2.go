// Package cryptox is the only place where plaintext secrets (passwords and
// biometric keys) are transformed for storage or compared against stored
// values. Secrets are hashed with Argon2id and encoded in PHC string format:
//
//	$argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
//
// Salt and hash use unpadded standard base64, the same encoding produced by the
// reference argon2 implementation, so hashes created elsewhere verify here.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"

	minMemoryKiB   uint32 = 8 * 1024
	minIterations  uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16
)

var b64 = base64.RawStdEncoding

// Argon2Params are the cost parameters used when hashing new secrets.
// Verification always uses the parameters embedded in the stored hash.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultArgon2Params returns 64 MiB, 3 passes, 4 lanes, 16 byte salt and
// 32 byte key.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Argon2Params) validate() error {
	switch {
	case p.Memory < minMemoryKiB:
		return fmt.Errorf("argon2 memory must be >= %d KiB", minMemoryKiB)
	case p.Iterations < minIterations:
		return fmt.Errorf("argon2 iterations must be >= %d", minIterations)
	case p.Parallelism < minParallelism:
		return fmt.Errorf("argon2 parallelism must be >= %d", minParallelism)
	case p.SaltLength < minSaltLength:
		return fmt.Errorf("argon2 salt length must be >= %d", minSaltLength)
	case p.KeyLength < minKeyLength:
		return fmt.Errorf("argon2 key length must be >= %d", minKeyLength)
	}
	return nil
}

// Argon2Hasher hashes and verifies secrets. It holds no mutable state and is
// safe for concurrent use.
type Argon2Hasher struct {
	params Argon2Params
}

func NewArgon2Hasher(p Argon2Params) (*Argon2Hasher, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Argon2Hasher{params: p}, nil
}

// Params returns the parameters used for new hashes.
func (h *Argon2Hasher) Params() Argon2Params {
	return h.params
}

// Hash derives an Argon2id key from secret with a fresh random salt.
// Two calls with the same secret return different strings.
func (h *Argon2Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", common.ErrEmptySecret
	}

	salt, err := common.GenerateRandBytes(int(h.params.SaltLength))
	if err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.params.Iterations, h.params.Memory, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.params.Memory,
		h.params.Iterations,
		h.params.Parallelism,
		b64.EncodeToString(salt),
		b64.EncodeToString(key),
	), nil
}

// Verify reports whether candidate matches the stored hash. A wrong secret is
// (false, nil); an error is returned only when encoded cannot be parsed.
func (h *Argon2Hasher) Verify(encoded, candidate string) (bool, error) {
	phc, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(candidate), phc.salt, phc.params.Iterations, phc.params.Memory, phc.params.Parallelism, phc.params.KeyLength)

	return subtle.ConstantTimeCompare(computed, phc.key) == 1, nil
}

// NeedsRehash reports whether encoded was produced with weaker parameters than
// the hasher currently uses.
func (h *Argon2Hasher) NeedsRehash(encoded string) (bool, error) {
	phc, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	p := phc.params
	return p.Memory < h.params.Memory ||
		p.Iterations < h.params.Iterations ||
		p.Parallelism < h.params.Parallelism ||
		p.KeyLength < h.params.KeyLength, nil
}

type phcHash struct {
	params Argon2Params
	salt   []byte
	key    []byte
}

func malformed(reason string) error {
	return fmt.Errorf("%w: %s", common.ErrMalformedHash, reason)
}

func parsePHC(encoded string) (*phcHash, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, malformed("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, malformed("unsupported algorithm " + strconv.Quote(parts[1]))
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, malformed("missing version")
	}
	if v, err := strconv.Atoi(version); err != nil || v != argon2.Version {
		return nil, malformed("unsupported version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return nil, malformed("invalid salt encoding")
	}
	if len(salt) == 0 {
		return nil, malformed("empty salt")
	}

	key, err := b64.DecodeString(parts[5])
	if err != nil {
		return nil, malformed("invalid hash encoding")
	}
	if len(key) == 0 {
		return nil, malformed("empty hash")
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	return &phcHash{params: params, salt: salt, key: key}, nil
}

func parseParams(s string) (Argon2Params, error) {
	var (
		p                   Argon2Params
		seenM, seenT, seenP bool
	)

	pairs := strings.Split(s, ",")
	if len(pairs) != 3 {
		return p, malformed("invalid parameter list")
	}

	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return p, malformed("invalid parameter entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return p, malformed("invalid memory parameter")
			}
			p.Memory, seenM = uint32(n), true
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return p, malformed("invalid iterations parameter")
			}
			p.Iterations, seenT = uint32(n), true
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n == 0 {
				return p, malformed("invalid parallelism parameter")
			}
			p.Parallelism, seenP = uint8(n), true
		default:
			return p, malformed("unknown parameter " + strconv.Quote(k))
		}
	}

	if !seenM || !seenT || !seenP {
		return p, malformed("missing parameters")
	}
	return p, nil
}
