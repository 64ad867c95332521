// Package password provides one-way hashing and verification of user passwords.
//
// Digests are self-describing: each one carries the tag of the scheme that produced it
// ("$argon2id$..." PHC strings or "$2a$..." bcrypt strings), so Verify keeps working for
// stored digests after the configured scheme changes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// Scheme identifies a password hashing algorithm.
type Scheme string

const (
	// SchemeArgon2id produces PHC-formatted Argon2id digests.
	SchemeArgon2id Scheme = "argon2id"
	// SchemeBcrypt produces modular-crypt bcrypt digests.
	SchemeBcrypt Scheme = "bcrypt"
)

// Upper bounds applied when decoding stored Argon2id digests, so a tampered row
// cannot make Verify allocate unbounded memory or spin for minutes.
const (
	maxMemoryKiB  = 256 * 1024
	maxIterations = 10
	maxThreads    = 16
	maxKeyLength  = 128
)

// ErrUnknownScheme is returned by NewHasher for an unsupported scheme name.
var ErrUnknownScheme = errors.New("unknown password hashing scheme")

var errMalformedDigest = errors.New("malformed password digest")

// Argon2idParams defines Argon2id hashing parameters.
type Argon2idParams struct {
	MemoryKiB  uint32
	Iterations uint32
	Threads    uint8
	SaltLength uint32
	KeyLength  uint32
}

// DefaultArgon2idParams returns the parameters used for new Argon2id digests.
func DefaultArgon2idParams() Argon2idParams {
	return Argon2idParams{
		MemoryKiB:  64 * 1024,
		Iterations: 3,
		Threads:    2,
		SaltLength: 16,
		KeyLength:  32,
	}
}

// Config selects the scheme for new digests and its cost parameters.
// Zero values fall back to the defaults.
type Config struct {
	Scheme     Scheme
	Argon2id   Argon2idParams
	BcryptCost int
}

// Hasher hashes new passwords with the configured scheme and verifies digests of any
// supported scheme. It holds no mutable state and is safe for concurrent use.
type Hasher struct {
	scheme     Scheme
	argon      Argon2idParams
	bcryptCost int
}

// NewHasher creates a Hasher from cfg.
func NewHasher(cfg Config) (*Hasher, error) {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = SchemeArgon2id
	}
	if scheme != SchemeArgon2id && scheme != SchemeBcrypt {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}

	params := DefaultArgon2idParams()
	if cfg.Argon2id.MemoryKiB != 0 {
		params.MemoryKiB = cfg.Argon2id.MemoryKiB
	}
	if cfg.Argon2id.Iterations != 0 {
		params.Iterations = cfg.Argon2id.Iterations
	}
	if cfg.Argon2id.Threads != 0 {
		params.Threads = cfg.Argon2id.Threads
	}
	if cfg.Argon2id.SaltLength != 0 {
		params.SaltLength = cfg.Argon2id.SaltLength
	}
	if cfg.Argon2id.KeyLength != 0 {
		params.KeyLength = cfg.Argon2id.KeyLength
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &Hasher{scheme: scheme, argon: params, bcryptCost: cost}, nil
}

// Scheme returns the scheme used for new digests.
func (h *Hasher) Scheme() Scheme {
	return h.scheme
}

// Hash returns a salted digest of plaintext. Two calls with the same input return
// different digests; callers must compare with Verify, never with ==.
func (h *Hasher) Hash(plaintext string) (string, error) {
	switch h.scheme {
	case SchemeBcrypt:
		b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(b), nil
	default:
		return h.hashArgon2id(plaintext)
	}
}

// Verify reports whether plaintext matches digest. It returns false for mismatches,
// malformed digests and unknown schemes.
func (h *Hasher) Verify(plaintext, digest string) bool {
	switch SchemeOf(digest) {
	case SchemeArgon2id:
		ok, err := verifyArgon2id(plaintext, digest)
		return err == nil && ok
	case SchemeBcrypt:
		return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
	default:
		return false
	}
}

// NeedsRehash reports whether digest was produced by a scheme other than the configured one.
func (h *Hasher) NeedsRehash(digest string) bool {
	return SchemeOf(digest) != h.scheme
}

// SchemeOf returns the scheme tag embedded in digest, or "" if it is not recognised.
func SchemeOf(digest string) Scheme {
	switch {
	case strings.HasPrefix(digest, "$argon2id$"):
		return SchemeArgon2id
	case strings.HasPrefix(digest, "$2a$"), strings.HasPrefix(digest, "$2b$"), strings.HasPrefix(digest, "$2y$"):
		return SchemeBcrypt
	default:
		return ""
	}
}

func (h *Hasher) hashArgon2id(plaintext string) (string, error) {
	salt := make([]byte, h.argon.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.argon.Iterations, h.argon.MemoryKiB, h.argon.Threads, h.argon.KeyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.argon.MemoryKiB, h.argon.Iterations, h.argon.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func verifyArgon2id(plaintext, digest string) (bool, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	parts := strings.Split(digest, "$")
	if len(parts) != 6 {
		return false, errMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, errMalformedDigest
	}

	var p Argon2idParams
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &p.MemoryKiB, &p.Iterations, &p.Threads); err != nil {
		return false, errMalformedDigest
	}
	if p.MemoryKiB == 0 || p.MemoryKiB > maxMemoryKiB ||
		p.Iterations == 0 || p.Iterations > maxIterations ||
		p.Threads == 0 || p.Threads > maxThreads {
		return false, errMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return false, errMalformedDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > maxKeyLength {
		return false, errMalformedDigest
	}

	got := argon2.IDKey([]byte(plaintext), salt, p.Iterations, p.MemoryKiB, p.Threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
