// Package cryptox implements salted one-way password hashing for stored
// identities. Hashing is deterministic for a given (password, salt) pair,
// which is what makes verification possible without ever decoding a hash.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/dmitrijs2005/movievault/internal/common"
	"golang.org/x/crypto/argon2"
)

// SaltLength is the number of random bytes generated for a fresh salt.
// Supplied salts shorter than this are rejected.
const SaltLength = 16

// argon2id parameters, fixed so that stored hashes stay verifiable.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// Hash derives a hex-encoded argon2id hash of password. If salt is nil a
// fresh random salt of SaltLength bytes is generated. The salt actually
// used is returned alongside the hash and must be stored with it.
func Hash(password string, salt []byte) (string, []byte, error) {
	if password == "" {
		return "", nil, fmt.Errorf("%w: empty password", common.ErrorValidation)
	}
	if salt == nil {
		salt = make([]byte, SaltLength)
		if _, err := rand.Read(salt); err != nil {
			return "", nil, fmt.Errorf("generating salt: %w", err)
		}
	} else if len(salt) < SaltLength {
		return "", nil, fmt.Errorf("%w: salt shorter than %d bytes", common.ErrorValidation, SaltLength)
	}

	key := argon2.IDKey([]byte(password), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return hex.EncodeToString(key), salt, nil
}

// Verify recomputes the hash of candidate with the stored salt and compares
// it to the stored hash in constant time.
func Verify(candidate string, storedHash string, salt []byte) bool {
	if candidate == "" || storedHash == "" || len(salt) < SaltLength {
		return false
	}
	key := argon2.IDKey([]byte(candidate), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare([]byte(hex.EncodeToString(key)), []byte(storedHash)) == 1
}
