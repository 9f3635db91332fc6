// Package cryptox derives login verifiers from account passwords.
//
// The server never sees a password: the client derives a master key with
// Argon2id from the password and a per-user salt, and sends only a SHA-256
// verifier of that key.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// SaltSize is the length in bytes of a freshly generated salt.
	SaltSize = 16
	// KeySize is the length in bytes of the derived master key.
	KeySize = 32
)

// NewSalt returns a random salt for DeriveMasterKey.
func NewSalt() []byte {
	return common.GenerateRandByteArray(SaltSize)
}

func DeriveMasterKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, KeySize)
}

func MakeVerifier(masterKey []byte) []byte {
	hash := sha256.Sum256(masterKey)
	return hash[:]
}

// VerifierFromPassword is DeriveMasterKey followed by MakeVerifier; the
// intermediate key is wiped before returning.
func VerifierFromPassword(password, salt []byte) []byte {
	key := DeriveMasterKey(password, salt)
	defer common.WipeByteArray(key)
	return MakeVerifier(key)
}

// VerifiersEqual compares two verifiers in constant time.
func VerifiersEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
