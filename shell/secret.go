package shell

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Pickup secrets protect the physical handover: the patron must present the
// plaintext from their notification, and only the argon2id hash is stored.

const (
	secretLenBytes = 16
	saltLenBytes   = 16

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// NewPickupSecret generates a random one-time pickup secret.
func NewPickupSecret() (string, error) {
	raw := make([]byte, secretLenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate pickup secret: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// HashPickupSecret generates a salted argon2id hash of the secret, encoded as
// a single storable string.
func HashPickupSecret(secret string) (string, error) {
	salt := make([]byte, saltLenBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return base64.StdEncoding.EncodeToString(salt) + "$" + base64.StdEncoding.EncodeToString(hash), nil
}

// VerifyPickupSecret compares a presented secret against a stored hash in
// constant time. A malformed stored hash verifies as false, never as a match.
func VerifyPickupSecret(presented string, stored string) bool {
	salt64, hash64, found := strings.Cut(stored, "$")
	if !found {
		return false
	}

	salt, err := base64.StdEncoding.DecodeString(salt64)
	if err != nil {
		return false
	}

	hash, err := base64.StdEncoding.DecodeString(hash64)
	if err != nil {
		return false
	}

	comparison := argon2.IDKey([]byte(presented), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(hash, comparison) == 1
}
