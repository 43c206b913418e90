package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const MinPasswordLength = 6

// Argon2id cost parameters, fixed for all stored credentials.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	argonSaltLen = 16
)

// HashPassword derives a one-way argon2id credential in PHC string format.
// The secret itself is never persisted.
func HashPassword(secret string) (string, error) {
	salt := make([]byte, argonSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("unable to generate salt: %v", err)
	}

	key := argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether secret matches the encoded credential.
// It never fails loudly; malformed credentials simply verify as false.
func VerifyPassword(encoded string, secret string) bool {
	segments := strings.Split(encoded, "$")
	if len(segments) != 6 || segments[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(segments[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(segments[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(segments[4])
	if err != nil {
		return false
	}
	key, err := base64.RawStdEncoding.DecodeString(segments[5])
	if err != nil {
		return false
	}

	derived := argon2.IDKey([]byte(secret), salt, time, memory, threads, uint32(len(key)))

	return subtle.ConstantTimeCompare(derived, key) == 1
}
