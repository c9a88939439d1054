package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	// Argon2id parameters for snapshot encryption.
	argon2Time        = 3
	argon2Memory      = 64 * 1024 // 64 MB
	argon2Parallelism = 4
	argon2KeyLen      = 32

	// Encryption format sizes.
	saltLen     = 16
	nonceLen    = 12
	checksumLen = 4
)

// seal encrypts a snapshot payload with Argon2id + AES-256-GCM.
//
// Output format: salt(16B) || nonce(12B) || AES-GCM(argon2id(password,salt), nonce, payload||checksum)
//
// The checksum is SHA256(payload)[:4] for verifying correct decryption.
func seal(payload []byte, password string) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("store: generate salt: %w", err)
	}

	derivedKey := argon2.IDKey([]byte(password), salt,
		argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	payloadHash := sha256.Sum256(payload)
	plaintext := make([]byte, len(payload)+checksumLen)
	copy(plaintext, payload)
	copy(plaintext[len(payload):], payloadHash[:checksumLen])

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("store: AES cipher creation failed: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("store: GCM creation failed: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("store: generate nonce: %w", err)
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	result := make([]byte, 0, saltLen+nonceLen+len(ciphertext))
	result = append(result, salt...)
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}

// open decrypts a sealed snapshot payload and verifies its checksum.
func open(sealed []byte, password string) ([]byte, error) {
	if len(sealed) < saltLen+nonceLen+checksumLen {
		return nil, ErrDecryptFailed
	}

	salt := sealed[:saltLen]
	nonce := sealed[saltLen : saltLen+nonceLen]
	ciphertext := sealed[saltLen+nonceLen:]

	derivedKey := argon2.IDKey([]byte(password), salt,
		argon2Time, argon2Memory, argon2Parallelism, argon2KeyLen)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(plaintext) < checksumLen {
		return nil, ErrDecryptFailed
	}

	payload := plaintext[:len(plaintext)-checksumLen]
	payloadHash := sha256.Sum256(payload)
	stored := plaintext[len(plaintext)-checksumLen:]
	for i := 0; i < checksumLen; i++ {
		if stored[i] != payloadHash[i] {
			return nil, ErrDecryptFailed
		}
	}
	return payload, nil
}
