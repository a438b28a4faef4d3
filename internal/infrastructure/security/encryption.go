// Package security provides AES encryption utilities
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
)

// resolveKey accepts either a hex-encoded key or raw bytes and returns a key
// of a length AES accepts.
func resolveKey(key string) ([]byte, error) {
	var keyBytes []byte
	if len(key) == 32 || len(key) == 48 || len(key) == 64 {
		decoded, err := hex.DecodeString(key)
		if err == nil && (len(decoded) == 16 || len(decoded) == 24 || len(decoded) == 32) {
			keyBytes = decoded
		} else {
			keyBytes = []byte(key)
		}
	} else {
		keyBytes = []byte(key)
	}

	if len(keyBytes) != 16 && len(keyBytes) != 24 && len(keyBytes) != 32 {
		return nil, errors.New("invalid key length")
	}
	return keyBytes, nil
}

// Encrypt encrypts data using AES-GCM with the provided key
func Encrypt(data, key string) (string, error) {
	if len(key) == 0 {
		return "", errors.New("empty encryption key")
	}

	keyBytes, err := resolveKey(key)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts data using AES-GCM with the provided key
func Decrypt(encrypted, key string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", err
	}

	keyBytes, err := resolveKey(key)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(keyBytes)
	if err != nil {
		return "", err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("invalid ciphertext")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}
