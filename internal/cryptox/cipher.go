// Package cryptox implements the encryption-at-rest layer for stored
// credential secrets: AES-256-CBC under a key derived once from the operator
// secret, with a self-describing "<ivHex>:<cipherHex>" token encoding.
package cryptox

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// ErrDecryptionFailed is returned for any token that cannot be decrypted:
// missing delimiter, non-hex content, wrong IV length, truncated ciphertext,
// or ciphertext not produced under the current key. Callers must treat it as
// terminal for the record; corrupted plaintext is never returned.
var ErrDecryptionFailed = errors.New("decryption failed")

// kdfSalt is fixed on purpose: the slow KDF protects the operator secret,
// not per-record data. Changing it invalidates every stored token.
const kdfSalt = "salt"

const ivLength = aes.BlockSize

// Cipher encrypts and decrypts secret strings with a process-wide symmetric
// key. The key is derived once in NewCipher and never regenerated, so a
// Cipher is safe for concurrent use.
type Cipher struct {
	key []byte
}

// NewCipher derives a 32-byte AES key from the operator-supplied secret using
// scrypt (N=16384, r=8, p=1) and a fixed salt. An empty secret is rejected.
func NewCipher(secret string) (*Cipher, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is empty")
	}

	key, err := scrypt.Key([]byte(secret), []byte(kdfSalt), 16384, 8, 1, 32)
	if err != nil {
		return nil, fmt.Errorf("key derivation error: %w", err)
	}

	return &Cipher{key: key}, nil
}

// Encrypt encrypts plaintext under a fresh random 16-byte IV and returns a
// token of the form "<ivHex>:<cipherHex>". Two calls with the same input
// produce different tokens.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", err
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. Hex digits never contain the delimiter, so the
// split is unambiguous.
func (c *Cipher) Decrypt(token string) (string, error) {
	ivHex, cipherHex, ok := strings.Cut(token, ":")
	if !ok {
		return "", ErrDecryptionFailed
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivLength {
		return "", ErrDecryptionFailed
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrDecryptionFailed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding byte")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-n], nil
}
