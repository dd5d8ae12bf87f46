// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"
)

// ErrNoPassphrase is returned when an encrypted document needs a passphrase
// and none could be obtained.
var ErrNoPassphrase = errors.New("document is encrypted and no passphrase is available")

// IsEncrypted reports whether data is an OpenTofu encrypted state envelope.
func IsEncrypted(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	return gjson.GetBytes(data, "encrypted_data").Exists() && gjson.GetBytes(data, "meta").IsObject()
}

// keyProvider is the decoded pbkdf2 key provider configuration.
type keyProvider struct {
	Salt       string `json:"salt"`
	Iterations int    `json:"iterations"`
	HashFunc   string `json:"hash_function"`
	KeyLength  int    `json:"key_length"`
}

// DecryptOpenTofuState decrypts an OpenTofu encrypted state or plan envelope
// protected by a pbkdf2 key provider.
func DecryptOpenTofuState(stateData []byte, passphrase string) ([]byte, error) {
	var envelope struct {
		Meta          map[string]string `json:"meta"`
		EncryptedData string            `json:"encrypted_data"`
	}
	if err := json.Unmarshal(stateData, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse state: %w", err)
	}

	// The meta key is named after the provider block, key_provider.pbkdf2.<name>.
	var encodedConfig string
	for k, v := range envelope.Meta {
		if strings.HasPrefix(k, "key_provider.pbkdf2.") {
			encodedConfig = v
			break
		}
	}
	if encodedConfig == "" {
		return nil, errors.New("no pbkdf2 key provider in state metadata")
	}

	rawConfig, err := base64.StdEncoding.DecodeString(encodedConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key provider config: %w", err)
	}

	var kp keyProvider
	if err = json.Unmarshal(rawConfig, &kp); err != nil {
		return nil, fmt.Errorf("failed to parse key provider config: %w", err)
	}

	salt, err := base64.StdEncoding.DecodeString(kp.Salt)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}

	var newHash func() hash.Hash
	switch strings.ToLower(kp.HashFunc) {
	case "", "sha512":
		newHash = sha512.New
	case "sha256":
		newHash = sha256.New
	default:
		return nil, fmt.Errorf("unsupported pbkdf2 hash function %q", kp.HashFunc)
	}

	key := pbkdf2.Key([]byte(passphrase), salt, kp.Iterations, kp.KeyLength, newHash)
	return decryptState(envelope.EncryptedData, key)
}

func decryptState(encryptedData string, derivedKey []byte) ([]byte, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short: expected at least %d bytes, got %d", nonceSize, len(ciphertext))
	}

	plaintext, err := aesGCM.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt: %w", err)
	}
	return plaintext, nil
}

// PromptPassphrase reads a passphrase from the controlling terminal without
// echo. The prompt goes to stderr because stdout carries the diff.
func PromptPassphrase(name string) (string, error) {
	fd := int(os.Stdin.Fd()) //nolint:gosec
	if !term.IsTerminal(fd) {
		return "", ErrNoPassphrase
	}
	return readPassphrase(os.Stderr, name, func() ([]byte, error) {
		return term.ReadPassword(fd)
	})
}

func readPassphrase(w io.Writer, name string, read func() ([]byte, error)) (string, error) {
	fmt.Fprintf(w, "Enter passphrase for %s: ", name)
	defer fmt.Fprintln(w)

	pw, err := read()
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(pw), nil
}
