// Package crypt encrypts archived gazette PDFs at rest with AES-GCM, the
// key derived from an operator passphrase.
package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha1"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

type FileCrypt struct {
	gcm cipher.AEAD
}

func New(passphrase string) (*FileCrypt, error) {
	dk := pbkdf2.Key([]byte(passphrase), nil, 4096, 32, sha1.New)

	c, err := aes.NewCipher(dk)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(c)
	if err != nil {
		return nil, err
	}
	return &FileCrypt{gcm: gcm}, nil
}

func (f *FileCrypt) Encrypt(input io.Reader) (io.ReadSeeker, error) {
	// The nonce needs to be unique, not secret; it prefixes the ciphertext.
	nonce := make([]byte, f.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	plain, err := io.ReadAll(input)
	if err != nil {
		return nil, err
	}

	cipherText := f.gcm.Seal(nil, nonce, plain, nil)
	return bytes.NewReader(append(nonce, cipherText...)), nil
}

func (f *FileCrypt) Decrypt(input io.Reader) (io.ReadSeeker, error) {
	nonce := make([]byte, f.gcm.NonceSize())
	if _, err := io.ReadFull(input, nonce); err != nil {
		return nil, err
	}

	cipherText := bytes.NewBuffer(nil)
	if _, err := io.Copy(cipherText, input); err != nil {
		return nil, err
	}

	plain, err := f.gcm.Open(nil, nonce, cipherText.Bytes(), nil)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(plain), nil
}
