package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const nonceSize = 12

// Hooks for tests.
var (
	defaultKeySource           = DefaultKeySource
	fileWriteFile              = os.WriteFile
	fileMarshal                = json.Marshal
	fileRandReader   io.Reader = rand.Reader
	fileNewGCM                 = cipher.NewGCM
)

// Default opens the store at DefaultPath with the DefaultKeySource key.
func Default() (*FileStore, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Open returns a store at path keyed by DefaultKeySource.
func Open(path string) (*FileStore, error) {
	key, err := defaultKeySource()
	if err != nil {
		return nil, err
	}
	return OpenWithKey(path, key)
}

// OpenWithKey returns a store at path with an explicit 32-byte key.
func OpenWithKey(path string, key []byte) (*FileStore, error) {
	if len(key) != 32 {
		return nil, errors.New("secrets: key must be 32 bytes")
	}
	return &FileStore{path: path, key: key}, nil
}

// FileStore is a Manager backed by one AES-GCM encrypted JSON map.
// The file is nonce || ciphertext.
type FileStore struct {
	path string
	key  []byte
}

var _ Manager = (*FileStore)(nil)

// Path returns the file location.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Get(key string) (string, error) {
	m, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := m[key]
	if !ok || v == "" {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *FileStore) Set(key, value string) error {
	m, err := f.load()
	if err != nil {
		return err
	}
	m[key] = value
	return f.store(m)
}

func (f *FileStore) Delete(key string) error {
	m, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return nil
	}
	delete(m, key)
	return f.store(m)
}

func (f *FileStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(f.key)
	if err != nil {
		return nil, err
	}
	return fileNewGCM(block)
}

// load returns the decrypted map. A missing file is an empty map.
func (f *FileStore) load() (map[string]string, error) {
	m := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return nil, fmt.Errorf("secrets read: %w", err)
	}
	if len(data) < nonceSize {
		return nil, fmt.Errorf("%w: file truncated", ErrUnreadable)
	}
	aead, err := f.gcm()
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := json.Unmarshal(plain, &m); err != nil {
		return nil, fmt.Errorf("secrets parse: %w", err)
	}
	return m, nil
}

func (f *FileStore) store(m map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("secrets mkdir: %w", err)
	}
	plain, err := fileMarshal(m)
	if err != nil {
		return err
	}
	aead, err := f.gcm()
	if err != nil {
		return err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(fileRandReader, nonce); err != nil {
		return err
	}
	return fileWriteFile(f.path, aead.Seal(nonce, nonce, plain, nil), 0o600)
}
