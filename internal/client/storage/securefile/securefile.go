// Package securefile keeps session data in a single file sealed with
// AES-256-GCM. The key is derived from a passphrase with argon2id; the salt
// travels in the file header:
//
//	magic "DBS1" | 16-byte salt | nonce+ciphertext of a JSON object
//
// Every write rewrites the whole file through an atomic rename.
package securefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/dmitrijs2005/desabantuin/internal/client/storage"
	"github.com/dmitrijs2005/desabantuin/internal/common"
	"github.com/dmitrijs2005/desabantuin/internal/cryptox"
	"github.com/dmitrijs2005/desabantuin/internal/filex"
)

var magic = []byte("DBS1")

var (
	ErrEmptyPassphrase = errors.New("securefile: empty passphrase")
	ErrBadFormat       = errors.New("securefile: unrecognised file format")
	ErrDecrypt         = errors.New("securefile: cannot decrypt (wrong passphrase or corrupted file)")
)

type Backend struct {
	path       string
	passphrase []byte

	// salt and key of the file as last read or written; nil until then.
	salt []byte
	key  []byte

	mu sync.Mutex
}

// New returns a store at path. The file is not touched until the first
// read or write, so a missing, foreign or undecryptable file surfaces as an
// error from Get and Update rather than here.
func New(path string, passphrase []byte) (*Backend, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	return &Backend{path: path, passphrase: append([]byte{}, passphrase...)}, nil
}

func splitHeader(raw []byte) (salt, sealed []byte, err error) {
	if len(raw) < len(magic)+cryptox.SaltSize || !bytes.Equal(raw[:len(magic)], magic) {
		return nil, nil, ErrBadFormat
	}
	rest := raw[len(magic):]
	return rest[:cryptox.SaltSize], rest[cryptox.SaltSize:], nil
}

// useSalt switches to the key for salt, deriving it only when salt changed.
func (b *Backend) useSalt(salt []byte) {
	if b.key != nil && bytes.Equal(salt, b.salt) {
		return
	}
	b.salt = append([]byte{}, salt...)
	b.key = cryptox.DeriveKey(b.passphrase, b.salt)
}

// load reads the file on every call and takes its salt from the header, so
// instances sharing a path follow each other's writes. A missing file reads
// as empty and the next write picks a fresh salt.
func (b *Backend) load() (map[string][]byte, error) {
	raw, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		b.salt, b.key = nil, nil
		return map[string][]byte{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("securefile: read %s: %w", b.path, err)
	}

	salt, sealed, err := splitHeader(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, b.path)
	}
	b.useSalt(salt)

	data := map[string][]byte{}
	if err := cryptox.OpenJSON(sealed, b.key, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return data, nil
}

func (b *Backend) store(data map[string][]byte) error {
	if b.key == nil {
		b.useSalt(common.GenerateRandByteArray(cryptox.SaltSize))
	}

	sealed, err := cryptox.SealJSON(data, b.key)
	if err != nil {
		return fmt.Errorf("securefile: seal: %w", err)
	}

	out := make([]byte, 0, len(magic)+len(b.salt)+len(sealed))
	out = append(out, magic...)
	out = append(out, b.salt...)
	out = append(out, sealed...)

	if err := filex.WriteFileAtomic(b.path, out, 0o600); err != nil {
		return fmt.Errorf("securefile: %w", err)
	}
	return nil
}

func (b *Backend) Get(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.load()
	if err != nil {
		return nil, err
	}
	return data[key], nil
}

func (b *Backend) Set(ctx context.Context, key string, value []byte) error {
	return b.Update(ctx, func(ctx context.Context, tx storage.Backend) error {
		return tx.Set(ctx, key, value)
	})
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	return b.Update(ctx, func(ctx context.Context, tx storage.Backend) error {
		return tx.Delete(ctx, key)
	})
}

// Update applies fn to the decrypted contents and rewrites the file once.
// A file that cannot be decrypted with this passphrase, or is not a
// session file at all, is treated as empty and overwritten by the first
// write.
func (b *Backend) Update(ctx context.Context, fn func(ctx context.Context, tx storage.Backend) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := b.load()
	switch {
	case errors.Is(err, ErrBadFormat), errors.Is(err, ErrDecrypt):
		// Unreadable contents are replaced wholesale under a fresh salt.
		data = map[string][]byte{}
		b.salt, b.key = nil, nil
	case err != nil:
		return err
	}

	staged := &mapBackend{data: data}
	if err := fn(ctx, staged); err != nil {
		return err
	}
	if !staged.dirty {
		return nil
	}
	return b.store(staged.data)
}

// mapBackend is the in-memory view handed to Update callbacks.
type mapBackend struct {
	data  map[string][]byte
	dirty bool
}

func (m *mapBackend) Get(_ context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *mapBackend) Set(_ context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	m.data[key] = append([]byte{}, value...)
	m.dirty = true
	return nil
}

func (m *mapBackend) Delete(_ context.Context, key string) error {
	if _, ok := m.data[key]; ok {
		delete(m.data, key)
		m.dirty = true
	}
	return nil
}
