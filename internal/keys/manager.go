package keys

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"
)

// Errors callers branch on.
var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyExists   = errors.New("key already exists")
)

// Key holds metadata for one stored operator key. Private material
// lives in the keystore; only the reference is persisted here.
type Key struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Scheme    string `json:"scheme"`
	KeyRef    string `json:"keyRef"`
	IsDefault bool   `json:"isDefault,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// MetaStore persists key metadata.
type MetaStore interface {
	Load() ([]*Key, error)
	Save([]*Key) error
}

// Manager handles key CRUD over a metadata store plus a keystore.
type Manager struct {
	meta   MetaStore
	store  Store
	keys   map[string]*Key
	loaded bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetaStore sets the metadata store.
func WithMetaStore(s MetaStore) Option {
	return func(m *Manager) { m.meta = s }
}

// WithKeystore sets the private key store.
func WithKeystore(s Store) Option {
	return func(m *Manager) { m.store = s }
}

// NewManager creates a key manager. Defaults to in-memory storage,
// which tests rely on.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		keys:  make(map[string]*Key),
		meta:  &memMetaStore{},
		store: NewInMemoryKeystore(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add stores a keypair under name and persists its metadata.
func (m *Manager) Add(name string, kp *Keypair) (*Key, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	if _, exists := m.keys[name]; exists {
		return nil, ErrKeyExists
	}

	ref, err := m.store.Store(name, kp.PrivateKeyHex())
	if err != nil {
		return nil, fmt.Errorf("storing key: %w", err)
	}

	k := &Key{
		Name:      name,
		Address:   kp.Address(),
		Scheme:    kp.Scheme(),
		KeyRef:    ref,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.keys[name] = k
	return k, m.persist()
}

// Get returns key metadata by name.
func (m *Manager) Get(name string) (*Key, error) {
	if err := m.load(); err != nil {
		return nil, err
	}
	k, ok := m.keys[name]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return k, nil
}

// Keypair rebuilds the signing keypair for a stored key.
func (m *Manager) Keypair(name string) (*Keypair, error) {
	k, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	hexKey, err := m.store.Retrieve(k.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key %q: %w", name, err)
	}
	return FromHex(k.Scheme, hexKey)
}

// Remove deletes a key and its stored material.
func (m *Manager) Remove(name string) error {
	if err := m.load(); err != nil {
		return err
	}
	k, ok := m.keys[name]
	if !ok {
		return ErrKeyNotFound
	}
	if err := m.store.Delete(k.KeyRef); err != nil {
		return fmt.Errorf("deleting key material: %w", err)
	}
	delete(m.keys, name)
	return m.persist()
}

// List returns all keys sorted by name.
func (m *Manager) List() []*Key {
	m.load() //nolint:errcheck
	out := make([]*Key, 0, len(m.keys))
	for _, k := range m.keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// --- internal ---

func (m *Manager) load() error {
	if m.loaded {
		return nil
	}
	list, err := m.meta.Load()
	if err != nil {
		return err
	}
	for _, k := range list {
		m.keys[k.Name] = k
	}
	m.loaded = true
	return nil
}

func (m *Manager) persist() error {
	list := make([]*Key, 0, len(m.keys))
	for _, k := range m.keys {
		list = append(list, k)
	}
	return m.meta.Save(list)
}

// --- stores ---

type memMetaStore struct {
	keys []*Key
}

func (s *memMetaStore) Load() ([]*Key, error) { return s.keys, nil }
func (s *memMetaStore) Save(k []*Key) error   { s.keys = k; return nil }

// JSONMetaStore persists key metadata to a JSON file.
type JSONMetaStore struct {
	path string
}

// NewJSONMetaStore creates a JSON-backed metadata store.
func NewJSONMetaStore(path string) *JSONMetaStore {
	return &JSONMetaStore{path: path}
}

func (s *JSONMetaStore) Load() ([]*Key, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []*Key
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *JSONMetaStore) Save(list []*Key) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
