package keys

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAddGetRemove(t *testing.T) {
	m := NewManager()
	kp, err := Generate(SchemeEd25519)
	require.NoError(t, err)

	k, err := m.Add("deployer", kp)
	require.NoError(t, err)
	assert.Equal(t, "deployer", k.Name)
	assert.Equal(t, kp.Address(), k.Address)
	assert.Equal(t, SchemeEd25519, k.Scheme)
	assert.NotEmpty(t, k.KeyRef)
	assert.NotEmpty(t, k.CreatedAt)

	got, err := m.Get("deployer")
	require.NoError(t, err)
	assert.Equal(t, k, got)

	require.NoError(t, m.Remove("deployer"))
	_, err = m.Get("deployer")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestManagerDuplicateName(t *testing.T) {
	m := NewManager()
	kp, err := Generate(SchemeEd25519)
	require.NoError(t, err)

	_, err = m.Add("ops", kp)
	require.NoError(t, err)
	_, err = m.Add("ops", kp)
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestManagerKeypairRoundTrip(t *testing.T) {
	m := NewManager()
	kp, err := Generate(SchemeSecp256k1)
	require.NoError(t, err)

	_, err = m.Add("minter", kp)
	require.NoError(t, err)

	rebuilt, err := m.Keypair("minter")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), rebuilt.Address())
	assert.Equal(t, SchemeSecp256k1, rebuilt.Scheme())
}

func TestManagerListSorted(t *testing.T) {
	m := NewManager()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		kp, err := Generate(SchemeEd25519)
		require.NoError(t, err)
		_, err = m.Add(name, kp)
		require.NoError(t, err)
	}

	list := m.List()
	require.Len(t, list, 3)
	assert.Equal(t, "alpha", list[0].Name)
	assert.Equal(t, "mid", list[1].Name)
	assert.Equal(t, "zeta", list[2].Name)
}

func TestManagerRemoveUnknown(t *testing.T) {
	m := NewManager()
	assert.ErrorIs(t, m.Remove("ghost"), ErrKeyNotFound)
}

func TestJSONMetaStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.json")
	store := NewJSONMetaStore(path)

	m := NewManager(WithMetaStore(store))
	kp, err := Generate(SchemeEd25519)
	require.NoError(t, err)
	_, err = m.Add("persisted", kp)
	require.NoError(t, err)

	// A fresh manager over the same file sees the metadata.
	reloaded := NewManager(WithMetaStore(NewJSONMetaStore(path)))
	k, err := reloaded.Get("persisted")
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), k.Address)
}

func TestJSONMetaStoreMissingFile(t *testing.T) {
	store := NewJSONMetaStore(filepath.Join(t.TempDir(), "absent.json"))
	list, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInMemoryKeystore(t *testing.T) {
	ks := NewInMemoryKeystore()
	ref, err := ks.Store("ops", "0xdeadbeef")
	require.NoError(t, err)

	v, err := ks.Retrieve(ref)
	require.NoError(t, err)
	assert.Equal(t, "0xdeadbeef", v)

	require.NoError(t, ks.Delete(ref))
	_, err = ks.Retrieve(ref)
	assert.Error(t, err)
}
