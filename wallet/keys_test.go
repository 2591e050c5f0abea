package wallet

import (
	"crypto/sha256"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	privateKey, err := NewPrivateKey()
	require.NoError(t, err)

	hash := sha256.Sum256([]byte("sighash"))

	sig, pub, err := Sign(hash[:], privateKey)
	require.NoError(t, err)
	assert.Len(t, pub, 65)

	require.NoError(t, Verify(hash[:], pub, sig))

	other := sha256.Sum256([]byte("other"))
	require.Error(t, Verify(other[:], pub, sig))

	otherKey, err := NewPrivateKey()
	require.NoError(t, err)
	require.Error(t, Verify(hash[:], PublicKeyBytes(otherKey), sig))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	hash := sha256.Sum256([]byte("sighash"))
	require.Error(t, Verify(hash[:], []byte{1, 2, 3}, []byte{4, 5, 6}))
}

func TestPubKeyHash(t *testing.T) {
	privateKey, err := NewPrivateKey()
	require.NoError(t, err)

	pkh := PubKeyHash(PublicKeyBytes(privateKey))
	assert.Len(t, pkh, PubKeyHashLength)
	assert.Equal(t, pkh, PubKeyHash(PublicKeyBytes(privateKey)))
}

func TestAddressRoundTrip(t *testing.T) {
	privateKey, err := NewPrivateKey()
	require.NoError(t, err)

	pkh := PubKeyHash(PublicKeyBytes(privateKey))

	for _, mainnet := range []bool{true, false} {
		address, err := AddressFromPubKeyHash(pkh, mainnet)
		require.NoError(t, err)

		decoded, err := PubKeyHashFromAddress(address)
		require.NoError(t, err)
		assert.Equal(t, pkh, decoded)
	}

	_, err = PubKeyHashFromAddress("not-an-address")
	require.Error(t, err)

	_, err = AddressFromPubKeyHash([]byte{1, 2}, true)
	require.Error(t, err)
}

func TestWIFRoundTrip(t *testing.T) {
	privateKey, err := NewPrivateKey()
	require.NoError(t, err)

	decoded, err := PrivateKeyFromWIF(WIF(privateKey))
	require.NoError(t, err)
	assert.Equal(t, PublicKeyBytes(privateKey), PublicKeyBytes(decoded))

	_, err = PrivateKeyFromWIF("nope")
	require.Error(t, err)
}

func TestKeyFiles(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "keys", "wallet.wif")
	addressPath := filepath.Join(dir, "keys", "wallet.addr")

	created, err := CreateKeyFile(keyPath, addressPath, true)
	require.NoError(t, err)

	loaded, err := LoadKeyFile(keyPath, true)
	require.NoError(t, err)
	assert.Equal(t, created.Address, loaded.Address)
	assert.Equal(t, created.PubKeyHash, loaded.PubKeyHash)

	again, err := LoadOrCreateKeyFile(keyPath, true)
	require.NoError(t, err)
	assert.Equal(t, created.Address, again.Address)

	fresh, err := LoadOrCreateKeyFile(filepath.Join(dir, "miner.wif"), true)
	require.NoError(t, err)
	assert.NotEqual(t, created.Address, fresh.Address)

	_, err = LoadKeyFile(filepath.Join(dir, "missing.wif"), true)
	require.Error(t, err)
}
