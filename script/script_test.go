package script

import (
	"bytes"
	"crypto/sha256"
	"testing"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	locking   []byte
	unlocking []byte
	sighash   []byte
	pkh       []byte
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	return newFixtureWhere(t, func([]byte) bool { return true })
}

func hasOpcodeByte(pkh []byte) bool {
	return bytes.ContainsAny(pkh, string([]byte{0x76, 0xa9, 0x88, 0xac}))
}

// newFixtureWhere generates keys until one has a pubkey hash accepted by want.
func newFixtureWhere(t *testing.T, want func(pkh []byte) bool) fixture {
	t.Helper()

	var (
		privateKey *bec.PrivateKey
		pkh        []byte
		err        error
	)

	for i := 0; i < 500; i++ {
		privateKey, err = wallet.NewPrivateKey()
		require.NoError(t, err)

		if pkh = wallet.PubKeyHash(wallet.PublicKeyBytes(privateKey)); want(pkh) {
			break
		}
	}

	require.True(t, want(pkh), "no suitable key generated")

	locking, err := NewP2PKH(pkh)
	require.NoError(t, err)

	h := sha256.Sum256([]byte("spend"))

	sig, pub, err := wallet.Sign(h[:], privateKey)
	require.NoError(t, err)

	unlocking, err := EncodeUnlockingScript(sig, SigHashAll, pub)
	require.NoError(t, err)

	return fixture{locking: locking, unlocking: unlocking, sighash: h[:], pkh: pkh}
}

func flipped(b []byte, i int) []byte {
	c := append([]byte{}, b...)
	c[i] ^= 0xff

	return c
}

func TestP2PKHTemplate(t *testing.T) {
	pkh := make([]byte, 20)
	for i := range pkh {
		pkh[i] = byte(i)
	}

	locking, err := NewP2PKH(pkh)
	require.NoError(t, err)
	require.Len(t, locking, P2PKHLength)

	expected := append(append([]byte{0x76, 0xa9}, pkh...), 0x88, 0xac)
	assert.Equal(t, expected, locking)
	assert.True(t, IsP2PKH(locking))

	extracted, err := PubKeyHashFromP2PKH(locking)
	require.NoError(t, err)
	assert.Equal(t, pkh, extracted)

	assert.False(t, IsP2PKH(locking[:23]))
	assert.False(t, IsP2PKH(append([]byte{0x76, 0xa9, 0x14}, locking[2:]...)))

	_, err = NewP2PKH(pkh[:19])
	require.Error(t, err)
}

func TestUnlockingScriptLayout(t *testing.T) {
	sig := []byte{0x30, 0x01, 0x02}
	pub := make([]byte, PublicKeyLength)

	b, err := EncodeUnlockingScript(sig, SigHashAll, pub)
	require.NoError(t, err)

	assert.Equal(t, byte(len(sig)+1), b[0])
	assert.Equal(t, sig, b[1:4])
	assert.Equal(t, SigHashAll, b[4])
	assert.Equal(t, byte(PublicKeyLength), b[5])
	assert.Len(t, b, 6+PublicKeyLength)

	decoded, err := DecodeUnlockingScript(b)
	require.NoError(t, err)
	assert.Equal(t, sig, decoded.Signature)
	assert.Equal(t, SigHashAll, decoded.SigHashType)
	assert.Equal(t, pub, decoded.PublicKey)

	_, err = DecodeUnlockingScript(b[:len(b)-1])
	require.Error(t, err)

	_, err = DecodeUnlockingScript(append(b, 0x00))
	require.Error(t, err)

	_, err = DecodeUnlockingScript(nil)
	require.Error(t, err)
}

func TestExecuteValidP2PKH(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, Execute(f.unlocking, f.locking, f.sighash))
}

func TestExecuteWrongSighash(t *testing.T) {
	f := newFixture(t)

	other := sha256.Sum256([]byte("other"))
	err := Execute(f.unlocking, f.locking, other[:])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrScript))
}

func TestExecuteFailsOnAnyUnlockingByteFlip(t *testing.T) {
	f := newFixture(t)

	for i := range f.unlocking {
		err := Execute(flipped(f.unlocking, i), f.locking, f.sighash)
		assert.Error(t, err, "flip of unlocking byte %d", i)
	}
}

func TestExecuteHandBuiltTemplate(t *testing.T) {
	f := newFixture(t)

	locking := []byte{0x76, 0xa9}
	locking = append(locking, f.pkh...)
	locking = append(locking, 0x88, 0xac)

	require.NoError(t, Execute(f.unlocking, locking, f.sighash))
}

func TestExecuteOperandHoldingOpcodeBytes(t *testing.T) {
	f := newFixtureWhere(t, hasOpcodeByte)

	require.NoError(t, Execute(f.unlocking, f.locking, f.sighash))
}

func TestExecuteCollectsUnknownBytes(t *testing.T) {
	f := newFixtureWhere(t, func(pkh []byte) bool { return !hasOpcodeByte(pkh) })

	// the hash is split around OP_HASH160 and still reassembled before OP_EQUALVERIFY
	locking := []byte{0x76}
	locking = append(locking, f.pkh[:5]...)
	locking = append(locking, 0xa9)
	locking = append(locking, f.pkh[5:]...)
	locking = append(locking, 0x88, 0xac)

	require.NoError(t, Execute(f.unlocking, locking, f.sighash))

	// an extra data byte changes the embedded hash
	locking = append([]byte{0x76, 0xa9, 0x00}, f.locking[2:]...)
	require.Error(t, Execute(f.unlocking, locking, f.sighash))
}

func TestExecuteFailsOnAnyLockingByteFlip(t *testing.T) {
	f := newFixture(t)

	// a flipped OP_CHECKSIG is only a data byte after a passing OP_EQUALVERIFY
	for i := range f.locking[:len(f.locking)-1] {
		err := Execute(f.unlocking, flipped(f.locking, i), f.sighash)
		assert.Error(t, err, "flip of locking byte %d", i)
	}
}

func TestExecuteWithoutEmbeddedHash(t *testing.T) {
	f := newFixture(t)

	// OP_EQUALVERIFY compares the hashed public key with the signature
	err := Execute(f.unlocking, []byte{0xa9, 0x88}, f.sighash)
	require.Error(t, err)

	// the second OP_EQUALVERIFY finds only the signature left
	err = Execute(f.unlocking, []byte{0x76, 0x88, 0x88}, f.sighash)
	require.Error(t, err)
}

func TestExecuteWithoutChecksig(t *testing.T) {
	f := newFixtureWhere(t, func(pkh []byte) bool { return !hasOpcodeByte(pkh) })

	other := sha256.Sum256([]byte("other"))

	// nothing checks the signature, and the final stack is not inspected
	require.NoError(t, Execute(f.unlocking, f.locking[:P2PKHLength-1], other[:]))
}
