package model

import (
	"bytes"
	"testing"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/stretchr/testify/require"
)

type sliceSource []*Utxo

func (s sliceSource) ByPubKeyHash(pubKeyHash []byte) []*Utxo {
	var out []*Utxo

	for _, u := range s {
		if bytes.Contains(u.Output.LockingScript, pubKeyHash) {
			out = append(out, u)
		}
	}

	return out
}

type testKey struct {
	priv *bec.PrivateKey
	pkh  []byte
}

func newTestKey(t *testing.T) testKey {
	t.Helper()

	priv, err := wallet.NewPrivateKey()
	require.NoError(t, err)

	return testKey{priv: priv, pkh: wallet.PubKeyHash(wallet.PublicKeyBytes(priv))}
}

// fundedCoinbase returns a coinbase paying reward to k and its single utxo.
func fundedCoinbase(t *testing.T, k testKey, height uint32, reward uint64) (*Transaction, *Utxo) {
	t.Helper()

	coinbase, err := NewCoinbase(k.pkh, height, reward)
	require.NoError(t, err)

	return coinbase, UtxosFromTransaction(coinbase)[0]
}

// spend builds and signs a transaction moving amount from the given utxos to pkh.
func spend(t *testing.T, from testKey, utxos []*Utxo, to []byte, amount uint64) *Transaction {
	t.Helper()

	inputs := make([]*Input, len(utxos))
	for i, u := range utxos {
		inputs[i] = u.Input()
	}

	output, err := NewOutput(to, amount)
	require.NoError(t, err)

	tx := NewTransaction(inputs, []*Output{output})
	require.NoError(t, tx.Sign(from.priv))

	return tx
}
