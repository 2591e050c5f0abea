package util

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hashPair(l, r []byte) []byte {
	h := sha256.Sum256(append(append([]byte{}, l...), r...))
	return h[:]
}

func leaf(tx []byte) []byte {
	h := sha256.Sum256(tx)
	return h[:]
}

func TestMerkleRootEmpty(t *testing.T) {
	assert.Empty(t, MerkleRoot(nil))
	assert.Empty(t, MerkleRoot([][]byte{}))
}

func TestMerkleRootSingle(t *testing.T) {
	tx := []byte("coinbase")
	assert.Equal(t, leaf(tx), MerkleRoot([][]byte{tx}))
}

func TestMerkleRootPair(t *testing.T) {
	a, b := []byte("a"), []byte("b")
	assert.Equal(t, hashPair(leaf(a), leaf(b)), MerkleRoot([][]byte{a, b}))
}

func TestMerkleRootOddDuplicatesLast(t *testing.T) {
	a, b, c := []byte("a"), []byte("b"), []byte("c")

	odd := MerkleRoot([][]byte{a, b, c})
	even := MerkleRoot([][]byte{a, b, c, c})
	assert.Equal(t, even, odd)

	expected := hashPair(hashPair(leaf(a), leaf(b)), hashPair(leaf(c), leaf(c)))
	assert.Equal(t, expected, odd)
}

func TestMerkleRootFive(t *testing.T) {
	txs := [][]byte{[]byte("1"), []byte("2"), []byte("3"), []byte("4"), []byte("5")}

	l12 := hashPair(leaf(txs[0]), leaf(txs[1]))
	l34 := hashPair(leaf(txs[2]), leaf(txs[3]))
	l55 := hashPair(leaf(txs[4]), leaf(txs[4]))
	top := hashPair(hashPair(l12, l34), hashPair(l55, l55))

	assert.Equal(t, top, MerkleRoot(txs))
}

func TestMerkleRootOrderMatters(t *testing.T) {
	a, b := []byte("a"), []byte("b")
	assert.NotEqual(t, MerkleRoot([][]byte{a, b}), MerkleRoot([][]byte{b, a}))
}
