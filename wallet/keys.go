// Package wallet holds the key primitives the chain relies on: signing, verification,
// pubkey hashing, address and WIF codecs, and wallet key files.
package wallet

import (
	"crypto/sha256"

	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/errors"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // HASH160 is defined over RIPEMD-160
)

// PubKeyHashLength is the size of a HASH160 digest.
const PubKeyHashLength = ripemd160.Size

func NewPrivateKey() (*bec.PrivateKey, error) {
	privateKey, err := bec.NewPrivateKey()
	if err != nil {
		return nil, errors.NewCryptoError("failed to generate private key", err)
	}

	return privateKey, nil
}

// PublicKeyBytes returns the 65 byte uncompressed encoding used in unlocking scripts.
func PublicKeyBytes(privateKey *bec.PrivateKey) []byte {
	return privateKey.PubKey().Uncompressed()
}

// Sign signs hash and returns the DER signature together with the uncompressed public key.
func Sign(hash []byte, privateKey *bec.PrivateKey) ([]byte, []byte, error) {
	if privateKey == nil {
		return nil, nil, errors.NewCryptoError("no private key")
	}

	signature, err := privateKey.Sign(hash)
	if err != nil {
		return nil, nil, errors.NewCryptoError("failed to sign hash", err)
	}

	return signature.Serialize(), PublicKeyBytes(privateKey), nil
}

// Verify checks a DER signature over hash against a serialized public key.
func Verify(hash []byte, publicKey []byte, signature []byte) error {
	pubKey, err := bec.ParsePubKey(publicKey)
	if err != nil {
		return errors.NewCryptoError("invalid public key", err)
	}

	sig, err := bec.ParseDERSignature(signature)
	if err != nil {
		return errors.NewCryptoError("invalid signature encoding", err)
	}

	if !sig.Verify(hash, pubKey) {
		return errors.NewCryptoError("signature does not verify")
	}

	return nil
}

// PubKeyHash returns RIPEMD160(SHA256(publicKey)).
func PubKeyHash(publicKey []byte) []byte {
	sha := sha256.Sum256(publicKey)

	h := ripemd160.New()
	_, _ = h.Write(sha[:])

	return h.Sum(nil)
}
