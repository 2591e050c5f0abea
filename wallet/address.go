package wallet

import (
	"encoding/hex"
	"strings"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	bec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/ritcoin/errors"
)

// AddressFromPubKeyHash base58check-encodes a pubkey hash.
func AddressFromPubKeyHash(pubKeyHash []byte, mainnet bool) (string, error) {
	if len(pubKeyHash) != PubKeyHashLength {
		return "", errors.NewEncodingError("pubkey hash must be %d bytes, got %d", PubKeyHashLength, len(pubKeyHash))
	}

	address, err := bscript.NewAddressFromPublicKeyHash(pubKeyHash, mainnet)
	if err != nil {
		return "", errors.NewEncodingError("failed to encode address", err)
	}

	return address.AddressString, nil
}

// AddressFromPrivateKey derives the address that pays to privateKey.
func AddressFromPrivateKey(privateKey *bec.PrivateKey, mainnet bool) (string, error) {
	return AddressFromPubKeyHash(PubKeyHash(PublicKeyBytes(privateKey)), mainnet)
}

// PubKeyHashFromAddress decodes a base58check address.
func PubKeyHashFromAddress(address string) ([]byte, error) {
	decoded, err := bscript.NewAddressFromString(strings.TrimSpace(address))
	if err != nil {
		return nil, errors.NewEncodingError("invalid address %q", address, err)
	}

	pubKeyHash, err := hex.DecodeString(decoded.PublicKeyHash)
	if err != nil {
		return nil, errors.NewEncodingError("invalid address %q", address, err)
	}

	return pubKeyHash, nil
}

func PrivateKeyFromWIF(wif string) (*bec.PrivateKey, error) {
	privateKey, err := bec.PrivateKeyFromWif(strings.TrimSpace(wif))
	if err != nil {
		return nil, errors.NewEncodingError("invalid WIF", err)
	}

	return privateKey, nil
}

func WIF(privateKey *bec.PrivateKey) string {
	return privateKey.Wif()
}
