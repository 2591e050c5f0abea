// Package script builds pay-to-pubkey-hash scripts and runs the small stack
// machine that checks an unlocking script against a locking script.
package script

import (
	"bytes"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/wallet"
)

const (
	// SigHashAll is the only signature hash type the chain accepts.
	SigHashAll byte = 0x01

	// UnlockingScriptV1 identifies the layout
	// [len(sig)+1][sig][sighash type][len(pubkey)][pubkey].
	UnlockingScriptV1 = 1

	// PublicKeyLength is the size of an uncompressed secp256k1 public key.
	PublicKeyLength = 65
)

// P2PKHLength is the size of OP_DUP OP_HASH160 <20 byte hash> OP_EQUALVERIFY OP_CHECKSIG.
// The hash is written bare, without a push opcode in front of it.
const P2PKHLength = 24

// NewP2PKH returns OP_DUP OP_HASH160 <pubKeyHash> OP_EQUALVERIFY OP_CHECKSIG.
func NewP2PKH(pubKeyHash []byte) ([]byte, error) {
	if len(pubKeyHash) != wallet.PubKeyHashLength {
		return nil, errors.NewScriptError("pubkey hash must be %d bytes, got %d", wallet.PubKeyHashLength, len(pubKeyHash))
	}

	s := make([]byte, 0, P2PKHLength)
	s = append(s, bscript.OpDUP, bscript.OpHASH160)
	s = append(s, pubKeyHash...)
	s = append(s, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG)

	return s, nil
}

// PubKeyHashFromP2PKH extracts the embedded pubkey hash of a P2PKH locking script.
func PubKeyHashFromP2PKH(lockingScript []byte) ([]byte, error) {
	if len(lockingScript) != P2PKHLength ||
		lockingScript[0] != bscript.OpDUP ||
		lockingScript[1] != bscript.OpHASH160 ||
		lockingScript[P2PKHLength-2] != bscript.OpEQUALVERIFY ||
		lockingScript[P2PKHLength-1] != bscript.OpCHECKSIG {
		return nil, errors.NewScriptError("not a p2pkh locking script")
	}

	return bytes.Clone(lockingScript[2 : P2PKHLength-2]), nil
}

// IsP2PKH reports whether lockingScript follows the P2PKH template.
func IsP2PKH(lockingScript []byte) bool {
	_, err := PubKeyHashFromP2PKH(lockingScript)
	return err == nil
}

// Unlocking is a decoded V1 unlocking script.
type Unlocking struct {
	Signature   []byte
	SigHashType byte
	PublicKey   []byte
}

// EncodeUnlockingScript lays out a DER signature, the sighash type and a public key.
func EncodeUnlockingScript(signature []byte, sigHashType byte, publicKey []byte) ([]byte, error) {
	if len(signature) == 0 || len(signature)+1 > int(bscript.OpDATA75) {
		return nil, errors.NewEncodingError("signature length %d out of range", len(signature))
	}

	if len(publicKey) == 0 || len(publicKey) > int(bscript.OpDATA75) {
		return nil, errors.NewEncodingError("public key length %d out of range", len(publicKey))
	}

	b := make([]byte, 0, 3+len(signature)+len(publicKey))
	b = append(b, byte(len(signature)+1))
	b = append(b, signature...)
	b = append(b, sigHashType)
	b = append(b, byte(len(publicKey)))
	b = append(b, publicKey...)

	return b, nil
}

// DecodeUnlockingScript parses a V1 unlocking script. Every byte must be accounted for.
func DecodeUnlockingScript(b []byte) (*Unlocking, error) {
	if len(b) < 1 {
		return nil, errors.NewScriptError("empty unlocking script")
	}

	sigLen := int(b[0])
	if sigLen < 2 || 1+sigLen >= len(b) {
		return nil, errors.NewScriptError("unlocking script signature length %d out of range", sigLen)
	}

	signature := b[1:sigLen]
	sigHashType := b[sigLen]

	rest := b[1+sigLen:]

	pubLen := int(rest[0])
	if pubLen == 0 || len(rest) != 1+pubLen {
		return nil, errors.NewScriptError("unlocking script public key length %d does not match %d remaining bytes", pubLen, len(rest)-1)
	}

	return &Unlocking{
		Signature:   bytes.Clone(signature),
		SigHashType: sigHashType,
		PublicKey:   bytes.Clone(rest[1:]),
	}, nil
}
