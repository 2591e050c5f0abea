package script

import (
	"bytes"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/wallet"
)

type stack [][]byte

func (s *stack) push(b []byte) {
	*s = append(*s, b)
}

func (s *stack) pop() ([]byte, bool) {
	if len(*s) == 0 {
		return nil, false
	}

	top := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]

	return top, true
}

func (s *stack) peek() ([]byte, bool) {
	if len(*s) == 0 {
		return nil, false
	}

	return (*s)[len(*s)-1], true
}

// Execute checks unlockingScript against lockingScript for the given sighash.
//
// The stack starts with the signature and public key from the unlocking script.
// The locking script runs one byte at a time. Bytes that are not one of the four
// opcodes are held back as embedded data and only placed on the stack when
// OP_EQUALVERIFY runs. In a P2PKH template the 20 operand bytes are always data,
// even where a byte happens to equal an opcode. The final stack state is not inspected.
func Execute(unlockingScript []byte, lockingScript []byte, sighash []byte) error {
	unlocking, err := DecodeUnlockingScript(unlockingScript)
	if err != nil {
		return err
	}

	if unlocking.SigHashType != SigHashAll {
		return errors.NewScriptError("unsupported sighash type 0x%02x", unlocking.SigHashType)
	}

	if len(unlocking.PublicKey) != PublicKeyLength {
		return errors.NewScriptError("public key must be %d bytes, got %d", PublicKeyLength, len(unlocking.PublicKey))
	}

	st := stack{unlocking.Signature, unlocking.PublicKey}

	var embedded []byte

	operandStart, operandEnd := 0, 0
	if IsP2PKH(lockingScript) {
		operandStart, operandEnd = 2, P2PKHLength-2
	}

	for pc, op := range lockingScript {
		if pc >= operandStart && pc < operandEnd {
			embedded = append(embedded, op)
			continue
		}

		switch op {
		case bscript.OpDUP:
			top, ok := st.peek()
			if !ok {
				return errors.NewScriptError("OP_DUP on empty stack")
			}

			st.push(bytes.Clone(top))

		case bscript.OpHASH160:
			top, ok := st.pop()
			if !ok {
				return errors.NewScriptError("OP_HASH160 on empty stack")
			}

			st.push(wallet.PubKeyHash(top))

		case bscript.OpEQUALVERIFY:
			if embedded != nil {
				st.push(embedded)
				embedded = nil
			}

			a, okA := st.pop()
			b, okB := st.pop()

			if !okA || !okB {
				return errors.NewScriptError("OP_EQUALVERIFY needs two stack elements")
			}

			if !bytes.Equal(a, b) {
				return errors.NewScriptError("OP_EQUALVERIFY failed: %x != %x", b, a)
			}

		case bscript.OpCHECKSIG:
			publicKey, okPub := st.pop()
			signature, okSig := st.pop()

			if !okPub || !okSig {
				return errors.NewScriptError("OP_CHECKSIG needs two stack elements")
			}

			if err = wallet.Verify(sighash, publicKey, signature); err != nil {
				return errors.NewScriptError("OP_CHECKSIG failed", err)
			}

		default:
			embedded = append(embedded, op)
		}
	}

	return nil
}
