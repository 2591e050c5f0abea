package errors

import (
	"fmt"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// DoubleSpendErrData identifies an outpoint that a pending transaction already spends.
type DoubleSpendErrData struct {
	Hash           chainhash.Hash `json:"hash"`
	Index          uint32         `json:"index"`
	SpendingTxHash chainhash.Hash `json:"spendingTxHash"`
}

func (e *DoubleSpendErrData) Error() string {
	return fmt.Sprintf("outpoint %s:%d already spent by pending tx %s", e.Hash, e.Index, e.SpendingTxHash)
}

func (e *DoubleSpendErrData) EncodeErrorData() []byte {
	return encodeErrorData(e)
}

func (e *DoubleSpendErrData) GetData(key string) interface{} {
	switch key {
	case "hash":
		return e.Hash
	case "index":
		return e.Index
	case "spendingTxHash":
		return e.SpendingTxHash
	}

	return nil
}

func (e *DoubleSpendErrData) SetData(string, interface{}) {}

func NewDoubleSpendError(txID chainhash.Hash, index uint32, spendingTxID chainhash.Hash) error {
	data := &DoubleSpendErrData{
		Hash:           txID,
		Index:          index,
		SpendingTxHash: spendingTxID,
	}

	e := New(ERR_TX_INVALID_DOUBLE_SPEND, data.Error())
	e.data = data

	return e
}
