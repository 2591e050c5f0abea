package httpimpl

import (
	"encoding/hex"
	"strings"

	"github.com/bsv-blockchain/ritcoin/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TxBytes is a serialized transaction in a JSON body. It is written as a hex string and
// read from either a hex string or an array of byte values.
type TxBytes []byte

func (b TxBytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(b))
}

func (b *TxBytes) UnmarshalJSON(data []byte) error {
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		var values []int
		if err := json.Unmarshal(data, &values); err != nil {
			return errors.NewEncodingError("invalid transaction byte array", err)
		}

		out := make([]byte, len(values))

		for i, v := range values {
			if v < 0 || v > 255 {
				return errors.NewEncodingError("transaction byte %d out of range: %d", i, v)
			}

			out[i] = byte(v)
		}

		*b = out

		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return errors.NewEncodingError("transaction must be a hex string or a byte array", err)
	}

	out, err := hex.DecodeString(s)
	if err != nil {
		return errors.NewEncodingError("invalid transaction hex", err)
	}

	*b = out

	return nil
}

type TransactionRequest struct {
	Tx TxBytes `json:"tx"`
}

type TransactionResponse struct {
	TxID   string `json:"txid"`
	Queued bool   `json:"queued"`
}

type LengthResponse struct {
	Length int `json:"length"`
}

type NodesRequest struct {
	Nodes []string `json:"nodes"`
}

type NodesResponse struct {
	Nodes []string `json:"nodes"`
}

type BalanceResponse struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}
