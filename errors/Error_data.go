package errors

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ErrDataI is structured context attached to an error, such as the block index of a
// broken chain link or the outpoint of a double spend.
type ErrDataI interface {
	EncodeErrorData() []byte
	Error() string
	GetData(key string) interface{}
	SetData(key string, value interface{})
}

// ErrData is the generic key/value form of ErrDataI.
type ErrData map[string]interface{}

// Error renders the entries as "k=v" pairs in key order.
func (e *ErrData) Error() string {
	if e == nil {
		return ""
	}

	keys := make([]string, 0, len(*e))
	for k := range *e {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, (*e)[k])
	}

	return strings.Join(pairs, " ")
}

func (e *ErrData) SetData(key string, value interface{}) {
	if e == nil {
		return
	}

	if *e == nil {
		*e = ErrData{}
	}

	(*e)[key] = value
}

func (e *ErrData) GetData(key string) interface{} {
	if e == nil {
		return nil
	}

	return (*e)[key]
}

func (e *ErrData) EncodeErrorData() []byte {
	return encodeErrorData(e)
}

func encodeErrorData(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte{}
	}

	return data
}

// GetErrorData decodes data produced by EncodeErrorData for an error of the given code.
func GetErrorData(code ERR, dataBytes []byte) (ErrDataI, error) {
	var errData ErrDataI = &ErrData{}

	if code == ERR_TX_INVALID_DOUBLE_SPEND {
		errData = &DoubleSpendErrData{}
	}

	if err := json.Unmarshal(dataBytes, errData); err != nil {
		return errData, NewEncodingError("invalid error data for %s", code.Enum(), err)
	}

	return errData, nil
}
