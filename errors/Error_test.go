package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")
	require.NotNil(t, err)
	require.Equal(t, ERR_NOT_FOUND, err.Code())
	require.Equal(t, "resource not found", err.Message())

	secondErr := New(ERR_INVALID_ARGUMENT, "[VerifyChain][%s] failed to replay block: ", "_test_string_", err)
	thirdErr := New(ERR_TX_INVALID_DOUBLE_SPEND, "[AcceptTransaction][%s] outpoint reused: ", "_test_string_", secondErr)
	anotherErr := New(ERR_TX_INVALID_DOUBLE_SPEND, "another double spend")
	fourthErr := New(ERR_SERVICE_ERROR, "older error: ", thirdErr)
	fifthErr := New(ERR_BLOCK_INVALID, "invalid block", fourthErr)

	require.True(t, anotherErr.Is(thirdErr))
	require.True(t, fourthErr.Is(New(ERR_TX_INVALID_DOUBLE_SPEND, "")))
	require.True(t, fourthErr.Is(ErrTxInvalidDoubleSpend))

	require.True(t, fourthErr.Is(err))
	require.True(t, fifthErr.Is(thirdErr))
	require.True(t, fifthErr.Is(err))

	require.False(t, anotherErr.Is(fourthErr))
	require.False(t, fifthErr.Is(ErrScript))
}

func Test_FmtErrorCustomError(t *testing.T) {
	err := New(ERR_NOT_FOUND, "resource not found")

	fmtError := fmt.Errorf("error: %w", err)
	secondErr := New(ERR_INVALID_ARGUMENT, "[MineNext][%s] failed: ", "_test_string_", fmtError)

	// codes survive a plain fmt wrap in between
	require.True(t, secondErr.Is(err))
	require.False(t, secondErr.Is(ErrStorageError))

	altErr := New(ERR_INVALID_ARGUMENT, "invalid argument", err)
	require.True(t, secondErr.Is(altErr))
}

func Test_InvalidCode(t *testing.T) {
	err := New(ERR(999), "whatever")
	assert.Equal(t, "invalid error code", err.Message())
}

func Test_ErrorString(t *testing.T) {
	err := NewTxInvalidError("bad tx %d", 3)
	assert.Equal(t, "TX_INVALID (31): bad tx 3", err.Error())

	wrapped := NewServiceError("wrapping", err)
	assert.Contains(t, wrapped.Error(), "wrapping <- TX_INVALID (31): bad tx 3")
}

func Test_WrapsStandardErrors(t *testing.T) {
	err := NewProcessingError("mining aborted", context.Canceled)

	assert.True(t, Is(err, context.Canceled))
	assert.False(t, Is(err, context.DeadlineExceeded))
	assert.Equal(t, context.Canceled, err.(*Error).WrappedErr())

	var typedNil *Error
	assert.Nil(t, New(ERR_PROCESSING, "no cause", typedNil).WrappedErr())
}

func Test_As(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewStorageError("disk"))

	var tErr *Error
	require.True(t, As(err, &tErr))
	assert.Equal(t, ERR_STORAGE_ERROR, tErr.Code())
}

func Test_DoubleSpendData(t *testing.T) {
	hash := chainhash.DoubleHashH([]byte("funding"))
	spender := chainhash.DoubleHashH([]byte("spender"))

	err := NewDoubleSpendError(hash, 1, spender)
	require.True(t, Is(err, ErrTxInvalidDoubleSpend))

	var data *DoubleSpendErrData
	require.True(t, AsData(err, &data))
	assert.Equal(t, hash, data.Hash)
	assert.Equal(t, uint32(1), data.Index)
	assert.Equal(t, spender, data.SpendingTxHash)

	decoded, decodeErr := GetErrorData(ERR_TX_INVALID_DOUBLE_SPEND, data.EncodeErrorData())
	require.NoError(t, decodeErr)
	assert.Equal(t, data, decoded)
}

func Test_ChainLinkIndex(t *testing.T) {
	err := NewChainLinkError(4, "previous hash mismatch at block %d", 4)

	index, ok := ChainLinkIndex(err)
	require.True(t, ok)
	assert.Equal(t, 4, index)

	_, ok = ChainLinkIndex(NewTxInvalidError("nope"))
	assert.False(t, ok)
}

func Test_HTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid tx", NewTxInvalidError("bad"), http.StatusBadRequest},
		{"double spend", NewTxInvalidDoubleSpendError("dup"), http.StatusConflict},
		{"not found", NewNotFoundError("missing"), http.StatusNotFound},
		{"funds", NewInsufficientFundsError("poor"), http.StatusUnprocessableEntity},
		{"state", NewStateAccessError("busy"), http.StatusServiceUnavailable},
		{"plain", fmt.Errorf("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}

	assert.True(t, IsClientError(NewScriptError("x")))
	assert.False(t, IsClientError(NewStorageError("x")))
}

func Test_IsRetryableError(t *testing.T) {
	assert.True(t, IsRetryableError(NewStaleTipError("moved")))
	assert.True(t, IsRetryableError(NewNetworkTimeoutError("slow")))
	assert.True(t, IsRetryableError(NewNetworkTimeoutError("slow", context.DeadlineExceeded)))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.False(t, IsRetryableError(NewTxInvalidError("bad")))
	assert.False(t, IsRetryableError(nil))
}
