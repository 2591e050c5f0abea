package errors

import (
	"net/http"
)

// IsRetryableError determines if an error is transient and the operation should be retried.
func IsRetryableError(err error) bool {
	var tErr *Error
	if !As(err, &tErr) {
		return false
	}

	// the outermost code decides: a timeout wrapping context.DeadlineExceeded is still a timeout
	switch tErr.Code() {
	case ERR_NETWORK_TIMEOUT,
		ERR_NETWORK_ERROR,
		ERR_SERVICE_UNAVAILABLE,
		ERR_STORAGE_UNAVAILABLE,
		ERR_STALE_TIP:
		return true
	}

	return false
}

// ChainLinkIndex returns the failing block position carried by a chain link error.
func ChainLinkIndex(err error) (int, bool) {
	var tErr *Error
	if !As(err, &tErr) || tErr.Code() != ERR_CHAIN_LINK {
		return 0, false
	}

	index, ok := tErr.GetData("index").(int)

	return index, ok
}

// HTTPStatus maps an error to the status code the HTTP API answers with.
func HTTPStatus(err error) int {
	var tErr *Error
	if !As(err, &tErr) {
		return http.StatusInternalServerError
	}

	switch tErr.Code() {
	case ERR_INVALID_ARGUMENT,
		ERR_ENCODING,
		ERR_SCRIPT,
		ERR_TX_INVALID,
		ERR_TX_INSUFFICIENT_INPUTS,
		ERR_UTXO_NOT_FOUND,
		ERR_CHAIN_LINK,
		ERR_BLOCK_INVALID:
		return http.StatusBadRequest
	case ERR_NOT_FOUND, ERR_BLOCK_NOT_FOUND, ERR_TX_NOT_FOUND:
		return http.StatusNotFound
	case ERR_TX_INVALID_DOUBLE_SPEND, ERR_TX_ALREADY_EXISTS, ERR_UTXO_SPENT, ERR_STALE_TIP:
		return http.StatusConflict
	case ERR_INSUFFICIENT_FUNDS:
		return http.StatusUnprocessableEntity
	case ERR_STATE_ACCESS, ERR_SERVICE_UNAVAILABLE, ERR_STORAGE_UNAVAILABLE:
		return http.StatusServiceUnavailable
	case ERR_CONTEXT_CANCELED, ERR_NETWORK_TIMEOUT:
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// IsClientError reports whether the error was caused by the caller's input.
func IsClientError(err error) bool {
	status := HTTPStatus(err)
	return status >= 400 && status < 500
}
