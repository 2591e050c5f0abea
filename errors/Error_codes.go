package errors

import "strconv"

// ERR is the closed set of error kinds produced by the node.
type ERR int32

//nolint:revive,stylecheck // names mirror the wire codes
const (
	ERR_UNKNOWN                 ERR = 0
	ERR_INVALID_ARGUMENT        ERR = 1
	ERR_THRESHOLD_EXCEEDED      ERR = 2
	ERR_NOT_FOUND               ERR = 3
	ERR_PROCESSING              ERR = 4
	ERR_CONFIGURATION           ERR = 5
	ERR_CONTEXT                 ERR = 6
	ERR_CONTEXT_CANCELED        ERR = 7
	ERR_ERROR                   ERR = 9
	ERR_IO                      ERR = 10
	ERR_ENCODING                ERR = 11
	ERR_CRYPTO                  ERR = 12
	ERR_STATE_ACCESS            ERR = 13
	ERR_BLOCK_NOT_FOUND         ERR = 20
	ERR_BLOCK_INVALID           ERR = 21
	ERR_BLOCK_EXISTS            ERR = 22
	ERR_BLOCK_ERROR             ERR = 23
	ERR_CHAIN_LINK              ERR = 24
	ERR_STALE_TIP               ERR = 25
	ERR_TX_NOT_FOUND            ERR = 30
	ERR_TX_INVALID              ERR = 31
	ERR_TX_INVALID_DOUBLE_SPEND ERR = 32
	ERR_TX_ALREADY_EXISTS       ERR = 33
	ERR_TX_ERROR                ERR = 34
	ERR_TX_INSUFFICIENT_INPUTS  ERR = 35
	ERR_SCRIPT                  ERR = 36
	ERR_UTXO_NOT_FOUND          ERR = 40
	ERR_UTXO_SPENT              ERR = 41
	ERR_INSUFFICIENT_FUNDS      ERR = 42
	ERR_SERVICE_UNAVAILABLE     ERR = 50
	ERR_SERVICE_NOT_STARTED     ERR = 51
	ERR_SERVICE_ERROR           ERR = 52
	ERR_STORAGE_UNAVAILABLE     ERR = 60
	ERR_STORAGE_NOT_STARTED     ERR = 61
	ERR_STORAGE_ERROR           ERR = 62
	ERR_NETWORK_ERROR           ERR = 70
	ERR_NETWORK_TIMEOUT         ERR = 71
)

var ERR_name = map[int32]string{
	0:  "UNKNOWN",
	1:  "INVALID_ARGUMENT",
	2:  "THRESHOLD_EXCEEDED",
	3:  "NOT_FOUND",
	4:  "PROCESSING",
	5:  "CONFIGURATION",
	6:  "CONTEXT",
	7:  "CONTEXT_CANCELED",
	9:  "ERROR",
	10: "IO",
	11: "ENCODING",
	12: "CRYPTO",
	13: "STATE_ACCESS",
	20: "BLOCK_NOT_FOUND",
	21: "BLOCK_INVALID",
	22: "BLOCK_EXISTS",
	23: "BLOCK_ERROR",
	24: "CHAIN_LINK",
	25: "STALE_TIP",
	30: "TX_NOT_FOUND",
	31: "TX_INVALID",
	32: "TX_INVALID_DOUBLE_SPEND",
	33: "TX_ALREADY_EXISTS",
	34: "TX_ERROR",
	35: "TX_INSUFFICIENT_INPUTS",
	36: "SCRIPT",
	40: "UTXO_NOT_FOUND",
	41: "UTXO_SPENT",
	42: "INSUFFICIENT_FUNDS",
	50: "SERVICE_UNAVAILABLE",
	51: "SERVICE_NOT_STARTED",
	52: "SERVICE_ERROR",
	60: "STORAGE_UNAVAILABLE",
	61: "STORAGE_NOT_STARTED",
	62: "STORAGE_ERROR",
	70: "NETWORK_ERROR",
	71: "NETWORK_TIMEOUT",
}

// Enum returns the symbolic name of the code.
func (x ERR) Enum() string {
	if name, ok := ERR_name[int32(x)]; ok {
		return name
	}

	return strconv.Itoa(int(x))
}

func (x ERR) String() string {
	return x.Enum()
}
