package ulogger_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroLoggerJSON(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("miner", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("DEBUG"))
	logger.Infof("mined block %d", 7)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "miner", line["service"])
	assert.Equal(t, "mined block 7", line["message"])
}

func TestZeroLoggerLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("chain", ulogger.WithWriter(&buf), ulogger.WithPretty(false), ulogger.WithLevel("WARN"))
	assert.Equal(t, ulogger.LevelWarn, logger.LogLevel())

	logger.Infof("dropped")
	assert.Empty(t, buf.String())

	logger.Warnf("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestZeroLoggerChildKeepsWriter(t *testing.T) {
	var buf bytes.Buffer

	parent := ulogger.New("node", ulogger.WithWriter(&buf), ulogger.WithPretty(false))
	child := parent.New("asset")
	child.Errorf("boom")

	assert.True(t, strings.Contains(buf.String(), `"service":"asset"`))
}

func TestPrettyLoggerWritesServiceName(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.New("wallet", ulogger.WithWriter(&buf))
	logger.Infof("balance %d", 50)

	assert.Contains(t, buf.String(), "wallet")
	assert.Contains(t, buf.String(), "balance 50")
}

func TestErrorTestLoggerCounts(t *testing.T) {
	logger := ulogger.NewErrorTestLogger(t)
	logger.Infof("ignored")
	logger.Errorf("counted %s", "once")

	assert.Equal(t, int64(1), logger.ErrorCount())
}
