package httpimpl

import (
	"io"
	"net/http"
	"strconv"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/labstack/echo/v4"
	"github.com/ordishs/gocore"
)

// SubmitTransaction accepts a transaction either as a JSON body {"tx": <hex or byte array>}
// or as raw bytes with Content-Type application/octet-stream. With ?dryRun=true the
// transaction is validated but not queued.
func (h *HTTP) SubmitTransaction(c echo.Context) error {
	start := gocore.CurrentTime()
	defer AssetStat.NewStat("SubmitTransaction").AddTime(start)

	dryRun := false

	if v := c.QueryParam("dryRun"); v != "" {
		var err error

		if dryRun, err = strconv.ParseBool(v); err != nil {
			return sendTypedError(c, errors.NewInvalidArgumentError("invalid dryRun value %q", v))
		}
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return sendTypedError(c, errors.NewIOError("failed to read request body", err))
	}

	raw := body

	if c.Request().Header.Get(echo.HeaderContentType) != echo.MIMEOctetStream {
		var request TransactionRequest
		if err = json.Unmarshal(body, &request); err != nil {
			prometheusAssetHTTPSubmitTransaction.WithLabelValues("Error", "400").Inc()
			return sendTypedError(c, errors.NewInvalidArgumentError("invalid transaction request", err))
		}

		raw = request.Tx
	}

	if len(raw) == 0 {
		return sendTypedError(c, errors.NewInvalidArgumentError("empty transaction"))
	}

	txHash, err := h.node.AcceptTransaction(c.Request().Context(), raw, dryRun)
	if err != nil {
		h.logger.Warnf("[Asset_http] rejected transaction from %s: %v", c.Request().RemoteAddr, err)
		prometheusAssetHTTPSubmitTransaction.WithLabelValues("Error", strconv.Itoa(errors.HTTPStatus(err))).Inc()

		return sendTypedError(c, err)
	}

	prometheusAssetHTTPSubmitTransaction.WithLabelValues("OK", "200").Inc()

	return c.JSON(http.StatusOK, &TransactionResponse{
		TxID:   txHash.String(),
		Queued: !dryRun,
	})
}
