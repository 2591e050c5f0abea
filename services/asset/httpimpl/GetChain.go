package httpimpl

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ordishs/gocore"
)

// GetChain answers with the node's full chain and utxo set:
//
//	{"length": <n>, "chain": ["<block hex>", ...], "utxos": [{"txid", "index", "amount", "lockingScript"}, ...]}
func (h *HTTP) GetChain(c echo.Context) error {
	start := gocore.CurrentTime()
	defer AssetStat.NewStat("GetChain").AddTime(start)

	h.logger.Debugf("[Asset_http] GetChain for %s", c.Request().RemoteAddr)

	snapshot, err := h.node.Snapshot(c.Request().Context())
	if err != nil {
		return sendTypedError(c, err)
	}

	b, err := snapshot.MarshalJSON()
	if err != nil {
		return sendTypedError(c, err)
	}

	prometheusAssetHTTPGetChain.WithLabelValues("OK", "200").Inc()

	return c.JSONBlob(http.StatusOK, b)
}

func (h *HTTP) GetChainLength(c echo.Context) error {
	length, err := h.node.Length(c.Request().Context())
	if err != nil {
		return sendTypedError(c, err)
	}

	prometheusAssetHTTPGetChainLength.WithLabelValues("OK", "200").Inc()

	return c.JSON(http.StatusOK, &LengthResponse{Length: length})
}
