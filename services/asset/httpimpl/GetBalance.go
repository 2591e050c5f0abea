package httpimpl

import (
	"net/http"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/wallet"
	"github.com/labstack/echo/v4"
)

func (h *HTTP) GetBalance(c echo.Context) error {
	address := c.Param("address")

	pubKeyHash, err := wallet.PubKeyHashFromAddress(address)
	if err != nil {
		return sendTypedError(c, errors.NewInvalidArgumentError("invalid address %q", address, err))
	}

	balance, err := h.node.Balance(c.Request().Context(), pubKeyHash)
	if err != nil {
		return sendTypedError(c, err)
	}

	prometheusAssetHTTPGetBalance.WithLabelValues("OK", "200").Inc()

	return c.JSON(http.StatusOK, &BalanceResponse{Address: address, Balance: balance})
}
