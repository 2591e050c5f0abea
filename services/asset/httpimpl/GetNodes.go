package httpimpl

import (
	"io"
	"net/http"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/labstack/echo/v4"
)

func (h *HTTP) GetNodes(c echo.Context) error {
	peers, err := h.node.Peers(c.Request().Context())
	if err != nil {
		return sendTypedError(c, err)
	}

	prometheusAssetHTTPGetNodes.WithLabelValues("OK", "200").Inc()

	return c.JSON(http.StatusOK, &NodesResponse{Nodes: peers})
}

// RegisterNodes adds every address in {"nodes": [...]} and answers with the resulting peer list.
func (h *HTTP) RegisterNodes(c echo.Context) error {
	ctx := c.Request().Context()

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return sendTypedError(c, errors.NewIOError("failed to read request body", err))
	}

	var request NodesRequest
	if err = json.Unmarshal(body, &request); err != nil {
		return sendTypedError(c, errors.NewInvalidArgumentError("invalid nodes request", err))
	}

	if len(request.Nodes) == 0 {
		return sendTypedError(c, errors.NewInvalidArgumentError("no nodes given"))
	}

	for _, node := range request.Nodes {
		if err = h.node.AddPeer(ctx, node); err != nil {
			return sendTypedError(c, err)
		}
	}

	return h.GetNodes(c)
}
