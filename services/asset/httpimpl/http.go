// Package httpimpl serves the peer protocol and the node's read endpoints over HTTP.
package httpimpl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/model"
	"github.com/bsv-blockchain/ritcoin/settings"
	"github.com/bsv-blockchain/ritcoin/ulogger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

var AssetStat = gocore.NewStat("Asset")

// Node is the part of the blockchain service the HTTP API reads from and submits to.
type Node interface {
	Health(ctx context.Context) (int, string, error)
	Snapshot(ctx context.Context) (*model.ChainSnapshot, error)
	Length(ctx context.Context) (int, error)
	Peers(ctx context.Context) ([]string, error)
	AddPeer(ctx context.Context, address string) error
	Balance(ctx context.Context, pubKeyHash []byte) (uint64, error)
	AcceptTransaction(ctx context.Context, raw []byte, dryRun bool) (chainhash.Hash, error)
}

type HTTP struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	node      Node
	e         *echo.Echo
	startTime time.Time
}

// New creates the echo server and registers its routes:
//
//	GET  /alive
//	GET  /health
//	GET  /metrics
//	GET  /stats
//	POST /chain                 full chain and utxo snapshot
//	POST /chain/length
//	POST /nodes                 known peers
//	POST /nodes/register        add peers
//	POST /transaction/new       submit a transaction, ?dryRun=true only validates it
//	GET  /balance/:address
func New(logger ulogger.Logger, tSettings *settings.Settings, node Node) (*HTTP, error) {
	initPrometheusMetrics()

	e := echo.New()
	e.Debug = tSettings.Asset.EchoDebug
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	if e.Debug {
		e.Use(customLoggerMiddleware(logger))
	}

	h := &HTTP{
		logger:    logger,
		settings:  tSettings,
		node:      node,
		e:         e,
		startTime: time.Now(),
	}

	e.GET("/alive", func(c echo.Context) error {
		return c.String(http.StatusOK, fmt.Sprintf("Node is alive. Uptime: %s\n", time.Since(h.startTime)))
	})

	e.GET("/health", func(c echo.Context) error {
		status, details, err := node.Health(c.Request().Context())
		if err != nil {
			return c.String(http.StatusServiceUnavailable, err.Error())
		}

		return c.String(status, details)
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/stats", AdaptStdHandler(gocore.HandleStats))

	apiGroup := e.Group(tSettings.Asset.APIPrefix)

	apiGroup.POST("/chain", h.GetChain)
	apiGroup.POST("/chain/length", h.GetChainLength)
	apiGroup.POST("/nodes", h.GetNodes)
	apiGroup.POST("/nodes/register", h.RegisterNodes)
	apiGroup.GET("/balance/:address", h.GetBalance)

	var txMiddleware []echo.MiddlewareFunc

	if limit := tSettings.Asset.TxRateLimit; limit > 0 {
		txMiddleware = append(txMiddleware, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(rate.Limit(limit)),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return sendError(c, http.StatusTooManyRequests, int32(errors.ERR_THRESHOLD_EXCEEDED),
					errors.NewThresholdExceededError("too many transactions, slow down"))
			},
		}))
	}

	apiGroup.POST("/transaction/new", h.SubmitTransaction, txMiddleware...)

	return h, nil
}

func AdaptStdHandler(handler func(w http.ResponseWriter, r *http.Request)) echo.HandlerFunc {
	return func(c echo.Context) error {
		handler(c.Response().Writer, c.Request())
		return nil
	}
}

// Handler exposes the router, mainly for httptest servers.
func (h *HTTP) Handler() http.Handler {
	return h.e
}

// Start serves on addr until ctx is done.
func (h *HTTP) Start(ctx context.Context, addr string) error {
	go func() {
		<-ctx.Done()

		h.logger.Infof("[Asset] HTTP service shutting down")

		if err := h.e.Shutdown(context.Background()); err != nil {
			h.logger.Errorf("[Asset] HTTP service shutdown error: %s", err)
		}
	}()

	h.logger.Infof("[Asset] HTTP listening on %s", addr)

	if err := h.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.NewServiceError("[Asset] HTTP server failed", err)
	}

	return nil
}

func (h *HTTP) Stop(ctx context.Context) error {
	return h.e.Shutdown(ctx)
}

// Middleware to log HTTP requests using the custom logger
func customLoggerMiddleware(logger ulogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Infof("http request: Method=%s, URI=%s, RemoteAddr=%s Status=%d, Duration=%v, err=%v",
				c.Request().Method, c.Request().RequestURI, c.Request().RemoteAddr, c.Response().Status, time.Since(start), err)

			return err
		}
	}
}
