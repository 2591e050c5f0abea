package asset

import (
	"context"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/bsv-blockchain/ritcoin/services/asset/httpimpl"
	"github.com/bsv-blockchain/ritcoin/settings"
	"github.com/bsv-blockchain/ritcoin/ulogger"
)

type Server struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	node       httpimpl.Node
	httpAddr   string
	httpServer *httpimpl.HTTP
}

func NewServer(logger ulogger.Logger, tSettings *settings.Settings, node httpimpl.Node) *Server {
	return &Server{
		logger:   logger,
		settings: tSettings,
		node:     node,
	}
}

func (v *Server) Health(ctx context.Context) (int, string, error) {
	return v.node.Health(ctx)
}

func (v *Server) Init(_ context.Context) (err error) {
	v.httpAddr = v.settings.Asset.HTTPListenAddress
	if v.httpAddr == "" {
		return errors.NewConfigurationError("no asset_httpListenAddress setting found")
	}

	v.httpServer, err = httpimpl.New(v.logger, v.settings, v.node)
	if err != nil {
		return errors.NewServiceError("error creating http server", err)
	}

	return nil
}

// Start blocks until ctx is done or the listener fails.
func (v *Server) Start(ctx context.Context) error {
	if v.httpServer == nil {
		return errors.NewServiceNotStartedError("[Asset] Init was not called")
	}

	return v.httpServer.Start(ctx, v.httpAddr)
}

func (v *Server) Stop(ctx context.Context) error {
	if v.httpServer == nil {
		return nil
	}

	v.logger.Infof("[Asset] Stopping http server")

	return v.httpServer.Stop(ctx)
}
