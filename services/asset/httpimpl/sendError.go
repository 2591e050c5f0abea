package httpimpl

import (
	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/labstack/echo/v4"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Status int32  `json:"status"`
	Code   int32  `json:"code"`
	Err    string `json:"error"`
}

func sendError(c echo.Context, status int, code int32, err error) error {
	return c.JSON(status, &errorResponse{
		Status: int32(status),
		Code:   code,
		Err:    err.Error(),
	})
}

// sendTypedError answers with the status and code the error kind maps to: 4xx for bad
// input, 5xx when the node could not serve the request.
func sendTypedError(c echo.Context, err error) error {
	code := int32(errors.ERR_UNKNOWN)

	var tErr *errors.Error
	if errors.As(err, &tErr) {
		code = int32(tErr.Code())
	}

	return sendError(c, errors.HTTPStatus(err), code, err)
}
