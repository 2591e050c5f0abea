package util

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/bsv-blockchain/ritcoin/errors"
	"github.com/ordishs/gocore"
)

var (
	// httpRequestTimeout is applied when the context carries no deadline.
	httpRequestTimeout, _ = gocore.Config().GetInt("http_timeout", 60)
)

// DoHTTPRequest performs an HTTP GET, or a POST when requestBody is given, and returns the response body.
func DoHTTPRequest(ctx context.Context, url string, requestBody ...[]byte) ([]byte, error) {
	bodyReaderCloser, cancelFn, err := doHTTPRequest(ctx, url, requestBody...)
	defer cancelFn()

	if err != nil {
		return nil, err
	}

	defer func() {
		_ = bodyReaderCloser.Close()
	}()

	b, err := io.ReadAll(bodyReaderCloser)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewNetworkTimeoutError("http request [%s] timed out while reading body", url)
		}

		return nil, errors.NewServiceError("http request [%s] failed to read body", url, err)
	}

	return b, nil
}

func doHTTPRequest(ctx context.Context, url string, requestBody ...[]byte) (io.ReadCloser, context.CancelFunc, error) {
	cancelFn := func() {}

	if _, ok := ctx.Deadline(); !ok {
		ctx, cancelFn = context.WithTimeout(ctx, time.Duration(httpRequestTimeout)*time.Second)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cancelFn, errors.NewServiceError("failed to create http request", err)
	}

	// a request body means POST
	if len(requestBody) > 0 && requestBody[0] != nil {
		req.Body = io.NopCloser(bytes.NewReader(requestBody[0]))
		req.ContentLength = int64(len(requestBody[0]))
		req.Method = http.MethodPost
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, cancelFn, errors.NewNetworkTimeoutError("http request [%s] timed out", url, err)
		}

		return nil, cancelFn, errors.NewNetworkError("failed to do http request [%s]", url, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		defer func() {
			_ = resp.Body.Close()
		}()

		errFn := errors.NewServiceError
		switch {
		case resp.StatusCode == http.StatusNotFound:
			errFn = errors.NewNotFoundError
		case resp.StatusCode == http.StatusServiceUnavailable:
			errFn = errors.NewServiceUnavailableError
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			errFn = errors.NewInvalidArgumentError
		}

		b, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, cancelFn, errFn("http request [%s] returned status code [%d]", url, resp.StatusCode, readErr)
		}

		return nil, cancelFn, errFn("http request [%s] returned status code [%d] with body [%s]", url, resp.StatusCode, string(b))
	}

	if resp.Header.Get("content-type") == "text/html" {
		_ = resp.Body.Close()
		return nil, cancelFn, errors.NewServiceError("http request [%s] returned HTML - assume bad URL", url)
	}

	return resp.Body, cancelFn, nil
}
