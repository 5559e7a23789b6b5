package externalApi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
)

// StatusError is returned for responses the upstream answered with 5xx.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream responded with %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DoWithRetry runs do until it returns a non-5xx response, a transport
// error survives maxElapsed, or ctx is done. 4xx responses are returned
// as is for the caller to interpret.
func DoWithRetry(ctx context.Context, maxElapsed time.Duration, do func() (*resty.Response, error)) (*resty.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = maxElapsed

	return backoff.RetryWithData(func() (*resty.Response, error) {
		resp, err := do()
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}

		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, &StatusError{StatusCode: resp.StatusCode()}
		}

		return resp, nil
	}, backoff.WithContext(bo, ctx))
}
