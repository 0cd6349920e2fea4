package bybit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/cenkalti/backoff/v4"

	"github.com/tradeops/riskgate/internal/rerr"
)

// Error codes the v5 API returns in the envelope.
const (
	errCodeInvalidAPIKey    = 10003
	errCodeInvalidSignature = 10004
	errCodeInvalidTimestamp = 10005
	errCodeRateLimited      = 10006
	errCodeServerError      = 10016
)

// apiError is a non-zero retCode from the response envelope.
type apiError struct {
	Code    int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("bybit API error %d: %s", e.Code, e.Message)
}

func (e *apiError) retryable() bool {
	switch e.Code {
	case errCodeRateLimited, errCodeServerError,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// call runs one SDK invocation under the shared limiter with exponential
// retry. API errors that cannot succeed on a second attempt abort the
// backoff immediately; the rest retry until the budget runs out.
func (c *Client) call(ctx context.Context, operation string, fn func() (interface{}, error)) (interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, rerr.Wrap(err, rerr.CategoryRateLimit, "bybit", operation+" throttled")
	}

	var result interface{}
	attempt := func() error {
		r, err := fn()
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err // transport errors are worth another try
		}
		if apiErr := envelopeError(r); apiErr != nil {
			if apiErr.retryable() {
				return apiErr
			}
			return backoff.Permanent(apiErr)
		}
		result = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = c.cfg.RetryBudget

	if err := backoff.Retry(attempt, backoff.WithContext(bo, ctx)); err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Code == errCodeRateLimited {
			return nil, rerr.Wrap(rerr.ErrRateLimited, rerr.CategoryRateLimit, "bybit", operation)
		}
		c.log.Warn().Err(err).Str("operation", operation).Msg("exchange call failed")
		return nil, rerr.Exchange("bybit", fmt.Errorf("%s: %w", operation, err))
	}
	return result, nil
}

// envelopeError peeks at the retCode without decoding the payload.
func envelopeError(response interface{}) *apiError {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return nil
	}
	if serverResp.RetCode != 0 {
		return &apiError{Code: serverResp.RetCode, Message: serverResp.RetMsg}
	}
	return nil
}
