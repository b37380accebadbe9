package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"github.com/goodnatureofminers/blockinsight7000-balances/internal/clock"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

// RetryConfig bounds how transport failures are retried.
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per call, including the first.
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func (c RetryConfig) newBackOff() backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if c.InitialInterval > 0 {
		exp.InitialInterval = c.InitialInterval
	}
	if c.MaxInterval > 0 {
		exp.MaxInterval = c.MaxInterval
	}
	exp.MaxElapsedTime = 0
	exp.Reset()

	retries := uint64(0)
	if c.MaxAttempts > 1 {
		retries = c.MaxAttempts - 1
	}
	return backoff.WithMaxRetries(exp, retries)
}

// RPCClient issues JSON-RPC calls with rate limiting, metrics and bounded retries.
type RPCClient struct {
	client     RPCCaller
	rpcMetrics RPCMetrics
	limiter    ratelimit.Limiter
	retry      RetryConfig
	sleep      func(context.Context, time.Duration) error
	logger     *zap.Logger
}

// NewRPCClient constructs an instrumented RPC client. A rate of zero or less disables
// rate limiting.
func NewRPCClient(client RPCCaller, rpcMetrics RPCMetrics, rate int, retry RetryConfig, logger *zap.Logger) *RPCClient {
	limiter := ratelimit.NewUnlimited()
	if rate > 0 {
		limiter = ratelimit.New(rate)
	}
	return &RPCClient{
		client:     client,
		rpcMetrics: rpcMetrics,
		limiter:    limiter,
		retry:      retry,
		sleep:      clock.SleepWithContext,
		logger:     logger,
	}
}

// Dial connects to an HTTP JSON-RPC endpoint.
func Dial(ctx context.Context, rawURL string, timeout time.Duration) (*gethrpc.Client, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse rpc url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("rpc url scheme %q not supported, use http or https", parsed.Scheme)
	}
	if parsed.Host == "" {
		return nil, errors.New("rpc url missing host")
	}

	return gethrpc.DialOptions(ctx, rawURL, gethrpc.WithHTTPClient(&http.Client{Timeout: timeout}))
}

// Call sends method with positional args and decodes the result field into result.
// Transport failures are retried with exponential backoff up to the configured number
// of attempts; decode failures and context cancellation return immediately.
func (c *RPCClient) Call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	bo := c.retry.newBackOff()
	for attempt := 1; ; attempt++ {
		c.limiter.Take()

		started := time.Now()
		err := c.call(ctx, result, method, args...)
		c.rpcMetrics.Observe(method, err, started)
		if err == nil {
			return nil
		}
		if !IsTransport(err) || ctx.Err() != nil {
			return err
		}

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("giving up after %d attempts: %w", attempt, err)
		}
		c.rpcMetrics.ObserveRetry(method)
		c.logger.Warn("rpc call failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		if err := c.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (c *RPCClient) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	err := c.client.CallContext(ctx, result, method, args...)
	if err == nil {
		return nil
	}

	var httpErr gethrpc.HTTPError
	if !errors.As(err, &httpErr) {
		return classify(ctx, method, err)
	}

	c.logger.Warn("rpc endpoint returned non-success status",
		zap.String("method", method),
		zap.Int("status", httpErr.StatusCode),
		zap.ByteString("body", httpErr.Body),
	)
	return decodeResponseBody(method, httpErr, result)
}

// decodeResponseBody recovers a JSON-RPC response from the body of a non-success
// HTTP response. Bodies that are not a JSON-RPC response stay transport failures.
func decodeResponseBody(method string, httpErr gethrpc.HTTPError, result interface{}) error {
	var msg struct {
		Result json.RawMessage `json:"result"`
		Error  *ResponseError  `json:"error"`
	}
	if err := json.Unmarshal(httpErr.Body, &msg); err != nil || (msg.Result == nil && msg.Error == nil) {
		return &TransportError{Method: method, Err: httpErr}
	}

	if msg.Error != nil {
		if httpErr.StatusCode == http.StatusTooManyRequests {
			return &TransportError{Method: method, Err: msg.Error}
		}
		return &DecodeError{Method: method, Err: msg.Error}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(msg.Result, result); err != nil {
		return &DecodeError{Method: method, Err: err}
	}
	return nil
}
