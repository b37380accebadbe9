package ethereum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrBlockNotFound is returned when the node answers a block query with null.
	ErrBlockNotFound = errors.New("block not found")
	// ErrNullResult is returned when the node answers with a null result where a value is required.
	ErrNullResult = errors.New("null result")
)

// TransportError is a failure to exchange a request with the node.
// Calls failing with a TransportError may be retried.
type TransportError struct {
	Method string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Method, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is a response that could not be turned into a result: a JSON-RPC error
// object, malformed JSON, a non-hex numeric field or a missing result.
// Calls failing with a DecodeError are never retried.
type DecodeError struct {
	Method string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode: %v", e.Method, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ResponseError is a JSON-RPC error object recovered from a non-success HTTP response.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (e *ResponseError) ErrorCode() int {
	return e.Code
}

// IsTransport reports whether err is a retryable transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsDecode reports whether err is a decode failure.
func IsDecode(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}

func classify(ctx context.Context, method string, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return err
	}

	var (
		rpcErr    gethrpc.Error
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &rpcErr),
		errors.As(err, &typeErr),
		errors.As(err, &syntaxErr),
		errors.Is(err, gethrpc.ErrNoResult):
		return &DecodeError{Method: method, Err: err}
	default:
		return &TransportError{Method: method, Err: err}
	}
}
