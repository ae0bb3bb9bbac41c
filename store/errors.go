package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

var (
	// ErrThrottled is returned when the store rejected a call for exceeding throughput. Transient.
	ErrThrottled = errors.New("lattice: store throttled the request")

	// ErrUnavailable is returned when the store could not be reached or failed internally. Transient.
	ErrUnavailable = errors.New("lattice: store unavailable")

	// ErrInvalidQuery is returned when the store rejected a malformed request. Never retried.
	ErrInvalidQuery = errors.New("lattice: store rejected query")

	// ErrInvalidCursor is returned when a cursor cannot be decoded into a start key.
	ErrInvalidCursor = errors.New("lattice: invalid store cursor")
)

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrThrottled) || errors.Is(err, ErrUnavailable)
}

var invalidQueryCodes = map[string]struct{}{
	"ValidationException":       {},
	"ResourceNotFoundException": {},
	"SerializationException":    {},
}

var unavailableCodes = map[string]struct{}{
	"InternalServerError": {},
	"InternalFailure":     {},
	"ServiceUnavailable":  {},
}

var (
	throttles  = retry.IsErrorThrottles(retry.DefaultThrottles)
	retryables = retry.IsErrorRetryables(retry.DefaultRetryables)
)

// classify maps DynamoDB client errors onto the store error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pte *types.ProvisionedThroughputExceededException
	var rle *types.RequestLimitExceeded
	var ise *types.InternalServerError
	switch {
	case errors.As(err, &pte), errors.As(err, &rle):
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	case errors.As(err, &ise):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		if _, ok := retry.DefaultThrottleErrorCodes[code]; ok {
			return fmt.Errorf("%w: %w", ErrThrottled, err)
		}
		if _, ok := unavailableCodes[code]; ok {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if _, ok := invalidQueryCodes[code]; ok {
			return fmt.Errorf("%w: %w", ErrInvalidQuery, err)
		}
	}

	if throttles.IsErrorThrottle(err) == aws.TrueTernary {
		return fmt.Errorf("%w: %w", ErrThrottled, err)
	}
	if retryables.IsErrorRetryable(err) == aws.TrueTernary {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return err
}
