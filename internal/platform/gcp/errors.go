package gcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/storage"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jsamuelsen11/gcp-samples/internal/domain"
)

// TranslateError maps Google Cloud SDK errors onto domain sentinels. The SDK
// error stays in the chain, so both errors.Is(err, domain.ErrNotFound) and
// status.Code(err) keep working. Unknown errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	if sentinel := sentinelFor(err); sentinel != nil {
		return fmt.Errorf("%w: %w", sentinel, err)
	}
	return err
}

func sentinelFor(err error) error {
	if code, ok := grpcCode(err); ok {
		switch code {
		case codes.NotFound:
			return domain.ErrNotFound
		case codes.AlreadyExists, codes.FailedPrecondition, codes.Aborted:
			return domain.ErrConflict
		case codes.PermissionDenied, codes.Unauthenticated:
			return domain.ErrForbidden
		case codes.InvalidArgument, codes.OutOfRange:
			return domain.ErrValidation
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Internal:
			return domain.ErrUnavailable
		}
	}
	if code, ok := httpCode(err); ok {
		switch {
		case code == http.StatusNotFound:
			return domain.ErrNotFound
		case code == http.StatusConflict, code == http.StatusPreconditionFailed:
			return domain.ErrConflict
		case code == http.StatusForbidden, code == http.StatusUnauthorized:
			return domain.ErrForbidden
		case code == http.StatusBadRequest:
			return domain.ErrValidation
		case code == http.StatusTooManyRequests, code >= http.StatusInternalServerError:
			return domain.ErrUnavailable
		}
	}
	return nil
}

// IsRetryable reports whether err is a transient service error worth
// retrying: gRPC Unavailable, DeadlineExceeded, ResourceExhausted, Aborted or
// Internal, and HTTP 429 or 5xx. Context cancellation is never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if code, ok := grpcCode(err); ok {
		switch code {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted, codes.Internal:
			return true
		default:
			return false
		}
	}
	if code, ok := httpCode(err); ok {
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return false
}

// grpcCode extracts a gRPC status code. Unknown is treated as absent because
// status.FromError reports it for every non-gRPC error.
func grpcCode(err error) (codes.Code, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if st := apiErr.GRPCStatus(); st != nil && st.Code() != codes.Unknown {
			return st.Code(), true
		}
	}
	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown && st.Code() != codes.OK {
		return st.Code(), true
	}
	return codes.OK, false
}

func httpCode(err error) (int, bool) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPCode() > 0 {
		return apiErr.HTTPCode(), true
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return gErr.Code, true
	}
	return 0, false
}
