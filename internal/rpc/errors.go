package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"task-manager/internal/model"
)

// Error is what the client returns for a failed call. It keeps the server's
// message and matches the model sentinel errors with errors.Is.
type Error struct {
	Code    codes.Code
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	switch target {
	case model.ErrNotFound:
		return e.Code == codes.NotFound
	case model.ErrValidation:
		return e.Code == codes.InvalidArgument
	case model.ErrCategoryInUse:
		return e.Code == codes.FailedPrecondition
	default:
		return false
	}
}

// toStatus maps service errors onto gRPC codes. Store failures keep their message.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrCategoryInUse):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Unavailable, err.Error())
	}
}

func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	return &Error{Code: st.Code(), Message: st.Message()}
}
