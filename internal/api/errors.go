package api

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	grpcstatus "google.golang.org/grpc/status"

	"github.com/fixitnow/chatsync/internal/chat"
	"github.com/fixitnow/chatsync/internal/store"
)

// toStatus maps synchronizer errors onto gRPC status codes.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case chat.IsValidation(err):
		return grpcstatus.Error(codes.InvalidArgument, err.Error())
	case chat.IsAuth(err):
		return grpcstatus.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return grpcstatus.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.Canceled):
		return grpcstatus.Error(codes.Canceled, err.Error())
	default:
		return grpcstatus.Error(codes.Internal, err.Error())
	}
}
