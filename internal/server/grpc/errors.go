package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/credkeeper/internal/common"
	"github.com/dmitrijs2005/credkeeper/internal/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// statusMapping is checked in order; the first matching error wins.
var statusMapping = []struct {
	err  error
	code codes.Code
	msg  string
}{
	{common.ErrMalformedInput, codes.InvalidArgument, ""},
	{common.ErrDuplicateIdentity, codes.AlreadyExists, common.ErrDuplicateIdentity.Error()},
	{common.ErrInvalidCredentials, codes.Unauthenticated, common.ErrInvalidCredentials.Error()},
	{common.ErrorUnauthorized, codes.Unauthenticated, common.ErrorUnauthorized.Error()},
	{common.ErrTokenExpired, codes.Unauthenticated, common.ErrTokenExpired.Error()},
	{common.ErrInvalidToken, codes.Unauthenticated, common.ErrInvalidToken.Error()},
}

// toStatus converts a service error into a gRPC status. Unknown errors are
// logged and reported as a bare Internal.
func toStatus(ctx context.Context, log logging.Logger, err error) error {
	for _, m := range statusMapping {
		if errors.Is(err, m.err) {
			msg := m.msg
			if msg == "" {
				msg = err.Error()
			}
			return status.Error(m.code, msg)
		}
	}

	log.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, "internal error")
}
