package rpc

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const requestIDHeader = "x-request-id"

// UnaryServerLogging logs every call with its request id, status code and latency.
// A request id is generated when the caller did not send one.
func UnaryServerLogging(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	id := requestID(ctx)
	if id == "" {
		id = uuid.NewString()
	}
	_ = grpc.SetHeader(ctx, metadata.Pairs(requestIDHeader, id))

	resp, err := handler(ctx, req)
	if err != nil {
		log.Printf("[error] %s request_id=%s code=%s took=%s: %s", info.FullMethod, id, status.Code(err), time.Since(start), status.Convert(err).Message())
		return resp, err
	}
	log.Printf("[info] %s request_id=%s code=OK took=%s", info.FullMethod, id, time.Since(start))
	return resp, nil
}

// UnaryClientRequestID attaches a fresh request id to outgoing calls that carry none.
func UnaryClientRequestID(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, invoker grpc.UnaryInvoker, opts ...grpc.CallOption) error {
	if md, ok := metadata.FromOutgoingContext(ctx); !ok || len(md.Get(requestIDHeader)) == 0 {
		ctx = metadata.AppendToOutgoingContext(ctx, requestIDHeader, uuid.NewString())
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func requestID(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(requestIDHeader); len(values) > 0 {
		return values[0]
	}
	return ""
}
