// Package rpc declares the gmkitchen.v1.NotebookService gRPC contract.
//
// The service is declared by hand instead of generated from a .proto file:
// every request and response is a protobuf well-known type (Empty,
// StringValue, BytesValue, Struct), so grpc's default proto codec carries
// them and no generated message code is needed. The typed wrappers in
// messages.go convert between those Structs and Go values.
package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "gmkitchen.v1.NotebookService"

const (
	PingMethod           = "/" + ServiceName + "/Ping"
	RegisterUserMethod   = "/" + ServiceName + "/RegisterUser"
	GetSaltMethod        = "/" + ServiceName + "/GetSalt"
	LoginMethod          = "/" + ServiceName + "/Login"
	RefreshTokenMethod   = "/" + ServiceName + "/RefreshToken"
	FetchNotebookMethod  = "/" + ServiceName + "/FetchNotebook"
	UpsertNotebookMethod = "/" + ServiceName + "/UpsertNotebook"
)

// RequiresAuth reports whether fullMethod needs an access token.
func RequiresAuth(fullMethod string) bool {
	switch fullMethod {
	case FetchNotebookMethod, UpsertNotebookMethod:
		return true
	default:
		return false
	}
}

// NotebookServiceServer is the server API of the service.
type NotebookServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	RegisterUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSalt(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RefreshToken(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	FetchNotebook(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpsertNotebook(context.Context, *structpb.Struct) (*emptypb.Empty, error)
}

// NotebookServiceClient is the client API of the service.
type NotebookServiceClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSalt(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	RefreshToken(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	FetchNotebook(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpsertNotebook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

// ServiceDesc describes the service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NotebookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unaryHandler[emptypb.Empty](PingMethod, NotebookServiceServer.Ping)},
		{MethodName: "RegisterUser", Handler: unaryHandler[structpb.Struct](RegisterUserMethod, NotebookServiceServer.RegisterUser)},
		{MethodName: "GetSalt", Handler: unaryHandler[wrapperspb.StringValue](GetSaltMethod, NotebookServiceServer.GetSalt)},
		{MethodName: "Login", Handler: unaryHandler[structpb.Struct](LoginMethod, NotebookServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unaryHandler[wrapperspb.StringValue](RefreshTokenMethod, NotebookServiceServer.RefreshToken)},
		{MethodName: "FetchNotebook", Handler: unaryHandler[emptypb.Empty](FetchNotebookMethod, NotebookServiceServer.FetchNotebook)},
		{MethodName: "UpsertNotebook", Handler: unaryHandler[structpb.Struct](UpsertNotebookMethod, NotebookServiceServer.UpsertNotebook)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gmkitchen/v1/notebook",
}

// RegisterNotebookServiceServer registers srv on s.
func RegisterNotebookServiceServer(s grpc.ServiceRegistrar, srv NotebookServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unaryHandler builds the grpc method handler for one server method: it
// decodes the request, then calls the method directly or through the
// server's interceptor chain.
func unaryHandler[Req any, PReq interface {
	*Req
	proto.Message
}, Resp proto.Message](fullMethod string, call func(NotebookServiceServer, context.Context, PReq) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(NotebookServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type notebookServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNotebookServiceClient(cc grpc.ClientConnInterface) NotebookServiceClient {
	return &notebookServiceClient{cc: cc}
}

func invoke[Resp any, PResp interface {
	*Resp
	proto.Message
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, opts []grpc.CallOption) (PResp, error) {
	out := PResp(new(Resp))
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *notebookServiceClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, PingMethod, in, opts)
}

func (c *notebookServiceClient) RegisterUser(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, RegisterUserMethod, in, opts)
}

func (c *notebookServiceClient) GetSalt(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	return invoke[wrapperspb.BytesValue](ctx, c.cc, GetSaltMethod, in, opts)
}

func (c *notebookServiceClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, LoginMethod, in, opts)
}

func (c *notebookServiceClient) RefreshToken(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, RefreshTokenMethod, in, opts)
}

func (c *notebookServiceClient) FetchNotebook(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, FetchNotebookMethod, in, opts)
}

func (c *notebookServiceClient) UpsertNotebook(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, UpsertNotebookMethod, in, opts)
}
