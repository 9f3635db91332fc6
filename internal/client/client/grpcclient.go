package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gmkitchen/internal/client/notebooksync"
	"github.com/dmitrijs2005/gmkitchen/internal/common"
	"github.com/dmitrijs2005/gmkitchen/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const defaultCallTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      rpc.NotebookServiceClient
	dialOpts    []grpc.DialOption
	callTimeout time.Duration

	mu        sync.Mutex
	session   Session
	onSession func(Session)
}

type Option func(*GRPCClient)

// WithDialOptions appends options to the ones NewGRPCClient dials with.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOpts = append(c.dialOpts, opts...) }
}

// WithSessionListener registers fn to be called whenever the session changes
// because of a login or a token refresh.
func WithSessionListener(fn func(Session)) Option {
	return func(c *GRPCClient) { c.onSession = fn }
}

// WithCallTimeout bounds every unary call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.callTimeout = d }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, callTimeout: defaultCallTimeout}
	for _, o := range opts {
		o(c)
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, c.dialOpts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewNotebookServiceClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	// RefreshToken is issued by refresh with mu held.
	if method == rpc.RefreshTokenMethod {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	sent := c.Session()

	err := invoker(withAccessToken(ctx, sent.AccessToken), method, req, reply, cc, opts...)
	if err == nil || !isTokenExpired(err) {
		return err
	}

	current, rotated, refreshErr := c.refresh(ctx, sent)
	if refreshErr != nil {
		return err
	}
	if rotated {
		c.notify(current)
	}

	return invoker(withAccessToken(ctx, current.AccessToken), method, req, reply, cc, opts...)
}

// refresh rotates the token pair unless a concurrent call already did it
// since sent was read. It returns the session to retry with.
func (c *GRPCClient) refresh(ctx context.Context, sent Session) (Session, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session.AccessToken != sent.AccessToken {
		return c.session, false, nil
	}
	if c.session.RefreshToken == "" {
		return Session{}, false, ErrUnauthorized
	}

	resp, err := c.client.RefreshToken(ctx, wrapperspb.String(c.session.RefreshToken))
	if err != nil {
		return Session{}, false, err
	}
	pair, err := rpc.TokenPairFromStruct(resp)
	if err != nil {
		return Session{}, false, err
	}

	c.session = Session{UserID: pair.UserID, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	return c.session, true, nil
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

func (c *GRPCClient) notify(s Session) {
	if c.onSession != nil {
		c.onSession(s)
	}
}

func (c *GRPCClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

func (c *GRPCClient) Register(ctx context.Context, username string, salt []byte, verifier []byte) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	req, err := rpc.Registration{Username: username, Salt: salt, Verifier: verifier}.Struct()
	if err != nil {
		return "", err
	}

	resp, err := c.client.RegisterUser(ctx, req)
	if err != nil {
		return "", c.mapError(err)
	}

	ref, err := rpc.UserRefFromStruct(resp)
	if err != nil {
		return "", err
	}
	return ref.UserID, nil
}

func (c *GRPCClient) GetSalt(ctx context.Context, username string) ([]byte, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.client.GetSalt(ctx, wrapperspb.String(username))
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp.GetValue(), nil
}

func (c *GRPCClient) Login(ctx context.Context, username string, verifier []byte) (Session, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	req, err := rpc.Credentials{Username: username, Verifier: verifier}.Struct()
	if err != nil {
		return Session{}, err
	}

	resp, err := c.client.Login(ctx, req)
	if err != nil {
		return Session{}, c.mapError(err)
	}

	pair, err := rpc.TokenPairFromStruct(resp)
	if err != nil {
		return Session{}, err
	}

	s := Session{UserID: pair.UserID, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	c.notify(s)

	return s, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) FetchNotebook(ctx context.Context) (*notebooksync.RemoteRecord, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	resp, err := c.client.FetchNotebook(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, c.mapError(err)
	}

	row, err := rpc.NotebookRowFromStruct(resp)
	if err != nil {
		return nil, err
	}
	if !row.Found {
		return nil, nil
	}
	return &notebooksync.RemoteRecord{Payload: row.Payload, Version: row.Version, UpdatedAt: row.UpdatedAt}, nil
}

func (c *GRPCClient) UpsertNotebook(ctx context.Context, rec notebooksync.RemoteRecord) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()

	req, err := rpc.NotebookRow{Payload: rec.Payload, Version: rec.Version, UpdatedAt: rec.UpdatedAt}.Struct()
	if err != nil {
		return err
	}

	if _, err := c.client.UpsertNotebook(ctx, req); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// RestoreSession installs a session saved by an earlier run. The listener
// is not called.
func (c *GRPCClient) RestoreSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return ErrAlreadyExists
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
