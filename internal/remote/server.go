package remote

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/funvibe/loxy/internal/backend"
	"github.com/funvibe/loxy/internal/diagnostics"
	"github.com/funvibe/loxy/internal/evaluator"
)

// SourceName is the file name reported in diagnostics for remote runs.
const SourceName = "<remote>"

// interpreterServer is the handler type registered for the service.
type interpreterServer interface {
	Run(ctx context.Context, req *RunRequest) (*RunResponse, error)
	CloseSession(ctx context.Context, sessionID string) (bool, error)
}

type Options struct {
	SessionTTL time.Duration
	MaxDepth   int
	Logger     *log.Logger
}

// Server implements loxy.v1.Interpreter.
type Server struct {
	schema *Schema
	store  *SessionStore
	logger *log.Logger
}

func NewServer(opts Options) (*Server, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(os.Stderr, "", 0)
	}
	return &Server{
		schema: schema,
		store:  NewSessionStore(opts.SessionTTL, opts.MaxDepth),
		logger: logger,
	}, nil
}

// Sessions exposes the session store.
func (s *Server) Sessions() *SessionStore {
	return s.store
}

// Run evaluates req.Source in the requested session, creating one when
// req.SessionID is empty. Program failures are reported in the response;
// only an unknown session is an RPC error.
func (s *Server) Run(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	var sess *Session
	if req.SessionID == "" {
		sess = s.store.Create()
		s.logger.Printf("session %s created", sess.ID)
	} else {
		var ok bool
		sess, ok = s.store.Get(req.SessionID)
		if !ok {
			return nil, status.Errorf(codes.NotFound, "unknown session %q", req.SessionID)
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.out.Reset()
	sess.backend.Evaluator.Context = ctx
	defer func() { sess.backend.Evaluator.Context = nil }()

	result := backend.RunSource(sess.backend, req.Source, SourceName)

	resp := &RunResponse{SessionID: sess.ID, Lines: sess.out.Lines()}
	if result.Failed() {
		resp.ErrorKind = errorKind(result.Errors[0])
		resp.Error = diagnostics.Format(result.Errors)
	}
	return resp, nil
}

func (s *Server) CloseSession(_ context.Context, sessionID string) (bool, error) {
	closed := s.store.Close(sessionID)
	if closed {
		s.logger.Printf("session %s closed", sessionID)
	}
	return closed, nil
}

func errorKind(d *diagnostics.DiagnosticError) string {
	if !d.IsRuntime() {
		return string(d.Code)
	}
	if name := evaluator.KindName(d); name != "" {
		return name
	}
	return string(d.Code)
}

// Register adds the service to gs.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(s.serviceDesc(), s)
}

func (s *Server) serviceDesc() *grpc.ServiceDesc {
	schema := s.schema
	return &grpc.ServiceDesc{
		ServiceName: schema.Service.GetFullyQualifiedName(),
		HandlerType: (*interpreterServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: runMethod,
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
					in := newMessage(schema.Run.GetInputType())
					if err := dec(in); err != nil {
						return nil, err
					}
					handler := func(ctx context.Context, req interface{}) (interface{}, error) {
						resp, err := srv.(interpreterServer).Run(ctx, decodeRunRequest(req.(*dynamicpb.Message)))
						if err != nil {
							return nil, err
						}
						return schema.encodeRunResponse(resp), nil
					}
					return intercept(ctx, in, srv, fullMethod(schema.Run), handler, interceptor)
				},
			},
			{
				MethodName: closeMethod,
				Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
					in := newMessage(schema.Close.GetInputType())
					if err := dec(in); err != nil {
						return nil, err
					}
					handler := func(ctx context.Context, req interface{}) (interface{}, error) {
						closed, err := srv.(interpreterServer).CloseSession(ctx, getString(req.(*dynamicpb.Message), "session_id"))
						if err != nil {
							return nil, err
						}
						return schema.encodeCloseResponse(closed), nil
					}
					return intercept(ctx, in, srv, fullMethod(schema.Close), handler, interceptor)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: protoFile,
	}
}

func intercept(ctx context.Context, in interface{}, srv interface{}, method string, handler grpc.UnaryHandler, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	if interceptor == nil {
		return handler(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
	return interceptor(ctx, in, info, handler)
}

// Serve accepts connections on lis until ctx is cancelled, expiring idle
// sessions in the background.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	gs := grpc.NewServer()
	s.Register(gs)

	go s.reap(ctx)
	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	s.logger.Printf("serving %s on %s", ServiceName, lis.Addr())
	if err := gs.Serve(lis); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// ListenAndServe listens on the TCP address addr and calls Serve.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, lis)
}

func (s *Server) reap(ctx context.Context) {
	if s.store.ttl <= 0 {
		return
	}
	interval := s.store.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range s.store.Sweep() {
				s.logger.Printf("session %s expired", id)
			}
		}
	}
}
