package remote

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client calls a loxy.v1.Interpreter service.
type Client struct {
	conn   *grpc.ClientConn
	schema *Schema
}

// Dial connects to target without transport security. Extra options are
// applied after the defaults.
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	schema, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, schema: schema}, nil
}

// Run evaluates req on the server. Program errors come back in the response;
// the returned error is for transport and session failures.
func (c *Client) Run(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	in := c.schema.encodeRunRequest(req)
	out := newMessage(c.schema.Run.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(c.schema.Run), in, out); err != nil {
		return nil, err
	}
	return decodeRunResponse(out), nil
}

// CloseSession ends a session and reports whether it existed.
func (c *Client) CloseSession(ctx context.Context, sessionID string) (bool, error) {
	in := c.schema.encodeCloseRequest(sessionID)
	out := newMessage(c.schema.Close.GetOutputType())
	if err := c.conn.Invoke(ctx, fullMethod(c.schema.Close), in, out); err != nil {
		return false, err
	}
	return getBool(out, "closed"), nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
