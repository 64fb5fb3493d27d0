package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/buildpcbs/internal/ipc"
	"github.com/example/buildpcbs/internal/protocol"
)

// Client talks to a running shell over its bridge endpoint.
type Client struct {
	endpoint ipc.Endpoint
	token    string
}

// NewClient returns a client for endpoint using token.
func NewClient(endpoint ipc.Endpoint, token string) *Client {
	return &Client{endpoint: endpoint, token: token}
}

// RemoteError is an error message returned by the shell.
type RemoteError struct {
	Command string
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Command, e.Message)
}

// Call invokes command with args and returns the raw JSON result.
func (c *Client) Call(ctx context.Context, command string, args any) (json.RawMessage, error) {
	conn, err := c.endpoint.DialContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.endpoint.String(), err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	req, err := c.request(command, args)
	if err != nil {
		return nil, err
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	var resp protocol.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.Error != "" {
		return nil, &RemoteError{Command: command, Message: resp.Error}
	}
	return resp.Result, nil
}

// Subscribe streams menu events to fn until ctx is canceled or the shell
// closes the connection.
func (c *Client) Subscribe(ctx context.Context, fn func(protocol.Event)) error {
	conn, err := c.endpoint.DialContext(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.endpoint.String(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	req, err := c.request(protocol.CommandSubscribe, nil)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("send subscribe: %w", err)
	}

	decoder := json.NewDecoder(conn)
	var ack protocol.Response
	if err := decoder.Decode(&ack); err != nil {
		return fmt.Errorf("read subscribe ack: %w", err)
	}
	if ack.Error != "" {
		return &RemoteError{Command: protocol.CommandSubscribe, Message: ack.Error}
	}

	for {
		var ev protocol.Event
		if err := decoder.Decode(&ev); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}
		fn(ev)
	}
}

func (c *Client) request(command string, args any) (protocol.Request, error) {
	if command == "" {
		return protocol.Request{}, errors.New("missing command")
	}
	req := protocol.Request{ID: uuid.NewString(), Token: c.token, Command: command}
	if args != nil {
		raw, err := json.Marshal(args)
		if err != nil {
			return protocol.Request{}, fmt.Errorf("encode arguments: %w", err)
		}
		req.Args = raw
	}
	return req, nil
}
