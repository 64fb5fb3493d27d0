package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/example/buildpcbs/internal/bridge"
	"github.com/example/buildpcbs/internal/ipc"
	"github.com/example/buildpcbs/internal/logging"
	"github.com/example/buildpcbs/internal/protocol"
	"github.com/example/buildpcbs/internal/security"
)

const idleTimeout = 5 * time.Minute

// Service exposes the command bridge and the menu event stream to the
// embedded frontend over a loopback JSON-lines connection.
type Service struct {
	registry *bridge.Registry
	events   *Broadcaster
	token    string
	endpoint ipc.Endpoint
}

// New constructs a Service. The token must be non-empty.
func New(registry *bridge.Registry, events *Broadcaster, endpoint ipc.Endpoint, token string) (*Service, error) {
	if registry == nil {
		return nil, errors.New("nil command registry")
	}
	if events == nil {
		return nil, errors.New("nil event broadcaster")
	}
	if token == "" {
		return nil, errors.New("bridge token could not be resolved; set BUILDPCBS_SERVICE_TOKEN or BUILDPCBS_SECRET")
	}
	return &Service{
		registry: registry,
		events:   events,
		token:    token,
		endpoint: endpoint,
	}, nil
}

// Endpoint exposes the listening endpoint for logging and diagnostics.
func (s *Service) Endpoint() string {
	return s.endpoint.String()
}

// Listen binds the endpoint. Binding is separate from Serve so startup can
// fail before the menu is installed.
func (s *Service) Listen() (net.Listener, error) {
	listener, err := s.endpoint.Listen()
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", s.endpoint.String(), err)
	}
	return listener, nil
}

// Serve accepts connections on listener until the context is canceled.
func (s *Service) Serve(ctx context.Context, listener net.Listener) error {
	defer listener.Close()

	logging.Infof("bridge listening on %s", listener.Addr())

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				logging.Infof("bridge shutting down")
				return context.Canceled
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				logging.Warnf("temporary accept error: %v", err)
				time.Sleep(250 * time.Millisecond)
				continue
			}
			return fmt.Errorf("accept connection: %w", err)
		}

		go s.handleConnection(ctx, conn)
	}
}

func (s *Service) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		<-connCtx.Done()
		_ = conn.Close()
	}()

	decoder := json.NewDecoder(conn)
	encoder := json.NewEncoder(conn)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(idleTimeout))

		var req protocol.Request
		if err := decoder.Decode(&req); err != nil {
			if !errors.Is(err, io.EOF) && connCtx.Err() == nil {
				logging.Debugf("bridge: failed to decode request: %v", err)
			}
			return
		}
		if req.ID == "" {
			req.ID = uuid.NewString()
		}

		if !security.Equal(req.Token, s.token) {
			logging.Warnf("bridge: rejected %s request %s with token %s", req.Command, req.ID, logging.MaskIdentifier(req.Token))
			_ = encoder.Encode(protocol.Response{ID: req.ID, Error: protocol.MsgUnauthorized})
			return
		}

		if req.Command == protocol.CommandSubscribe {
			_ = conn.SetReadDeadline(time.Time{})
			s.stream(connCtx, cancel, decoder, encoder, req.ID)
			return
		}

		if err := encoder.Encode(s.dispatch(connCtx, req)); err != nil {
			logging.Debugf("bridge: failed to write response %s: %v", req.ID, err)
			return
		}
	}
}

func (s *Service) dispatch(ctx context.Context, req protocol.Request) protocol.Response {
	logging.Debugf("bridge: %s (%s)", req.Command, req.ID)

	out, err := s.registry.Dispatch(ctx, req.Command, req.Args)
	if err != nil {
		return protocol.Response{ID: req.ID, Error: err.Error()}
	}

	result, err := json.Marshal(out)
	if err != nil {
		return protocol.Response{ID: req.ID, Error: fmt.Sprintf("encode result: %v", err)}
	}
	return protocol.Response{ID: req.ID, Result: result}
}

// stream forwards menu events until the peer disconnects or ctx ends.
func (s *Service) stream(ctx context.Context, cancel context.CancelFunc, decoder *json.Decoder, encoder *json.Encoder, id string) {
	events, unsubscribe := s.events.Subscribe()
	defer unsubscribe()

	if err := encoder.Encode(protocol.Response{ID: id, Result: json.RawMessage(`"subscribed"`)}); err != nil {
		return
	}
	logging.Debugf("bridge: subscriber %s attached", id)

	// Any further input, or a closed connection, ends the subscription.
	go func() {
		var discard json.RawMessage
		_ = decoder.Decode(&discard)
		cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			logging.Debugf("bridge: subscriber %s detached", id)
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := encoder.Encode(ev); err != nil {
				logging.Debugf("bridge: subscriber %s write failed: %v", id, err)
				return
			}
		}
	}
}
