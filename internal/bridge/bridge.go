// Package bridge implements the command surface the embedded frontend calls
// into. Commands are registered once at startup into a read-only Registry and
// dispatched by name.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Name identifies a bridge command. The set is closed.
type Name string

const (
	NameGreet    Name = "greet"
	NameSaveFile Name = "save_file"
)

var knownNames = map[Name]struct{}{
	NameGreet:    {},
	NameSaveFile: {},
}

// ParseName validates a raw command name against the known set.
func ParseName(raw string) (Name, error) {
	n := Name(raw)
	if _, ok := knownNames[n]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCommand, raw)
	}
	return n, nil
}

var (
	// ErrUnknownCommand is returned when dispatching a name that is not registered.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArguments wraps argument decoding failures.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// Handler executes a command with raw JSON arguments and returns a value that
// is encoded back to the caller.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Command is a named, callable operation.
type Command struct {
	Name    Name
	Handler Handler
}

// Registry maps command names to handlers. It is immutable once built.
type Registry struct {
	commands map[Name]Handler
}

// NewRegistry builds a registry, rejecting unknown, duplicate or nil entries.
func NewRegistry(commands ...Command) (*Registry, error) {
	r := &Registry{commands: make(map[Name]Handler, len(commands))}
	for _, cmd := range commands {
		if _, ok := knownNames[cmd.Name]; !ok {
			return nil, fmt.Errorf("register %q: %w", cmd.Name, ErrUnknownCommand)
		}
		if cmd.Handler == nil {
			return nil, fmt.Errorf("register %q: nil handler", cmd.Name)
		}
		if _, dup := r.commands[cmd.Name]; dup {
			return nil, fmt.Errorf("register %q: duplicate command", cmd.Name)
		}
		r.commands[cmd.Name] = cmd.Handler
	}
	return r, nil
}

// Names returns the registered command names in sorted order.
func (r *Registry) Names() []Name {
	out := make([]Name, 0, len(r.commands))
	for name := range r.commands {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Has reports whether name is registered.
func (r *Registry) Has(name Name) bool {
	_, ok := r.commands[name]
	return ok
}

// Dispatch looks up the command by name and invokes it.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) (any, error) {
	handler, ok := r.commands[Name(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return handler(ctx, args)
}

// decodeArgs unmarshals args into dst. Empty or null arguments leave dst at
// its zero value.
func decodeArgs(args json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(args)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}
