package bridge

import (
	"context"
	"encoding/json"
	"fmt"
)

// Greet returns a greeting embedding name verbatim. It has no side effects.
func Greet(name string) string {
	return fmt.Sprintf("Hello, %s! You've been greeted from Go!", name)
}

type greetArgs struct {
	Name string `json:"name"`
}

// GreetCommand exposes Greet under the "greet" name.
func GreetCommand() Command {
	return Command{
		Name: NameGreet,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			var args greetArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return Greet(args.Name), nil
		},
	}
}
