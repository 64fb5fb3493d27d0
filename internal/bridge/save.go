package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/buildpcbs/internal/logging"
)

// MkdirPolicy controls what SaveFile does when the documents directory cannot
// be created.
type MkdirPolicy int

const (
	// MkdirIgnore logs the failure and still attempts the write.
	MkdirIgnore MkdirPolicy = iota
	// MkdirAbort returns the failure to the caller.
	MkdirAbort
)

// ParseMkdirPolicy maps a settings value to a policy.
func ParseMkdirPolicy(raw string) (MkdirPolicy, error) {
	switch raw {
	case "", "ignore":
		return MkdirIgnore, nil
	case "abort":
		return MkdirAbort, nil
	default:
		return MkdirIgnore, fmt.Errorf("unknown mkdir policy %q", raw)
	}
}

func (p MkdirPolicy) String() string {
	switch p {
	case MkdirAbort:
		return "abort"
	default:
		return "ignore"
	}
}

// IOError reports a failed directory or file operation. It is the only error
// kind SaveFile produces.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, unwrapPathError(e.Err))
}

func (e *IOError) Unwrap() error { return e.Err }

func unwrapPathError(err error) error {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err
	}
	return err
}

// SaveRequest is the argument shape of save_file.
type SaveRequest struct {
	Path     string `json:"path"`
	Contents string `json:"contents"`
}

// Saver persists frontend payloads under the user's documents directory.
//
// With a home directory the caller path is joined under it with
// filepath.Join: an absolute path is nested below the documents directory
// rather than replacing it, while "../" segments can still climb out.
// When no home directory is available the caller-supplied path is used
// unmodified, so relative paths resolve against the working directory and
// absolute or "../" paths are honoured as given.
type Saver struct {
	// LookupHome reports the home directory; nil uses the HOME variable.
	LookupHome   func() (string, bool)
	DocumentsDir string
	OnMkdirFail  MkdirPolicy
}

// NewSaver returns a Saver reading HOME and writing under "Documents".
func NewSaver() *Saver {
	return &Saver{DocumentsDir: "Documents", OnMkdirFail: MkdirIgnore}
}

// Resolve computes the target path for a request and whether the home branch
// was taken. It performs no I/O.
func (s *Saver) Resolve(path string) (target string, baseDir string, home bool) {
	lookup := s.LookupHome
	if lookup == nil {
		lookup = func() (string, bool) { return os.LookupEnv("HOME") }
	}
	h, ok := lookup()
	if !ok {
		return path, "", false
	}
	docs := s.DocumentsDir
	if docs == "" {
		docs = "Documents"
	}
	baseDir = filepath.Join(h, docs)
	return filepath.Join(baseDir, path), baseDir, true
}

// SaveFile writes req.Contents to the resolved target, truncating any
// existing file. Repeated calls overwrite; a failure mid-write may leave a
// partial file. Concurrent calls on one path are not serialised.
func (s *Saver) SaveFile(req SaveRequest) error {
	logging.Debugf("request to save file: %s", req.Path)
	if cwd, err := os.Getwd(); err == nil {
		logging.Debugf("current working directory: %s", cwd)
	} else {
		logging.Debugf("could not get working directory: %v", err)
	}

	target, baseDir, home := s.Resolve(req.Path)
	if home {
		if err := os.MkdirAll(baseDir, 0o755); err != nil {
			if s.OnMkdirFail == MkdirAbort {
				return &IOError{Op: "create directory", Path: baseDir, Err: err}
			}
			logging.Warnf("could not create %s, continuing: %v", baseDir, err)
		}
	}

	logging.Debugf("writing to: %s", target)

	f, err := os.Create(target)
	if err != nil {
		return &IOError{Op: "create", Path: target, Err: err}
	}
	if _, err := f.WriteString(req.Contents); err != nil {
		f.Close()
		return &IOError{Op: "write", Path: target, Err: err}
	}
	if err := f.Close(); err != nil {
		return &IOError{Op: "close", Path: target, Err: err}
	}
	return nil
}

// saveArgs tells a missing argument apart from an empty one.
type saveArgs struct {
	Path     *string `json:"path"`
	Contents *string `json:"contents"`
}

func (a saveArgs) request() (SaveRequest, error) {
	if a.Path == nil {
		return SaveRequest{}, fmt.Errorf("%w: missing required argument path", ErrInvalidArguments)
	}
	if a.Contents == nil {
		return SaveRequest{}, fmt.Errorf("%w: missing required argument contents", ErrInvalidArguments)
	}
	return SaveRequest{Path: *a.Path, Contents: *a.Contents}, nil
}

// SaveFileCommand exposes SaveFile under the "save_file" name.
func SaveFileCommand(s *Saver) Command {
	return Command{
		Name: NameSaveFile,
		Handler: func(_ context.Context, raw json.RawMessage) (any, error) {
			var args saveArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			req, err := args.request()
			if err != nil {
				return nil, err
			}
			if err := s.SaveFile(req); err != nil {
				return nil, err
			}
			return nil, nil
		},
	}
}

// DefaultCommands returns every bridge command wired to s.
func DefaultCommands(s *Saver) []Command {
	return []Command{GreetCommand(), SaveFileCommand(s)}
}
