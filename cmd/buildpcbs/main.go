package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/buildpcbs/internal/bridge"
	"github.com/example/buildpcbs/internal/config"
	"github.com/example/buildpcbs/internal/ipc"
	"github.com/example/buildpcbs/internal/logging"
	"github.com/example/buildpcbs/internal/menu"
	"github.com/example/buildpcbs/internal/protocol"
	"github.com/example/buildpcbs/internal/security"
	"github.com/example/buildpcbs/internal/service"
)

type rootOptions struct {
	debug   bool
	addr    string
	console bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "buildpcbs",
		Short:         "BuildPCBs AI desktop shell",
		Long:          "Native shell for BuildPCBs AI: serves the command bridge and installs the application menu.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logging.Init(cmd.Root().Name(), cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runShell(ctx, opts); err != nil && !errors.Is(err, context.Canceled) {
				logging.Errorf("startup failed: %v", err)
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.addr, "addr", "", "bridge listen/dial address (host:port)")
	cmd.PersistentFlags().BoolVar(&opts.console, "console", false, "keep the console window open (windows)")

	cmd.AddCommand(newMenuCommand())
	cmd.AddCommand(newCallCommand(opts))
	cmd.AddCommand(newEventsCommand(opts))
	return cmd
}

type shellSettings struct {
	settings *config.Settings
	secret   string
}

func loadSettings(opts *rootOptions) (*shellSettings, error) {
	secret := config.ResolveSecret()
	settings, err := config.Load(secret)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	settings.ApplyEnv(nil)
	if opts.addr != "" {
		settings.BridgeAddr = opts.addr
	}
	if opts.debug {
		settings.Debug = true
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if settings.Debug {
		logging.EnableDebug()
	}
	return &shellSettings{settings: settings, secret: secret}, nil
}

// runShell performs startup in order: settings, commands, menu, listener,
// menu installation. Any failure before serving aborts the launch.
func runShell(ctx context.Context, opts *rootOptions) error {
	loaded, err := loadSettings(opts)
	if err != nil {
		return err
	}
	settings := loaded.settings

	saver := bridge.NewSaver()
	saver.DocumentsDir = settings.DocumentsDir
	if saver.OnMkdirFail, err = settings.SavePolicy(); err != nil {
		return err
	}
	registry, err := bridge.NewRegistry(bridge.DefaultCommands(saver)...)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}

	appMenu, err := menu.BuildAppMenu(menu.DefaultAppName)
	if err != nil {
		return fmt.Errorf("build menu: %w", err)
	}

	token, err := serviceToken(loaded.secret)
	if err != nil {
		return err
	}

	events := service.NewBroadcaster()
	srv, err := service.New(registry, events, ipc.DefaultEndpoint(settings.BridgeAddr), token)
	if err != nil {
		return err
	}
	listener, err := srv.Listen()
	if err != nil {
		return err
	}

	icon, err := loadIcon(settings.IconPath)
	if err != nil {
		listener.Close()
		return err
	}

	tray := menu.NewTrayHost(menu.TrayOptions{Tooltip: settings.Tooltip, Icon: icon})
	router := menu.NewRouter(appMenu, tray, events)
	if err := router.Install(ctx); err != nil {
		listener.Close()
		return err
	}
	logging.Infof("menu installed with %d actions; bridge on %s", len(appMenu.Actions()), srv.Endpoint())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ctx, listener)
	}()

	trayErr := make(chan error, 1)
	go func() {
		trayErr <- tray.Wait(ctx)
	}()

	select {
	case err := <-serveErr:
		cancel()
		<-trayErr
		return err
	case err := <-trayErr:
		cancel()
		<-serveErr
		logging.Infof("shell exiting")
		return err
	}
}

// serviceToken resolves the bridge token. Without a secret or explicit token
// a per-process token is generated and published for local clients.
func serviceToken(secret string) (string, error) {
	if token := security.ResolveServiceToken(secret); token != "" {
		return token, nil
	}

	token := security.NewEphemeralToken()
	path, err := security.TokenFilePath()
	if err != nil {
		return "", err
	}
	if err := security.WriteTokenFile(path, token); err != nil {
		return "", err
	}
	logging.Debugf("published ephemeral bridge token %s to %s", logging.MaskIdentifier(token), path)
	return token, nil
}

func clientToken(secret string) (string, error) {
	if token := security.ResolveServiceToken(secret); token != "" {
		return token, nil
	}
	path, err := security.TokenFilePath()
	if err != nil {
		return "", err
	}
	return security.ReadTokenFile(path)
}

func loadIcon(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tray icon: %w", err)
	}
	return data, nil
}

func newMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Print the application menu and its action identifiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := menu.BuildAppMenu(menu.DefaultAppName)
			if err != nil {
				return err
			}
			return printMenu(cmd.OutOrStdout(), m)
		},
	}
}

func printMenu(w io.Writer, m *menu.Menu) error {
	if err := menu.Fprint(w, m); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d actions\n", len(m.Actions()))
	return err
}

func newCallCommand(opts *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "call <command> [json-args]",
		Short: "Invoke a bridge command on the running shell",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := bridge.ParseName(args[0])
			if err != nil {
				return err
			}
			var payload json.RawMessage
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("arguments are not valid JSON: %s", args[1])
				}
				payload = json.RawMessage(args[1])
			}

			client, err := newClient(opts)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var callArgs any
			if payload != nil {
				callArgs = payload
			}
			result, err := client.Call(ctx, string(name), callArgs)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(result))
			return err
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")
	return cmd
}

func newEventsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Print menu action events from the running shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(opts)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			err = client.Subscribe(ctx, func(ev protocol.Event) {
				fmt.Fprintln(out, ev.Action)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func newClient(opts *rootOptions) (*service.Client, error) {
	loaded, err := loadSettings(opts)
	if err != nil {
		return nil, err
	}
	token, err := clientToken(loaded.secret)
	if err != nil {
		return nil, fmt.Errorf("resolve bridge token: %w", err)
	}
	return service.NewClient(ipc.DefaultEndpoint(loaded.settings.BridgeAddr), token), nil
}
