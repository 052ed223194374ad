package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/mkoskinen/vfd-display/internal/cliconfig"
	"github.com/mkoskinen/vfd-display/pkg/log"
	"github.com/mkoskinen/vfd-display/pkg/vfd"
)

const helpDescription = `
Drive a two-line vacuum fluorescent display from a serial port.

The daemon rotates through a set of screens (clock with load and
temperature, hostname with external IP) and accepts messages over UDP.
An incoming message takes over the display for a while, then joins the
rotation until it goes stale.

Send a message with two lines separated by a newline:
  printf 'ALERT\nserver down' | nc -u -w0 127.0.0.1 5566
`

var longHelp = strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  vfdd --port /dev/ttyUSB0
  vfdd --udp-only --bind-all --fresh 0
  vfdd --file /tmp/vfd.txt
  vfdd --center "back in" "5 minutes"
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	logger := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "vfdd [line1 [line2]]",
		Short:   "Drive a two-line VFD from a serial port",
		Long:    longHelp,
		Example: exampleUsage,
		Args:    cobra.MaximumNArgs(2),
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables (VFDD_*) override the file but lose
			// to explicitly set flags.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if len(args) > 0 {
				cfg.StaticSet = true
				cfg.StaticLine1 = args[0]
				if len(args) > 1 {
					cfg.StaticLine2 = args[1]
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			logger.Info().Interface("config", cfg).Msg("configuration")

			libCfg := vfd.Config{
				Device:           cfg.Device,
				Baud:             cfg.Baud,
				Geometry:         cfg.Geometry(),
				ListenAddr:       cfg.BindAddr(),
				DisplayFile:      cfg.DisplayFile,
				TickInterval:     cfg.TickInterval,
				RotationInterval: cfg.RotationInterval,
				InterruptWindow:  cfg.InterruptWindow,
				FreshnessWindow:  cfg.FreshnessWindow(),
				UDPOnly:          cfg.UDPOnly,
			}
			if cfg.StaticSet {
				libCfg.Static = &vfd.StaticText{
					Line1:  cfg.StaticLine1,
					Line2:  cfg.StaticLine2,
					Center: cfg.Center,
				}
			}

			d, err := vfd.New(libCfg, vfd.WithLogger(log.NewZerologAdapter(logger)))
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := d.Start(ctx); err != nil {
				return fmt.Errorf("start daemon: %w", err)
			}

			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						status := d.Status()
						if status == vfd.StateStopped || status == vfd.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			select {
			case <-sigCh:
				logger.Info().Msg("received signal, stopping...")
			case <-doneCh:
			}

			if err := d.Stop(); err != nil {
				return fmt.Errorf("stop daemon: %w", err)
			}
			if d.Status() == vfd.StateCrashed {
				return fmt.Errorf("daemon crashed")
			}
			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.vfdd/config.toml)")
	root.Flags().StringVarP(&cfg.Device, "port", "p", cfg.Device, "serial port of the display")
	root.Flags().IntVar(&cfg.Baud, "baud", cfg.Baud, "serial baud rate")

	root.Flags().IntVar(&cfg.UDPPort, "udp-port", cfg.UDPPort, "UDP port to listen for messages on")
	root.Flags().BoolVar(&cfg.BindAll, "bind-all", cfg.BindAll, "listen on all interfaces instead of loopback only")
	root.Flags().BoolVar(&cfg.UDPOnly, "udp-only", cfg.UDPOnly, "show nothing until the first message arrives")
	root.Flags().IntVar(&cfg.FreshSecs, "fresh", cfg.FreshSecs, "seconds a message stays in rotation (0 = forever)")

	root.Flags().StringVar(&cfg.DisplayFile, "file", cfg.DisplayFile, "text file to watch for display content")

	root.Flags().DurationVar(&cfg.TickInterval, "tick-interval", cfg.TickInterval, "display refresh interval")
	root.Flags().DurationVar(&cfg.RotationInterval, "rotation-interval", cfg.RotationInterval, "time each screen stays up")
	root.Flags().DurationVar(&cfg.InterruptWindow, "interrupt-window", cfg.InterruptWindow, "time a new message owns the display")

	root.Flags().IntVar(&cfg.VisibleColumns, "columns", cfg.VisibleColumns, "visible columns per line")
	root.Flags().IntVar(&cfg.BufferPerLine, "buffer", cfg.BufferPerLine, "buffer cells per line")
	root.Flags().IntVar(&cfg.Lines, "lines", cfg.Lines, "display line count")
	if err := root.Flags().MarkHidden("columns"); err != nil {
		logger.Info().Err(err).Msg("failed to hide columns flag")
	}
	if err := root.Flags().MarkHidden("buffer"); err != nil {
		logger.Info().Err(err).Msg("failed to hide buffer flag")
	}
	if err := root.Flags().MarkHidden("lines"); err != nil {
		logger.Info().Err(err).Msg("failed to hide lines flag")
	}

	root.Flags().BoolVar(&cfg.Center, "center", cfg.Center, "center static text (with line arguments)")

	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("vfdd")
		os.Exit(1)
	}
}
