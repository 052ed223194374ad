package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	serialAdapter "github.com/mkoskinen/vfd-display/internal/adapters/serial"
	"github.com/mkoskinen/vfd-display/internal/domain"
	"github.com/mkoskinen/vfd-display/pkg/log"
)

var exampleUsage = strings.TrimSpace(`
  vfd "hello world"
  vfd -p /dev/ttyUSB0 "line one" "line two"
  vfd --keep "on air"
`)

func main() {
	var (
		device string
		baud   int
		keep   bool
		left   bool
	)

	root := &cobra.Command{
		Use:     "vfd line1 [line2]",
		Short:   "Write two lines of text to a VFD once",
		Long:    "Write two lines of text to a serial VFD. The display falls back\nto its idle screen a couple of seconds after the last write, so use\n--keep to hold the text up until interrupted.",
		Example: exampleUsage,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			line1 := args[0]
			line2 := ""
			if len(args) > 1 {
				line2 = args[1]
			}

			align := domain.AlignCenter
			if left {
				align = domain.AlignExplicit
			}
			frame := domain.Frame(domain.Content{
				Pair:  domain.LinePair{Line1: line1, Line2: line2},
				Align: align,
			}, domain.DefaultGeometry())

			port, err := serialAdapter.Open(device, baud, log.NewNoopLogger())
			if err != nil {
				return err
			}
			defer port.Close()

			if err := port.Write(frame); err != nil {
				return err
			}
			if !keep {
				return nil
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-sigCh:
					return nil
				case <-ticker.C:
					if err := port.Write(frame); err != nil {
						return err
					}
				}
			}
		},
	}

	root.Flags().StringVarP(&device, "port", "p", "/dev/ttyUSB1", "serial port of the display")
	root.Flags().IntVar(&baud, "baud", serialAdapter.DefaultBaudRate, "serial baud rate")
	root.Flags().BoolVarP(&keep, "keep", "k", false, "keep refreshing until interrupted")
	root.Flags().BoolVar(&left, "left", false, "left-align instead of centering")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vfd:", err)
		os.Exit(1)
	}
}
