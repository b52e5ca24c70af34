// seatwatch shows the reading-room seat grid and keeps it current, and can
// reserve or release a seat on the caller's behalf.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/hooting76/blue-crab-lms-sub001/internal/seatsync"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var (
		server   string
		token    string
		interval time.Duration
		reserve  int
		release  int
		once     bool
	)

	flagSet := pflag.NewFlagSet("seatwatch", pflag.ContinueOnError)
	flagSet.StringVar(&server, "server", envOr("SEATWATCH_SERVER", "http://localhost:8080"), "API base URL")
	flagSet.StringVar(&token, "token", os.Getenv("SEATWATCH_TOKEN"), "bearer token")
	flagSet.DurationVar(&interval, "interval", seatsync.DefaultInterval, "polling interval")
	flagSet.IntVar(&reserve, "reserve", 0, "reserve this seat before watching")
	flagSet.IntVar(&release, "release", 0, "release this seat before watching")
	flagSet.BoolVar(&once, "once", false, "print the grid once and exit")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if reserve > 0 && release > 0 {
		return errors.New("--reserve and --release are mutually exclusive")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	syncer := seatsync.NewSynchronizer(
		seatsync.NewHTTPClient(server, token),
		seatsync.WithInterval(interval),
		seatsync.OnUpdate(func(m seatsync.Model) {
			fmt.Fprintln(out, render(m))
		}),
	)

	var cmdErr error
	switch {
	case reserve > 0:
		cmdErr = syncer.Reserve(ctx, reserve)
	case release > 0:
		cmdErr = syncer.Release(ctx, release)
	case once:
		syncer.Refresh(ctx)
	}

	if once {
		if cmdErr != nil {
			return cmdErr
		}
		return syncer.Model().Err
	}

	if err := syncer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
