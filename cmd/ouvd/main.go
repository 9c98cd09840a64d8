// Command ouvd serves ordered unique-value sets over HTTP.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	utils "github.com/brynbellomy/go-orderedset"
	bcoll "github.com/brynbellomy/go-orderedset/coll"
	"github.com/brynbellomy/go-orderedset/errors"
	bhttp "github.com/brynbellomy/go-orderedset/http"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("ouvd failed", "err", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "ouvd",
		Usage: "Serve ordered unique-value sets over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Address to listen on",
				Value:   ":8080",
				EnvVars: []string{"OUVD_ADDR"},
			},
			&cli.DurationFlag{
				Name:  "lock-timeout",
				Usage: "How long a request waits for a set's lock before failing with 503",
				Value: bcoll.DefaultLockTimeout,
			},
			&cli.DurationFlag{
				Name:  "grace-period",
				Usage: "How long to wait for in-flight requests on shutdown",
				Value: 10 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "cors",
				Usage: "Allow cross-origin requests from any origin",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Action: run,
	}
}

type httpServerCloser struct {
	*http.Server
}

func (s httpServerCloser) Close(ctx context.Context) error {
	return s.Shutdown(ctx)
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	var handler http.Handler = bhttp.NewSetServer(c.Duration("lock-timeout"), logger)
	if c.Bool("cors") {
		handler = bhttp.UnrestrictedCORS(handler)
	}

	srv := &http.Server{
		Addr:              c.String("addr"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	chErr := make(chan error, 1)
	clean := utils.KillGracefullyOnInterrupt(ctx, c.Duration("grace-period"), func(context.Context) []utils.ContextCloser {
		go func() {
			logger.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				chErr <- err
				cancel()
			}
		}()
		return []utils.ContextCloser{httpServerCloser{srv}}
	})

	select {
	case err := <-chErr:
		return cli.Exit(err, 1)
	default:
	}
	if !clean {
		return cli.Exit(errors.Errorf("shutdown grace period of %v exceeded", c.Duration("grace-period")), 1)
	}
	return nil
}
