// Command fakeapi serves a local copy of the users API on -addr, for demos
// and manual testing of the CLI:
//
//	fakeapi -addr :8080 -key reqres-free-v1
//	cli -a http://localhost:8080/api -k reqres-free-v1
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/useradmin/internal/fakeapi"
	"github.com/dmitrijs2005/useradmin/internal/logging"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	apiKey := flag.String("key", "", "required x-api-key value (empty disables the check)")
	perPage := flag.Int("per-page", fakeapi.DefaultPerPage, "users per page")
	rate := flag.Int("rate", 0, "requests allowed per client IP within -rate-window (0 disables limiting)")
	rateWindow := flag.Duration("rate-window", time.Minute, "rate limit window")
	level := flag.String("l", "info", "log level")
	flag.Parse()

	logger := logging.New(os.Stdout, *level, logging.FormatConsole)
	ctx := context.Background()

	api := fakeapi.New(
		fakeapi.WithAPIKey(*apiKey),
		fakeapi.WithPerPage(*perPage),
		fakeapi.WithRateLimit(*rate, *rateWindow),
		fakeapi.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server failed", "err", err)
			os.Exit(1)
		}
	}()

	logger.Info(ctx, "fake api started", "addr", *addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down fake api")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "shutdown", "err", err)
	}
}
