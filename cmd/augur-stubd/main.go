// augur-stubd serves the backend API from JSON fixtures so the augur client
// can be developed and demoed without the real platform.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"augur/internal/stub"
	"augur/internal/util"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "listen address")
	fixtureDir := flag.String("fixtures", "", "directory of <section>.json fixture files (hot-reloaded)")
	adminSecret := flag.String("admin-secret", "", "required x-admin-secret for /api/admin routes (empty disables the check)")
	authPerMinute := flag.Int("auth-rpm", 30, "login/signup attempts allowed per minute (0 disables limiting)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	log := util.NewLogger(*logLevel)
	util.SetDefault(log)

	srv, err := stub.NewServer(stub.Options{
		FixtureDir:    *fixtureDir,
		AdminSecret:   *adminSecret,
		AuthPerMinute: *authPerMinute,
		AuthBurst:     5,
		Log:           log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "starting stub: %v\n", err)
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:         *addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "error", err)
		}
	}()

	log.Info("stub server listening", "addr", *addr, "fixtures", *fixtureDir)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}
