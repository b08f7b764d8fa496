package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// serve runs server until ctx is done or it fails to listen. A listen error
// is returned to the caller instead of exiting, so deferred cleanup still
// runs.
func serve(ctx context.Context, server *http.Server, grace time.Duration, log zerolog.Logger) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
