package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/halcyonlabs/halcyon/internal/server"
)

func main() {
	ctx := context.Background()

	s, err := server.New(ctx)
	if err != nil {
		slog.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	if err := s.Boot(ctx); err != nil {
		slog.Error("failed to boot server", "error", err)
		os.Exit(1)
	}

	if err := s.Start(); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}
