package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/angelmondragon/storefront-bff/pkg/logger"
)

func TestRunSweepLogsUnexpectedExit(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "api", Output: &buf})

	runSweep(context.Background(), logg, func(context.Context) error {
		return errors.New("lock backend gone")
	})
	out := buf.String()
	if !strings.Contains(out, "session sweep stopped") || !strings.Contains(out, "lock backend gone") {
		t.Fatalf("expected sweep failure to be logged, got %s", out)
	}
}

func TestRunSweepIgnoresShutdown(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "api", Output: &buf})

	runSweep(context.Background(), logg, func(context.Context) error {
		return fmt.Errorf("cron loop: %w", context.Canceled)
	})
	runSweep(context.Background(), logg, func(context.Context) error { return nil })
	if buf.Len() != 0 {
		t.Fatalf("expected nothing logged on shutdown, got %s", buf.String())
	}
}
