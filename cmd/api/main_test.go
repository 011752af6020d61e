package main

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/baharkarakas/sweetshop/internal/config"
	"github.com/baharkarakas/sweetshop/internal/logger"
)

func TestRunReturnsSetupErrors(t *testing.T) {
	log := logger.NewWithWriter("test", io.Discard)
	base := config.Config{
		Env:         "test",
		HTTPPort:    "0",
		StoreDriver: "memory",
		JWTSecret:   "run-secret",
		JWTIssuer:   "sweetshop",
		SessionTTL:  time.Hour,
	}

	bad := base
	bad.StoreDriver = "mongo"
	if err := run(bad, log); err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("bad driver err = %v", err)
	}

	// nothing listens on port 1, so the valkey client cannot connect
	unreachable := base
	unreachable.RateRPS = 10
	unreachable.ValkeyURI = "valkey://127.0.0.1:1"
	if err := run(unreachable, log); err == nil || !strings.Contains(err.Error(), "valkey connect") {
		t.Fatalf("valkey err = %v", err)
	}
}
