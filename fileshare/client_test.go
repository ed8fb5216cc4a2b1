package fileshare

import (
	"context"
	"errors"
	"testing"

	"github.com/relloyd/dpu/errs"
	"github.com/relloyd/dpu/logger"
)

func TestNewClient_Config(t *testing.T) {
	log := logger.NewLogger("fileshare-test", "error", false)
	_, err := NewClient(context.Background(), log, ClientConfig{Username: "u", Password: "p"})
	var ce errs.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a configuration error for missing server; got %v", err)
	}
}
