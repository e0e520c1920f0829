package config

import (
	"testing"
	"time"
)

func TestCurrentFallsBackToDefaults(t *testing.T) {
	var holder *TunablesHolder

	got := holder.Current()
	if got.RemoteTimeout != 10*time.Second {
		t.Fatalf("unexpected remote timeout %v", got.RemoteTimeout)
	}
	if got.MaxPageSize != 100 {
		t.Fatalf("unexpected max page size %d", got.MaxPageSize)
	}
}

func TestNewTunablesHolderWithoutConfigFile(t *testing.T) {
	holder, err := NewTunablesHolder(nil)
	if err != nil {
		t.Fatalf("holder: %v", err)
	}
	if holder.Current() != DefaultTunables() {
		t.Fatalf("expected defaults, got %+v", holder.Current())
	}
}
