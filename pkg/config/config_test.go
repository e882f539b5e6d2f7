package config

import "testing"

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Labelling.RemoveEmptyTransactions {
		t.Fatalf("expected remove_empty_transactions default true")
	}
	if cfg.Scheduler.WorkerCount != 4 {
		t.Fatalf("expected default worker_count=4, got %d", cfg.Scheduler.WorkerCount)
	}
	if cfg.Server.ListenAddr == "" {
		t.Fatalf("expected non-empty default listen addr")
	}
}
