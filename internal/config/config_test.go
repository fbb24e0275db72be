package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServiceName != "marketplace" {
		t.Errorf("ServiceName = %q, want marketplace", cfg.ServiceName)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Storage != "memory" {
		t.Errorf("Storage = %q, want memory", cfg.Storage)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Errorf("KafkaBrokers = %v, want empty", cfg.KafkaBrokers)
	}
	if cfg.RefundQueue != "ops.refunds" {
		t.Errorf("RefundQueue = %q, want ops.refunds", cfg.RefundQueue)
	}
	if cfg.PaymentSuccessRate != -1 {
		t.Errorf("PaymentSuccessRate = %v, want -1 (no override)", cfg.PaymentSuccessRate)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("STORAGE", "postgres")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092 ,")
	t.Setenv("PAYMENT_SUCCESS_RATE", "0.5")

	cfg := Load()
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.Storage != "postgres" {
		t.Errorf("Storage = %q, want postgres", cfg.Storage)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[0] != "k1:9092" || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("KafkaBrokers = %v, want [k1:9092 k2:9092]", cfg.KafkaBrokers)
	}
	if cfg.PaymentSuccessRate != 0.5 {
		t.Errorf("PaymentSuccessRate = %v, want 0.5", cfg.PaymentSuccessRate)
	}
}

func TestLoadBadFloatFallsBack(t *testing.T) {
	t.Setenv("PAYMENT_SUCCESS_RATE", "not-a-number")
	cfg := Load()
	if cfg.PaymentSuccessRate != -1 {
		t.Errorf("PaymentSuccessRate = %v, want -1", cfg.PaymentSuccessRate)
	}
}
