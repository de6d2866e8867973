package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.HTTP.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", c.HTTP.Addr)
	}
	if c.HTTP.RateBurst != 30 || c.HTTP.RatePerSec != 10 {
		t.Fatalf("unexpected rate limits: %d/%d", c.HTTP.RateBurst, c.HTTP.RatePerSec)
	}
	if c.HTTP.MaxBodyBytes != 1<<20 {
		t.Fatalf("unexpected body limit: %d", c.HTTP.MaxBodyBytes)
	}
	if c.Database.DSN != "" {
		t.Fatalf("expected empty DSN by default, got %q", c.Database.DSN)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DISPOSISI_HTTP_ADDR", ":9999")
	t.Setenv("DISPOSISI_DATABASE_DSN", "postgres://localhost/disposisi")
	t.Setenv("DISPOSISI_BOOTSTRAP_NIP", "198001012005011001")

	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.HTTP.Addr != ":9999" {
		t.Fatalf("env addr not applied: %q", c.HTTP.Addr)
	}
	if c.Database.DSN != "postgres://localhost/disposisi" {
		t.Fatalf("env dsn not applied: %q", c.Database.DSN)
	}
	if c.Bootstrap.NIP != "198001012005011001" {
		t.Fatalf("env bootstrap nip not applied: %q", c.Bootstrap.NIP)
	}
}
