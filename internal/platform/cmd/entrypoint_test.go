package cmd

import (
	"context"
	"errors"
	"flag"
	"testing"
)

type testConfig struct {
	Address string `env:"CMD_TEST_ADDRESS" envDefault:"127.0.0.1:8080"`
	Mode    string `env:"CMD_TEST_MODE" envDefault:"server"`
}

func TestParseConfigReadsEnvAndFlags(t *testing.T) {
	t.Setenv("CMD_TEST_ADDRESS", "env:9000")
	t.Setenv("CMD_TEST_MODE", "env-mode")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfgRef := testConfig{}
	if err := ParseConfig(&cfgRef); err != nil {
		t.Fatalf("load config defaults: %v", err)
	}
	fs.StringVar(&cfgRef.Address, "address", cfgRef.Address, "address")
	fs.StringVar(&cfgRef.Mode, "mode", cfgRef.Mode, "mode")

	if err := ParseArgs(fs, []string{"-address", "flag:9001"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if cfgRef.Address != "flag:9001" {
		t.Fatalf("expected flag value for address, got %q", cfgRef.Address)
	}
	if cfgRef.Mode != "env-mode" {
		t.Fatalf("expected env default mode, got %q", cfgRef.Mode)
	}
}

func TestParseConfigRejectsNilTarget(t *testing.T) {
	if err := ParseConfig[testConfig](nil); err == nil {
		t.Fatal("expected nil config target to be rejected")
	}
}

func TestParseArgsRejectsNilParser(t *testing.T) {
	if err := ParseArgs(nil, []string{}); err == nil {
		t.Fatal("expected parse args to reject nil parser")
	}
}

func TestRunWithTelemetryRequiresServiceAndRun(t *testing.T) {
	t.Setenv("S2_SITE_OTEL_ENDPOINT", "")

	if err := RunWithTelemetry(context.Background(), " ", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected blank service name to be rejected")
	}
	if err := RunWithTelemetry(context.Background(), ServiceSite, nil); err == nil {
		t.Fatal("expected nil run function to be rejected")
	}
}

func TestRunWithTelemetryReturnsRunError(t *testing.T) {
	t.Setenv("S2_SITE_OTEL_ENDPOINT", "")

	want := errors.New("boom")
	got := RunWithTelemetry(context.Background(), ServiceSite, func(context.Context) error { return want })
	if !errors.Is(got, want) {
		t.Fatalf("RunWithTelemetry() error = %v, want %v", got, want)
	}
}
