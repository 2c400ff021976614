package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
)

func TestResolve_Flatten(t *testing.T) {
	doc := `
lispfront:
  log:
    level: debug
  cache:
    capacity: 500
    ttl: 10m
  rebuild_threshold: 0.25
other:
  ignored: true
`

	res, err := resolve("lispfront")(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	cfg, ok := res.(config)
	if !ok {
		t.Fatalf("unexpected resolver %T", res)
	}

	want := map[string]any{
		"log-level":         "debug",
		"cache-capacity":    "500",
		"cache-ttl":         "10m",
		"rebuild-threshold": "0.25",
	}

	for k, v := range want {
		if cfg[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, cfg[k])
		}
	}

	if _, ok := cfg["other-ignored"]; ok {
		t.Error("sections outside the scope must be ignored")
	}
}

func TestResolve_UnscopedAndEmpty(t *testing.T) {
	res, err := resolve("lispfront")(strings.NewReader("cache:\n  capacity: 3\n"))
	if err != nil {
		t.Fatal(err)
	}

	if v := res.(config)["cache-capacity"]; v != "3" {
		t.Errorf("expected 3, got %v", v)
	}

	res, err = resolve("lispfront")(strings.NewReader(""))
	if err != nil {
		t.Fatalf("empty document: %v", err)
	}

	if len(res.(config)) != 0 {
		t.Errorf("expected empty config, got %v", res)
	}

	if _, err := resolve("lispfront")(strings.NewReader("a: [")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestResolve_AppliesToFlags(t *testing.T) {
	var cli struct {
		Cache cacheConfig `embed:"" prefix:"cache-"`
	}

	doc := "cache:\n  capacity: 42\n  ttl: 90s\n"

	res, err := resolve("lispfront")(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	parser, err := kong.New(&cli, kong.Resolvers(res), kong.Vars(cli.Cache.vars()))
	if err != nil {
		t.Fatalf("kong.New: %v", err)
	}

	if _, err := parser.Parse([]string{"--cache-ttl=2m"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cli.Cache.Capacity != 42 {
		t.Errorf("expected capacity from config, got %d", cli.Cache.Capacity)
	}

	if cli.Cache.TTL != 2*time.Minute {
		t.Errorf("expected flag to override config, got %v", cli.Cache.TTL)
	}
}
