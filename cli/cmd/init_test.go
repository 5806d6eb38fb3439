package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

type initCLI struct {
	Level   string             `default:"info"`
	Caller  bool               `default:"false"`
	Count   int                `default:"3"`
	Rate    float64            `default:"0.5"`
	Source  []string           `name:"source"`
	Var     map[string]float64 `name:"var"`
	Secret  string             `default:"hidden" hidden:""`
	PprofOn string             `default:"cpu"    name:"pprof-mode"`

	Init Init `cmd:""`
}

func TestInitRun(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{"create_new_config", false, false, nil},
		{"overwrite_existing_with_force", true, true, nil},
		{"fail_without_force", false, true, ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli initCLI

			args := []string{"init"}
			if tt.force {
				args = append(args, "--force")
			}

			ctx, _ := parseCLI(t, &cli, kong.Vars{ConfigIdentifier: confPath}, args...)

			err := cli.Init.Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, ErrWriteConfig) || !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("Init.Run() unexpected error = %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var doc map[string]map[string]any
			if err := yaml.Unmarshal(content, &doc); err != nil {
				t.Fatalf("generated config is not valid YAML: %v\n%s", err, content)
			}

			if _, ok := doc[ConfigIdentifier]; !ok {
				t.Errorf("generated config missing %q namespace:\n%s", ConfigIdentifier, content)
			}
		})
	}
}

func TestInitBuildConfig(t *testing.T) {
	var cli initCLI

	ctx, _ := parseCLI(t, &cli, kong.Vars{ConfigIdentifier: "unused"},
		"--level=debug", "--caller", "--count=5", "--var", "x=2", "init")

	doc := new(Init).buildConfig(ctx)

	if len(doc) != 1 || doc[0].Key != ConfigIdentifier {
		t.Fatalf("expected a single %q namespace, got %v", ConfigIdentifier, doc)
	}

	entries, ok := doc[0].Value.(yaml.MapSlice)
	if !ok {
		t.Fatalf("expected namespace to be a MapSlice, got %T", doc[0].Value)
	}

	got := make(map[string]any, len(entries))

	var keys []string

	for _, item := range entries {
		key, _ := item.Key.(string)
		keys = append(keys, key)
		got[key] = item.Value
	}

	want := map[string]any{
		"level":  "debug",
		"caller": true,
		"count":  5,
		"rate":   0.5,
	}

	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s = %#v, want %#v", key, got[key], value)
		}
	}

	if vars, ok := got["var"].(map[string]float64); !ok || vars["x"] != 2 {
		t.Errorf("var = %#v, want map with x=2", got["var"])
	}

	for _, skipped := range []string{"help", "secret", "pprof-mode", "source"} {
		if _, ok := got[skipped]; ok {
			t.Errorf("expected %q to be omitted, got %#v", skipped, got[skipped])
		}
	}

	if strings.Join(keys, ",") != "level,caller,count,rate,var" {
		t.Errorf("expected declaration order, got %v", keys)
	}
}

func TestInitWithInvalidPath(t *testing.T) {
	var cli initCLI

	ctx, _ := parseCLI(t, &cli, kong.Vars{
		ConfigIdentifier: "/nonexistent/directory/config.yaml",
	}, "init")

	if err := cli.Init.Run(ctx); !errors.Is(err, ErrWriteConfig) {
		t.Errorf("Init.Run() expected ErrWriteConfig for invalid path, got %v", err)
	}
}

func TestInitFormatOutput(t *testing.T) {
	confPath := filepath.Join(t.TempDir(), "config.yaml")

	var cli initCLI

	ctx, _ := parseCLI(t, &cli, kong.Vars{ConfigIdentifier: confPath}, "init")

	if err := cli.Init.Run(ctx); err != nil {
		t.Fatalf("Init.Run() unexpected error = %v", err)
	}

	content, err := os.ReadFile(confPath)
	if err != nil {
		t.Fatal(err)
	}

	output := string(content)

	if !strings.HasPrefix(output, ConfigIdentifier+":\n") {
		t.Errorf("output should start with the %q namespace, got:\n%s", ConfigIdentifier, output)
	}

	if !strings.Contains(output, "\n  level: info\n") {
		t.Errorf("output missing indented level entry, got:\n%s", output)
	}
}
