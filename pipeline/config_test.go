package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("LoadConfig(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
data_path: /data/stroke.csv
seed: 7
n_trees: 50
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DataPath != "/data/stroke.csv" {
		t.Errorf("DataPath = %q, want /data/stroke.csv", cfg.DataPath)
	}
	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}
	if cfg.NTrees != 50 {
		t.Errorf("NTrees = %d, want 50", cfg.NTrees)
	}

	// Untouched keys keep their defaults.
	if cfg.TrainRatio != 0.7 {
		t.Errorf("TrainRatio = %v, want default 0.7", cfg.TrainRatio)
	}
	if cfg.ModelPath != DefaultConfig().ModelPath {
		t.Errorf("ModelPath = %q, want default", cfg.ModelPath)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "train_ratio too high",
			yaml: "train_ratio: 1.5\n",
		},
		{
			name: "train_ratio zero",
			yaml: "train_ratio: 0\n",
		},
		{
			name: "negative tree count",
			yaml: "n_trees: -3\n",
		},
		{
			name: "malformed yaml",
			yaml: "seed: [unclosed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.yaml)); err == nil {
				t.Errorf("LoadConfig() should fail for %s", tt.name)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() on missing file should return error")
	}
}
