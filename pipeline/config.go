package pipeline

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/strokeml/strokeml/pkg/errors"
)

// Config holds the fixed parameters of a run. The pipeline itself takes no
// flags; everything lives in an optional YAML file next to the data.
type Config struct {
	DataPath   string  `yaml:"data_path"`
	ModelPath  string  `yaml:"model_path"`
	PlotsDir   string  `yaml:"plots_dir"`   // empty disables chart rendering
	Seed       int64   `yaml:"seed"`
	TrainRatio float64 `yaml:"train_ratio"`
	NTrees     int     `yaml:"n_trees"`
	LogLevel   string  `yaml:"log_level"`
}

// DefaultConfig mirrors the original analysis: stroke CSV in the working
// directory, 70/30 split, 100 trees, fixed seed.
func DefaultConfig() Config {
	return Config{
		DataPath:   "healthcare-dataset-stroke-data.csv",
		ModelPath:  "stroke_rf_model.gob",
		Seed:       42,
		TrainRatio: 0.7,
		NTrees:     100,
		LogLevel:   "info",
	}
}

// LoadConfig reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if cfg.TrainRatio <= 0 || cfg.TrainRatio >= 1 {
		return cfg, errors.NewValueError("LoadConfig", "train_ratio must be in (0, 1)")
	}
	if cfg.NTrees <= 0 {
		return cfg, errors.NewValueError("LoadConfig", "n_trees must be positive")
	}
	return cfg, nil
}
