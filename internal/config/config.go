package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from config.toml
// beside the executable.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Boundary BoundaryConfig `toml:"boundary"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig holds filesystem settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// BoundaryConfig describes the external address boundary source: where the
// delimited file lives and which raw column carries which field. The raw
// layout of this file has changed between revisions without a version
// marker, so the whole mapping sits behind this one configuration point,
// and SampleProvince/SamplePostal let the loader verify the offsets against
// a known row before trusting them.
type BoundaryConfig struct {
	Path           string `toml:"path"`
	Delimiter      string `toml:"delimiter"`
	PostalCol      int    `toml:"postal_col"`
	SubdivisionCol int    `toml:"subdivision_col"`
	DistrictCol    int    `toml:"district_col"`
	ProvinceCol    int    `toml:"province_col"`
	SampleProvince string `toml:"sample_province"`
	SamplePostal   string `toml:"sample_postal"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20474,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Boundary: BoundaryConfig{
			Path:           filepath.Join("data", "reference", "postal_boundaries.txt"),
			Delimiter:      "\t",
			PostalCol:      0,
			SubdivisionCol: 1,
			DistrictCol:    2,
			ProvinceCol:    3,
		},
	}
}

// GetExeDir returns the directory of the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable's directory. A missing
// file is not an error; defaults apply.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("RECHECK_BOUNDARY_PATH"); v != "" {
		config.Boundary.Path = v
	}
	if v := os.Getenv("RECHECK_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
}

// SaveConfig writes the configuration back to config.toml.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory tree (uploads, exports,
// reference) beside the executable and returns its path.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports", "reference"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// BoundaryPath resolves the boundary-source path; relative paths are taken
// from the executable's directory.
func BoundaryPath(config *AppConfig) string {
	p := config.Boundary.Path
	if filepath.IsAbs(p) {
		return p
	}
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, p)
}
