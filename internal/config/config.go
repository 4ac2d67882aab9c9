package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"parcel/internal/utils"
)

// Settings holds the filesystem and pipeline configuration. Values come
// from defaults, then an optional YAML file, then PARCEL_* environment
// variables, each layer overriding the last.
type Settings struct {
	DownloadDir    string `yaml:"download_dir"`
	SplitDir       string `yaml:"split_dir"`
	SplitThreshold int64  `yaml:"split_threshold"`
	PartSize       int64  `yaml:"part_size"`
	Workers        int    `yaml:"workers"`
	UserAgent      string `yaml:"user_agent"`
	ProxyURL       string `yaml:"proxy_url"`
}

func Default() *Settings {
	baseDir := "parcel"
	if home, err := os.UserHomeDir(); err == nil {
		baseDir = filepath.Join(home, "parcel")
	}
	return &Settings{
		DownloadDir:    filepath.Join(baseDir, "downloads"),
		SplitDir:       filepath.Join(baseDir, "splits"),
		SplitThreshold: utils.SplitThreshold,
		PartSize:       utils.DefaultPartSize,
		Workers:        4,
		UserAgent:      utils.ToolUserAgent,
	}
}

// Load reads settings from path over the defaults. A missing file is
// not an error; the defaults simply stand.
func Load(path string) (*Settings, error) {
	settings := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			settings.LoadFromEnv()
			return settings, nil
		}
		return nil, fmt.Errorf("error reading config file: %v", err)
	}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}
	settings.LoadFromEnv()
	return settings, nil
}

func (s *Settings) LoadFromEnv() {
	if dir := os.Getenv("PARCEL_DOWNLOAD_DIR"); dir != "" {
		s.DownloadDir = dir
	}
	if dir := os.Getenv("PARCEL_SPLIT_DIR"); dir != "" {
		s.SplitDir = dir
	}
	if threshold := os.Getenv("PARCEL_SPLIT_THRESHOLD"); threshold != "" {
		if t, err := strconv.ParseInt(threshold, 10, 64); err == nil && t > 0 {
			s.SplitThreshold = t
		}
	}
	if partSize := os.Getenv("PARCEL_PART_SIZE"); partSize != "" {
		if p, err := strconv.ParseInt(partSize, 10, 64); err == nil && p > 0 {
			s.PartSize = p
		}
	}
	if workers := os.Getenv("PARCEL_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 && w <= 64 {
			s.Workers = w
		}
	}
}

func (s *Settings) Validate() error {
	if s.DownloadDir == "" {
		return fmt.Errorf("download directory cannot be empty")
	}
	if s.SplitDir == "" {
		return fmt.Errorf("split directory cannot be empty")
	}
	if s.SplitThreshold <= 0 {
		return fmt.Errorf("invalid split threshold: %d (must be > 0)", s.SplitThreshold)
	}
	if s.PartSize <= 0 {
		return fmt.Errorf("invalid part size: %d (must be > 0)", s.PartSize)
	}
	if s.Workers < 1 || s.Workers > 64 {
		return fmt.Errorf("invalid workers: %d (must be 1-64)", s.Workers)
	}
	return nil
}

// Entry is one transfer in a batch list file.
type Entry struct {
	OutputName string `yaml:"op,omitempty"`
	URL        string `yaml:"link"`
}

// ReadFetchList loads a YAML batch list of link/op entries.
func ReadFetchList(filePath string) ([]Entry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %v", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing YAML file: %v", err)
	}
	for i, entry := range entries {
		if entry.URL == "" {
			return nil, fmt.Errorf("missing link for entry %d", i+1)
		}
	}
	return entries, nil
}
