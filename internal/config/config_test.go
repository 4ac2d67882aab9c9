package config

import (
	"os"
	"path/filepath"
	"testing"

	"parcel/internal/utils"
)

func TestDefault(t *testing.T) {
	settings := Default()
	if settings.DownloadDir == "" || settings.SplitDir == "" {
		t.Error("Expected default directories to be set")
	}
	if settings.SplitThreshold != utils.SplitThreshold {
		t.Errorf("Expected default threshold %d, got %d", utils.SplitThreshold, settings.SplitThreshold)
	}
	if err := settings.Validate(); err != nil {
		t.Errorf("Default settings must validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing_file_uses_defaults", func(t *testing.T) {
		settings, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if settings.SplitThreshold != utils.SplitThreshold {
			t.Errorf("Expected defaults for missing file, got %+v", settings)
		}
	})

	t.Run("file_overrides_defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parcel.yaml")
		content := "download_dir: /tmp/dl\nsplit_dir: /tmp/sp\nsplit_threshold: 4096\npart_size: 1024\nworkers: 8\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		settings, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if settings.DownloadDir != "/tmp/dl" || settings.SplitThreshold != 4096 || settings.Workers != 8 {
			t.Errorf("Unexpected settings: %+v", settings)
		}
	})

	t.Run("invalid_yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parcel.yaml")
		if err := os.WriteFile(path, []byte("::: not yaml {"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})

	t.Run("env_overrides_file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parcel.yaml")
		if err := os.WriteFile(path, []byte("split_threshold: 4096\n"), 0644); err != nil {
			t.Fatalf("Failed to write config: %v", err)
		}
		t.Setenv("PARCEL_SPLIT_THRESHOLD", "8192")
		t.Setenv("PARCEL_DOWNLOAD_DIR", "/tmp/env-dl")
		settings, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if settings.SplitThreshold != 8192 {
			t.Errorf("Expected env threshold 8192, got %d", settings.SplitThreshold)
		}
		if settings.DownloadDir != "/tmp/env-dl" {
			t.Errorf("Expected env download dir, got %s", settings.DownloadDir)
		}
	})

	t.Run("bad_env_values_ignored", func(t *testing.T) {
		t.Setenv("PARCEL_SPLIT_THRESHOLD", "not-a-number")
		t.Setenv("PARCEL_WORKERS", "-3")
		settings := Default()
		settings.LoadFromEnv()
		if settings.SplitThreshold != utils.SplitThreshold || settings.Workers != 4 {
			t.Errorf("Invalid env values must be ignored, got %+v", settings)
		}
	})
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(s *Settings)
	}{
		{"empty_download_dir", func(s *Settings) { s.DownloadDir = "" }},
		{"empty_split_dir", func(s *Settings) { s.SplitDir = "" }},
		{"zero_threshold", func(s *Settings) { s.SplitThreshold = 0 }},
		{"negative_part_size", func(s *Settings) { s.PartSize = -1 }},
		{"zero_workers", func(s *Settings) { s.Workers = 0 }},
		{"too_many_workers", func(s *Settings) { s.Workers = 100 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			settings := Default()
			tc.mutate(settings)
			if err := settings.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestReadFetchList(t *testing.T) {
	t.Run("valid_list", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.yaml")
		content := "- link: http://example.com/a.bin\n  op: first.bin\n- link: http://example.com/b.bin\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write list: %v", err)
		}
		entries, err := ReadFetchList(path)
		if err != nil {
			t.Fatalf("ReadFetchList failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].URL != "http://example.com/a.bin" || entries[0].OutputName != "first.bin" {
			t.Errorf("Unexpected first entry: %+v", entries[0])
		}
		if entries[1].OutputName != "" {
			t.Errorf("Expected empty output name, got %q", entries[1].OutputName)
		}
	})

	t.Run("missing_link", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.yaml")
		if err := os.WriteFile(path, []byte("- op: only-name.bin\n"), 0644); err != nil {
			t.Fatalf("Failed to write list: %v", err)
		}
		if _, err := ReadFetchList(path); err == nil {
			t.Error("Expected error for entry without link")
		}
	})

	t.Run("missing_file", func(t *testing.T) {
		if _, err := ReadFetchList(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}
