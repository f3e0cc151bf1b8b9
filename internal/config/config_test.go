package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9090
  host: "127.0.0.1"

database:
  host: "testdb"
  port: 5432
  user: "testuser"
  password: "testpass"
  dbname: "testdb"

renderer:
  workerCount: 4
  ffmpegPath: "/usr/local/bin/ffmpeg"

assets:
  pexelsAPIKey: "test-key"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.Server.Host)
	}

	if cfg.Database.Host != "testdb" {
		t.Errorf("Expected database host testdb, got %s", cfg.Database.Host)
	}

	if cfg.Renderer.WorkerCount != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Renderer.WorkerCount)
	}

	if cfg.Renderer.FFmpegPath != "/usr/local/bin/ffmpeg" {
		t.Errorf("Expected ffmpeg path override, got %s", cfg.Renderer.FFmpegPath)
	}

	if cfg.Assets.PexelsAPIKey != "test-key" {
		t.Errorf("Expected pexels key test-key, got %s", cfg.Assets.PexelsAPIKey)
	}

	// Defaults fill the sections the file omits
	if cfg.Voice.EdgeTTSPath != "edge-tts" {
		t.Errorf("Expected default edge-tts path, got %s", cfg.Voice.EdgeTTSPath)
	}

	if cfg.Whisper.BinaryPath != "whisper-cli" {
		t.Errorf("Expected default whisper binary, got %s", cfg.Whisper.BinaryPath)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}
