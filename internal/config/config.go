package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Queue    QueueConfig
	Renderer RendererConfig
	Assets   AssetsConfig
	Voice    VoiceConfig
	Whisper  WhisperConfig
	Logging  LoggingConfig
	Tracing  TracingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int // worker /metrics listener
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Region          string
	UseSSL          bool
}

// QueueConfig holds message queue configuration
type QueueConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Vhost    string
}

// RendererConfig holds render pipeline configuration
type RendererConfig struct {
	WorkerCount int
	TempDir     string
	OutputDir   string
	FFmpegPath  string
	FFprobePath string
}

// AssetsConfig holds stock media fetching configuration
type AssetsConfig struct {
	PexelsAPIKey  string
	LocalVideoDir string
	LocalMusicDir string
	CacheTTL      time.Duration
}

// VoiceConfig holds narration synthesis configuration
type VoiceConfig struct {
	EdgeTTSPath string
	Timeout     time.Duration
}

// WhisperConfig holds transcription configuration
type WhisperConfig struct {
	BinaryPath string
	ModelPath  string
	Timeout    time.Duration
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// TracingConfig holds distributed tracing configuration
type TracingConfig struct {
	Enabled        bool
	JaegerEndpoint string
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.metricsPort", 9090)
	viper.SetDefault("server.readTimeout", "30s")
	viper.SetDefault("server.writeTimeout", "30s")
	viper.SetDefault("server.shutdownTimeout", "10s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.dbname", "videoforge")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxConns", 25)
	viper.SetDefault("database.minConns", 5)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Storage defaults
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accessKeyID", "minioadmin")
	viper.SetDefault("storage.secretAccessKey", "minioadmin")
	viper.SetDefault("storage.bucketName", "videos")
	viper.SetDefault("storage.region", "us-east-1")
	viper.SetDefault("storage.useSSL", false)

	// Queue defaults
	viper.SetDefault("queue.host", "localhost")
	viper.SetDefault("queue.port", 5672)
	viper.SetDefault("queue.user", "guest")
	viper.SetDefault("queue.password", "guest")
	viper.SetDefault("queue.vhost", "/")

	// Renderer defaults
	viper.SetDefault("renderer.workerCount", 2)
	viper.SetDefault("renderer.tempDir", "/tmp/videoforge")
	viper.SetDefault("renderer.outputDir", "/tmp/videoforge/output")
	viper.SetDefault("renderer.ffmpegPath", "ffmpeg")
	viper.SetDefault("renderer.ffprobePath", "ffprobe")

	// Assets defaults
	viper.SetDefault("assets.pexelsAPIKey", "")
	viper.SetDefault("assets.localVideoDir", "")
	viper.SetDefault("assets.localMusicDir", "")
	viper.SetDefault("assets.cacheTTL", "24h")

	// Voice defaults
	viper.SetDefault("voice.edgeTTSPath", "edge-tts")
	viper.SetDefault("voice.timeout", "120s")

	// Whisper defaults
	viper.SetDefault("whisper.binaryPath", "whisper-cli")
	viper.SetDefault("whisper.modelPath", "models/ggml-base.en.bin")
	viper.SetDefault("whisper.timeout", "300s")

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.jaegerEndpoint", "http://localhost:14268/api/traces")
}
