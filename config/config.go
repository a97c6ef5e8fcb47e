package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DataDir    string `json:"data_dir"`
	MemoryFile string `json:"memory_file"`

	SessionTimeoutSeconds int `json:"session_timeout_seconds"`
	MaxSessions           int `json:"max_sessions"`
	NewsLimit             int `json:"news_limit"`
	MaxRetries            int `json:"max_retries"`
	BatchSize             int `json:"batch_size"`
	CallTimeoutSeconds    int `json:"call_timeout_seconds"`

	// Summarization backend, any OpenAI-compatible endpoint.
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`
	SummaryModel  string `json:"summary_model"`

	NewsAPIKey string `json:"newsapi_key"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()

	cfg := &Config{
		DataDir:    filepath.Join(currentDir, "data"),
		MemoryFile: filepath.Join(currentDir, "data", "memory_bank.json"),

		SessionTimeoutSeconds: 1800,
		MaxSessions:           16,
		NewsLimit:             10,
		MaxRetries:            3,
		BatchSize:             3,
		CallTimeoutSeconds:    30,

		SummaryModel: "gpt-4o-mini",
		Debug:        false,
	}

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot keeps data paths under the given root instead of the
// working directory.
func DefaultConfigWithRoot(root string) *Config {
	cfg := DefaultConfig()
	cfg.DataDir = filepath.Join(root, "data")
	cfg.MemoryFile = filepath.Join(root, "data", "memory_bank.json")
	return cfg
}

// ApplyEnvOverrides reapplies environment variables on top of a file-loaded
// configuration. The environment always wins over the file.
func (c *Config) ApplyEnvOverrides() {
	c.loadFromEnv()
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("EQUISCOPE_DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("EQUISCOPE_MEMORY_FILE"); val != "" {
		c.MemoryFile = val
	}

	if val := os.Getenv("EQUISCOPE_SESSION_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.SessionTimeoutSeconds = v
		}
	}
	if val := os.Getenv("EQUISCOPE_MAX_SESSIONS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxSessions = v
		}
	}
	if val := os.Getenv("EQUISCOPE_NEWS_LIMIT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsLimit = v
		}
	}
	if val := os.Getenv("EQUISCOPE_MAX_RETRIES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxRetries = v
		}
	}
	if val := os.Getenv("EQUISCOPE_BATCH_SIZE"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.BatchSize = v
		}
	}
	if val := os.Getenv("EQUISCOPE_CALL_TIMEOUT"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.CallTimeoutSeconds = v
		}
	}

	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("OPENAI_BASE_URL"); val != "" {
		c.OpenAIBaseURL = val
	}
	if val := os.Getenv("EQUISCOPE_SUMMARY_MODEL"); val != "" {
		c.SummaryModel = val
	}
	if val := os.Getenv("NEWSAPI_KEY"); val != "" {
		c.NewsAPIKey = val
	}

	if val := os.Getenv("EQUISCOPE_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

func (c *Config) Validate() error {
	if c.SessionTimeoutSeconds <= 0 {
		return fmt.Errorf("session_timeout_seconds must be positive, got %d", c.SessionTimeoutSeconds)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive, got %d", c.MaxSessions)
	}
	if c.NewsLimit <= 0 {
		return fmt.Errorf("news_limit must be positive, got %d", c.NewsLimit)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative, got %d", c.MaxRetries)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.CallTimeoutSeconds <= 0 {
		return fmt.Errorf("call_timeout_seconds must be positive, got %d", c.CallTimeoutSeconds)
	}
	if strings.TrimSpace(c.MemoryFile) == "" {
		return fmt.Errorf("memory_file must not be empty")
	}
	return nil
}

func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.SessionTimeoutSeconds) * time.Second
}

func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.CallTimeoutSeconds) * time.Second
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, filepath.Dir(c.MemoryFile)}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
