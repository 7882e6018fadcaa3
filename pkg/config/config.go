package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything both commands need. It is built once at process
// entry and passed down by parameter; no package reads the environment on
// its own.
type Config struct {
	PortalURL      string
	PortalUser     string
	PortalPassword string

	TaskListID string
	TokenJSON  string // optional inline OAuth token (CI secrets)

	SnapshotPath  string
	ScreenshotDir string
	Headless      bool
}

// Load reads the environment, with an optional .env file next to the binary.
func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		PortalURL:      getEnv("MANABA_URL", "https://manaba.tsukuba.ac.jp/"),
		PortalUser:     getEnv("MANABA_USERNAME", ""),
		PortalPassword: getEnv("MANABA_PASSWORD", ""),
		TaskListID:     getEnv("GOOGLE_TASK_LIST_ID", ""),
		TokenJSON:      getEnv("GOOGLE_TOKEN_JSON", ""),
		SnapshotPath:   getEnv("MANABA_TASKS_FILE", "tasks.json"),
		ScreenshotDir:  getEnv("MANABA_SCREENSHOT_DIR", "."),
		Headless:       getEnv("MANABA_HEADLESS", "1") != "0",
	}
}

// ValidatePortal checks the settings the fetch command needs.
func (c *Config) ValidatePortal() error {
	if c.PortalUser == "" || c.PortalPassword == "" {
		return fmt.Errorf("MANABA_USERNAME and MANABA_PASSWORD must be set (via environment or .env)")
	}
	return nil
}

// ValidateStore checks the settings the register command needs.
func (c *Config) ValidateStore() error {
	if c.TaskListID == "" {
		return fmt.Errorf("GOOGLE_TASK_LIST_ID must be set (via environment or .env)")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
