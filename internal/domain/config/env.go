package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads the given env files (default .env) without overriding
// variables already present in the process environment. It returns the
// files that were loaded.
func LoadDotEnv(files ...string) ([]string, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	loaded := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return loaded, err
		}
		loaded = append(loaded, file)
	}
	return loaded, nil
}

// ApplyEnv overlays credentials and repository coordinates from the
// environment. Empty variables leave the file values untouched.
func (c *Config) ApplyEnv() {
	c.News.APIKey = getEnv("NEWS_API_KEY", c.News.APIKey)

	c.LLM.APIKey = getEnv("GROQ_API_KEY", c.LLM.APIKey)
	c.LLM.APIKey = getEnv("LLM_API_KEY", c.LLM.APIKey)
	if p := getEnv("LLM_PROVIDER", ""); p != "" {
		c.LLM.Provider = LLMProvider(strings.ToLower(p))
	}
	c.LLM.Model = getEnv("LLM_MODEL", c.LLM.Model)
	c.LLM.BaseURL = getEnv("LLM_API_URL", c.LLM.BaseURL)

	c.Publish.Token = getEnv("GITHUB_TOKEN", c.Publish.Token)
	c.Publish.Owner = getEnv("GITHUB_OWNER", c.Publish.Owner)
	c.Publish.Repo = getEnv("GITHUB_REPO", c.Publish.Repo)
	c.Publish.Branch = getEnv("GITHUB_BRANCH", c.Publish.Branch)
	c.Publish.Enabled = getEnvBool("PUBLISH_ENABLED", c.Publish.Enabled)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Server.Addr = getEnv("AIBLOG_ADDR", c.Server.Addr)
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
