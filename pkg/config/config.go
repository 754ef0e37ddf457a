// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for viseeker.
// Values come from an optional YAML file, then environment overrides.
// The tool packages never read the environment themselves; cmd loads
// this once and passes the resolved values down.
type Config struct {
	S3     S3Config     `yaml:"s3"`
	VLM    VLMConfig    `yaml:"vlm"`
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

// S3Config holds credentials and endpoint settings for S3-compatible
// object storage.
type S3Config struct {
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
	Endpoint        string `yaml:"endpoint"` // host[:port], scheme optional
	UseHTTPS        *bool  `yaml:"use_https"`
	VerifySSL       *bool  `yaml:"verify_ssl"`
}

// VLMConfig holds settings for the multimodal description endpoint.
type VLMConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

// FFmpegConfig holds binary path overrides. Empty values resolve from
// PATH.
type FFmpegConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{}
}

// Load reads configuration from an optional YAML file and applies
// environment overrides. An empty path or a missing file yields the
// defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays the documented environment variables. Set
// variables win over file values.
func (c *Config) applyEnv() {
	setString(&c.S3.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&c.S3.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&c.S3.Endpoint, "S3_ENDPOINT")
	setBool(&c.S3.UseHTTPS, "S3_USE_HTTPS")
	setBool(&c.S3.VerifySSL, "S3_VERIFY_SSL")

	setString(&c.VLM.APIKey, "VLM_API_KEY")
	setString(&c.VLM.BaseURL, "VLM_BASE_URL")
	setString(&c.VLM.Model, "VLM_MODEL")

	setString(&c.FFmpeg.FFmpegPath, "FFMPEG_PATH")
	setString(&c.FFmpeg.FFprobePath, "FFPROBE_PATH")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setBool(dst **bool, key string) {
	if v, ok := ParseBool(os.Getenv(key)); ok {
		*dst = &v
	}
}

// ParseBool interprets common truthy/falsey spellings. The second
// return value is false when the input cannot be interpreted.
func ParseBool(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		return true, true
	case "0", "false", "f", "no", "n", "off":
		return false, true
	}
	return false, false
}
