// Package config 读取 YAML 配置并应用环境变量覆盖。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"job-portal/internal/fetcher"
	"job-portal/internal/paging"
	"job-portal/internal/scheduler"
	"job-portal/internal/search"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 环境变量覆盖项。
const (
	EnvConfigFile = "CONFIG_FILE"
	EnvSourceURL  = "JOBPORTAL_SOURCE_URL"
	EnvAddr       = "JOBPORTAL_ADDR"
	EnvDB         = "JOBPORTAL_DB"
)

var validate = validator.New()

// AppConfig 应用配置。
type AppConfig struct {
	Source    fetcher.Config   `yaml:"source"`
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	Scheduler scheduler.Config `yaml:"scheduler"`
	Paging    PagingConfig     `yaml:"paging"`
	Search    SearchConfig     `yaml:"search"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required"`
	// RefreshPerMinute 限制手动刷新频率，0 表示不限制。
	RefreshPerMinute int `yaml:"refresh_per_minute" validate:"min=0"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type PagingConfig struct {
	PageSize int `yaml:"page_size" validate:"min=1,max=200"`
}

type SearchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DebounceDuration 解析防抖间隔，无效时返回默认值。
func (c SearchConfig) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(strings.TrimSpace(c.Debounce)); err == nil && d > 0 {
		return d
	}
	return search.DefaultDelay
}

// Default 返回默认配置。
func Default() AppConfig {
	return AppConfig{
		Source:    fetcher.Config{URL: fetcher.DefaultSourceURL, Timeout: "15s"},
		Server:    ServerConfig{Addr: ":8080", RefreshPerMinute: 6},
		Database:  DatabaseConfig{Path: "data/jobs.db"},
		Scheduler: scheduler.Config{Interval: "2h", Timeout: "30s"},
		Paging:    PagingConfig{PageSize: paging.DefaultPageSize},
		Search:    SearchConfig{Debounce: search.DefaultDelay.String()},
	}
}

// Load 加载 .env 后读取配置。path 为空时使用 CONFIG_FILE，默认 config.yaml。
func Load(path string) (AppConfig, error) {
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		path = "config.yaml"
	}
	return LoadFile(path, os.Getenv)
}

// LoadFile 读取配置文件；文件不存在时使用默认配置。getenv 提供覆盖值。
func LoadFile(path string, getenv func(string) string) (AppConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return AppConfig{}, fmt.Errorf("read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if getenv != nil {
		applyEnv(&cfg, getenv)
	}
	if cfg.Paging.PageSize == 0 {
		cfg.Paging.PageSize = paging.DefaultPageSize
	}

	if err := cfg.Validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate 校验字段约束。
func (c AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvSourceURL)); v != "" {
		cfg.Source.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv(EnvDB)); v != "" {
		cfg.Database.Path = v
	}
}
