package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config 保存应用程序配置。
type Config struct {
	App      AppConfig      `json:"app"`
	MySQL    MySQLConfig    `json:"mysql"`
	Redis    RedisConfig    `json:"redis"`
	Security SecurityConfig `json:"security"`
}

// AppConfig 应用程序基础配置。
type AppConfig struct {
	Env          string        `json:"env"`            // 运行环境: development / test / production
	LogLevel     string        `json:"log_level"`      // 日志级别: debug / info / warn / error
	HTTPAddr     string        `json:"http_addr"`      // API 服务监听地址 (host:port)
	CORSOrigin   string        `json:"cors_origin"`    // 允许的跨域来源
	ActivityTTL  time.Duration `json:"activity_ttl"`   // 用户活跃标记保留时间
	SeedDemoData bool          `json:"seed_demo_data"` // 启动时写入演示数据
}

// MySQLConfig MySQL 数据库配置。
type MySQLConfig struct {
	DSN string `json:"dsn"` // 数据库连接字符串
}

// RedisConfig Redis 配置。
type RedisConfig struct {
	Addr     string `json:"addr"`     // Redis 地址 (host:port)
	Password string `json:"password"` // Redis 密码
}

// SecurityConfig 安全相关配置。
type SecurityConfig struct {
	JWTSecret       string        `json:"jwt_secret"`        // JWT 签名密钥
	AccessTokenTTL  time.Duration `json:"access_token_ttl"`  // 访问令牌有效期（分钟级）
	RefreshTokenTTL time.Duration `json:"refresh_token_ttl"` // 刷新令牌有效期（天级）
}

// Load 从 JSON 文件加载配置。
//
// 配置文件不存在时使用默认值，环境变量始终优先覆盖。
func Load(configPath ...string) (*Config, error) {
	path := "configs/config.json"
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := getDefaultConfig()
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	return cfg, nil
}

// Validate 启动前校验配置，非法配置直接判为致命错误。
func (c *Config) Validate() error {
	switch c.App.Env {
	case "development", "test", "production":
	default:
		return fmt.Errorf("invalid env %q: must be development, test or production", c.App.Env)
	}
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("http_addr is required")
	}
	if c.App.CORSOrigin == "" {
		return fmt.Errorf("cors_origin is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql dsn is required")
	}
	if _, err := mysql.ParseDSN(c.MySQL.DSN); err != nil {
		return fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if c.App.Env == "production" && c.Security.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("jwt_secret must be changed in production")
	}
	if c.Security.AccessTokenTTL <= 0 {
		return fmt.Errorf("access_token_ttl must be positive")
	}
	if c.Security.RefreshTokenTTL <= 0 {
		return fmt.Errorf("refresh_token_ttl must be positive")
	}
	return nil
}

const defaultJWTSecret = "dev_secret_change_me"

// getDefaultConfig 返回默认配置。
func getDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env:          "development",
			LogLevel:     "info",
			HTTPAddr:     "localhost:3000",
			CORSOrigin:   "http://localhost:*",
			ActivityTTL:  10 * time.Minute,
			SeedDemoData: false,
		},
		MySQL: MySQLConfig{
			DSN: "root:password@tcp(localhost:3306)/taskdb?parseTime=true&loc=Local",
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			Password: "",
		},
		Security: SecurityConfig{
			JWTSecret:       defaultJWTSecret,
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 30 * 24 * time.Hour,
		},
	}
}

// applyDefaults 对未设置的字段应用默认值。
func applyDefaults(cfg *Config) {
	defaults := getDefaultConfig()

	if cfg.App.Env == "" {
		cfg.App.Env = defaults.App.Env
	}
	if cfg.App.LogLevel == "" {
		cfg.App.LogLevel = defaults.App.LogLevel
	}
	if cfg.App.HTTPAddr == "" {
		cfg.App.HTTPAddr = defaults.App.HTTPAddr
	}
	if cfg.App.CORSOrigin == "" {
		cfg.App.CORSOrigin = defaults.App.CORSOrigin
	}
	if cfg.App.ActivityTTL == 0 {
		cfg.App.ActivityTTL = defaults.App.ActivityTTL
	}
	if cfg.MySQL.DSN == "" {
		cfg.MySQL.DSN = defaults.MySQL.DSN
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = defaults.Redis.Addr
	}
	if cfg.Security.JWTSecret == "" {
		cfg.Security.JWTSecret = defaults.Security.JWTSecret
	}
	if cfg.Security.AccessTokenTTL == 0 {
		cfg.Security.AccessTokenTTL = defaults.Security.AccessTokenTTL
	}
	if cfg.Security.RefreshTokenTTL == 0 {
		cfg.Security.RefreshTokenTTL = defaults.Security.RefreshTokenTTL
	}
}

func applyEnvOverrides(cfg *Config) {
	viper.AutomaticEnv()

	_ = viper.BindEnv("db_password", "DB_PASSWORD")
	_ = viper.BindEnv("redis_addr", "REDIS_ADDR")
	_ = viper.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = viper.BindEnv("jwt_secret", "JWT_SECRET")

	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("APP_LOG_LEVEL"); v != "" {
		cfg.App.LogLevel = v
	}
	if v := os.Getenv("APP_HTTP_ADDR"); v != "" {
		cfg.App.HTTPAddr = v
	} else if hasAnyEnv("SERVER_HOSTNAME", "SERVER_PORT") {
		host, port := splitHostPort(cfg.App.HTTPAddr, "localhost", "3000")
		if v := os.Getenv("SERVER_HOSTNAME"); v != "" {
			host = v
		}
		if v := os.Getenv("SERVER_PORT"); v != "" {
			port = v
		}
		cfg.App.HTTPAddr = host + ":" + port
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		cfg.App.CORSOrigin = v
	}
	if v := os.Getenv("APP_ACTIVITY_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.App.ActivityTTL = d
		}
	}
	if v := os.Getenv("APP_SEED_DEMO_DATA"); v != "" {
		cfg.App.SeedDemoData = v == "true" || v == "1"
	}

	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.MySQL.DSN = v
	} else if hasAnyEnv("DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME") || viper.GetString("db_password") != "" {
		parsed := parseMySQLDSN(cfg.MySQL.DSN)
		if v := os.Getenv("DB_HOST"); v != "" {
			_, port := splitHostPort(parsed.Addr, "localhost", "3306")
			parsed.Addr = v + ":" + port
		} else if v := os.Getenv("DB_PORT"); v != "" {
			host, _ := splitHostPort(parsed.Addr, "localhost", "3306")
			parsed.Addr = host + ":" + v
		}
		if v := os.Getenv("DB_USER"); v != "" {
			parsed.User = v
		}
		if v := viper.GetString("db_password"); v != "" {
			parsed.Passwd = v
		}
		if v := os.Getenv("DB_NAME"); v != "" {
			parsed.DBName = v
		}
		cfg.MySQL.DSN = parsed.FormatDSN()
	}

	if v := viper.GetString("redis_addr"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := viper.GetString("redis_password"); v != "" {
		cfg.Redis.Password = v
	}

	if v := viper.GetString("jwt_secret"); v != "" {
		cfg.Security.JWTSecret = v
	}
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Security.AccessTokenTTL = d
		}
	}
	if v := os.Getenv("REFRESH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Security.RefreshTokenTTL = d
		}
	}
}

func hasAnyEnv(keys ...string) bool {
	for _, key := range keys {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

func splitHostPort(addr, defaultHost, defaultPort string) (string, string) {
	host, port := defaultHost, defaultPort
	if addr != "" {
		if i := strings.LastIndex(addr, ":"); i >= 0 {
			if addr[:i] != "" {
				host = addr[:i]
			}
			if addr[i+1:] != "" {
				port = addr[i+1:]
			}
		} else {
			host = addr
		}
	}
	return host, port
}

func parseMySQLDSN(dsn string) *mysql.Config {
	fallback := &mysql.Config{
		User:   "root",
		Passwd: "",
		Net:    "tcp",
		Addr:   "localhost:3306",
		DBName: "taskdb",
		Params: map[string]string{
			"parseTime": "true",
			"loc":       "Local",
		},
	}
	if dsn == "" {
		return fallback
	}
	parsed, err := mysql.ParseDSN(dsn)
	if err != nil {
		return fallback
	}
	return parsed
}

// UnmarshalJSON 自定义 JSON 解析，支持 Duration 字符串。
func (a *AppConfig) UnmarshalJSON(data []byte) error {
	type Alias AppConfig
	aux := &struct {
		ActivityTTL string `json:"activity_ttl"`
		*Alias
	}{
		Alias: (*Alias)(a),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.ActivityTTL != "" {
		duration, err := time.ParseDuration(aux.ActivityTTL)
		if err != nil {
			return fmt.Errorf("invalid activity_ttl format: %w", err)
		}
		a.ActivityTTL = duration
	}

	return nil
}

// UnmarshalJSON 自定义 JSON 解析，支持 Duration 字符串。
func (s *SecurityConfig) UnmarshalJSON(data []byte) error {
	type Alias SecurityConfig
	aux := &struct {
		AccessTokenTTL  string `json:"access_token_ttl"`
		RefreshTokenTTL string `json:"refresh_token_ttl"`
		*Alias
	}{
		Alias: (*Alias)(s),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.AccessTokenTTL != "" {
		duration, err := time.ParseDuration(aux.AccessTokenTTL)
		if err != nil {
			return fmt.Errorf("invalid access_token_ttl format: %w", err)
		}
		s.AccessTokenTTL = duration
	}
	if aux.RefreshTokenTTL != "" {
		duration, err := time.ParseDuration(aux.RefreshTokenTTL)
		if err != nil {
			return fmt.Errorf("invalid refresh_token_ttl format: %w", err)
		}
		s.RefreshTokenTTL = duration
	}

	return nil
}
