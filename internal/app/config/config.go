// Package config はアプリケーション全体の設定を組み立てます。
// 優先順位は デフォルト値 < YAMLファイル(FOODLOG_CONFIG) < 環境変数 です。
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"food_logger/internal/platform/db"
	"food_logger/internal/platform/redis"
	"food_logger/internal/platform/session"
)

// EnvProduction は本番環境を表すAPP_ENVの値です。
const EnvProduction = "production"

// ErrMissingSessionSecret はSESSION_SECRETが設定されていない場合に返されます。
var ErrMissingSessionSecret = errors.New("SESSION_SECRET must be set")

// LoginLimit はログイン試行回数制限の設定です。
type LoginLimit struct {
	Attempts int           `yaml:"attempts"`
	Window   time.Duration `yaml:"window"`
}

// Config はアプリケーション設定です。
type Config struct {
	Env              string         `yaml:"env"`
	Port             string         `yaml:"port"`
	RunMigrations    bool           `yaml:"run_migrations"`
	BcryptCost       int            `yaml:"bcrypt_cost"`
	DBConnectTimeout time.Duration  `yaml:"db_connect_timeout"`
	DB               db.Config      `yaml:"db"`
	Redis            redis.Config   `yaml:"redis"`
	Session          session.Config `yaml:"session"`
	LoginLimit       LoginLimit     `yaml:"login_limit"`
	// TrustedProxies はX-Forwarded-Forを信頼するプロキシのIP/CIDRです。空なら直接の接続元IPを使います。
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Default はデフォルト設定を返します。
func Default() Config {
	return Config{
		Env:              "development",
		Port:             "8080",
		DBConnectTimeout: 30 * time.Second,
		DB:               db.Config{Driver: db.DriverMySQL, Host: "127.0.0.1", Port: "3306"},
		Session:          session.DefaultConfig(),
		LoginLimit:       LoginLimit{Attempts: 10, Window: 15 * time.Minute},
	}
}

// Load はデフォルト値にYAMLファイルと環境変数を重ねた設定を返します。
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("FOODLOG_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.IsProduction() {
		cfg.Session.Secure = true
	}
	if cfg.Session.Secret == "" {
		return Config{}, ErrMissingSessionSecret
	}
	return cfg, nil
}

// IsProduction は本番環境かどうかを返します。
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Addr はHTTPサーバーの待ち受けアドレスを返します。
func (c Config) Addr() string {
	return ":" + c.Port
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv は設定されている環境変数だけを上書きします。
func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.Port, "PORT")

	envDB := db.LoadConfigFromEnv()
	override(&cfg.DB.Driver, envDB.Driver)
	override(&cfg.DB.User, envDB.User)
	override(&cfg.DB.Password, envDB.Password)
	override(&cfg.DB.Name, envDB.Name)
	override(&cfg.DB.Host, envDB.Host)
	override(&cfg.DB.Port, envDB.Port)
	override(&cfg.DB.InstanceName, envDB.InstanceName)
	override(&cfg.DB.SQLitePath, envDB.SQLitePath)

	envRedis := redis.LoadConfigFromEnv()
	override(&cfg.Redis.Host, envRedis.Host)
	override(&cfg.Redis.Port, envRedis.Port)
	override(&cfg.Redis.Password, envRedis.Password)

	setString(&cfg.Session.Secret, "SESSION_SECRET")
	if v, ok := lookup("TRUSTED_PROXIES"); ok {
		cfg.TrustedProxies = splitList(v)
	}

	if v, ok := lookup("RUN_MIGRATIONS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RUN_MIGRATIONS %q: %w", v, err)
		}
		cfg.RunMigrations = b
	}
	if v, ok := lookup("BCRYPT_COST"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid BCRYPT_COST %q: %w", v, err)
		}
		cfg.BcryptCost = n
	}
	if v, ok := lookup("REDIS_DB"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Redis.DB = n
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

// splitList はカンマ区切りの値を空要素を除いて分割します。
func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
