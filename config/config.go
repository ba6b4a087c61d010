package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via config files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	RateLimitPerMinute int
	AllowedOrigins     []string
	// Database
	DBDriver    string
	DatabaseURI string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	// Redis for caching and short lived state
	RedisEnabled  bool
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Gin framework configuration
	GinMode string
	GinPath string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Social login
	GitHubClientID     string
	GitHubClientSecret string
	GoogleClientID     string
	GoogleClientSecret string
	OAuthRedirectBase  string
	// SMTP for one-time login codes
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
	SMTPTLS      bool
	// OTP login
	OTPCodeTTLMinutes int
	OTPCaptchaEnabled bool
	// Leaderboards
	LeaderboardPageSize int
	Timezone            string
	// Uploads
	UploadDir       string
	UploadMaxSizeMB int
	// Admins
	AdminUsernames []string
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: config file -> defaults -> environment variable overrides
	if err := loadConfigFile(filepath.Join("config", "config.yaml"), &cfg); err != nil {
		log.Printf("config.yaml ignored: %v", err)
	}
	if err := loadConfigFile(filepath.Join("config", "config.json"), &cfg); err != nil {
		log.Printf("config.json ignored: %v", err)
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set in environment variables")
	}

	loaded = true
	return cfg
}

// Get returns the cached configuration, loading it if necessary.
func Get() AppConfig {
	if !loaded {
		return Load()
	}
	return cfg
}

// Set replaces the cached configuration. Used by tests and the CLI flags.
func Set(c AppConfig) {
	applyDefaults(&c)
	cfg = c
	loaded = true
}

// IsAdmin reports whether username is configured as an admin (case-insensitive).
func (c AppConfig) IsAdmin(username string) bool {
	uname := strings.TrimSpace(username)
	if uname == "" {
		return false
	}
	for _, u := range c.AdminUsernames {
		if strings.EqualFold(strings.TrimSpace(u), uname) {
			return true
		}
	}
	return false
}

// loadConfigFile reads a JSON or YAML file into out if present. Missing files are not an error.
func loadConfigFile(path string, out *AppConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &raw)
	default:
		err = json.Unmarshal(b, &raw)
	}
	if err != nil {
		return err
	}
	applyRaw(raw, out)
	return nil
}

func getString(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getInt(m map[string]any, key string) int {
	if v, ok := m[key]; ok {
		switch t := v.(type) {
		case float64:
			return int(t)
		case int:
			return t
		case int64:
			return int(t)
		case json.Number:
			i, _ := t.Int64()
			return int(i)
		case string:
			i, _ := strconv.Atoi(t)
			return i
		}
	}
	return 0
}

func getBool(m map[string]any, key string) (bool, bool) {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b, true
		}
	}
	return false, false
}

func getStringSlice(m map[string]any, key string) []string {
	if v, ok := m[key]; ok {
		if arr, ok := v.([]any); ok {
			res := make([]string, 0, len(arr))
			for _, it := range arr {
				if s, ok := it.(string); ok {
					res = append(res, s)
				}
			}
			return res
		}
	}
	return nil
}

func section(raw map[string]any, name string) map[string]any {
	if s, ok := raw[name].(map[string]any); ok {
		return s
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setBool(dst *bool, v bool, ok bool) {
	if ok {
		*dst = v
	}
}

func applyRaw(raw map[string]any, out *AppConfig) {
	if app := section(raw, "app"); app != nil {
		setString(&out.AppPort, getString(app, "AppPort"))
		setString(&out.JWTSecret, getString(app, "JWTSecret"))
		setInt(&out.RateLimitPerMinute, getInt(app, "RateLimitPerMinute"))
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
		if list := getStringSlice(app, "AdminUsernames"); len(list) > 0 {
			out.AdminUsernames = list
		}
		setString(&out.UploadDir, getString(app, "UploadDir"))
		setInt(&out.UploadMaxSizeMB, getInt(app, "UploadMaxSizeMB"))
	}

	if dbs := section(raw, "database"); dbs != nil {
		setString(&out.DBDriver, getString(dbs, "Driver"))
		setString(&out.DatabaseURI, getString(dbs, "DatabaseURI"))
		setString(&out.DBHost, getString(dbs, "DBHost"))
		setString(&out.DBPort, getString(dbs, "DBPort"))
		setString(&out.DBUser, getString(dbs, "DBUser"))
		setString(&out.DBPassword, getString(dbs, "DBPassword"))
		setString(&out.DBName, getString(dbs, "DBName"))
	}

	if rds := section(raw, "redis"); rds != nil {
		b, ok := getBool(rds, "Enabled")
		setBool(&out.RedisEnabled, b, ok)
		setString(&out.RedisHost, getString(rds, "RedisHost"))
		setInt(&out.RedisPort, getInt(rds, "RedisPort"))
		setInt(&out.RedisDB, getInt(rds, "RedisDB"))
		setString(&out.RedisPassword, getString(rds, "RedisPassword"))
	}

	if lg := section(raw, "log"); lg != nil {
		setString(&out.LogLevel, getString(lg, "Level"))
		setString(&out.LogPath, getString(lg, "Path"))
		setString(&out.GinMode, getString(lg, "GinMode"))
		setString(&out.GinPath, getString(lg, "GinPath"))
		setInt(&out.LogMaxSizeMB, getInt(lg, "MaxSizeMB"))
		setInt(&out.LogMaxBackups, getInt(lg, "MaxBackups"))
		setInt(&out.LogMaxAgeDays, getInt(lg, "MaxAgeDays"))
		b, ok := getBool(lg, "Compress")
		setBool(&out.LogCompress, b, ok)
	}

	if oa := section(raw, "oauth"); oa != nil {
		setString(&out.GitHubClientID, getString(oa, "GitHubClientID"))
		setString(&out.GitHubClientSecret, getString(oa, "GitHubClientSecret"))
		setString(&out.GoogleClientID, getString(oa, "GoogleClientID"))
		setString(&out.GoogleClientSecret, getString(oa, "GoogleClientSecret"))
		setString(&out.OAuthRedirectBase, getString(oa, "RedirectBase"))
	}

	if sm := section(raw, "smtp"); sm != nil {
		setString(&out.SMTPHost, getString(sm, "SMTPHost"))
		setInt(&out.SMTPPort, getInt(sm, "SMTPPort"))
		setString(&out.SMTPUsername, getString(sm, "SMTPUsername"))
		setString(&out.SMTPPassword, getString(sm, "SMTPPassword"))
		setString(&out.SMTPFrom, getString(sm, "SMTPFrom"))
		setString(&out.SMTPFromName, getString(sm, "SMTPFromName"))
		b, ok := getBool(sm, "SMTPTLS")
		setBool(&out.SMTPTLS, b, ok)
	}

	if au := section(raw, "auth"); au != nil {
		setInt(&out.OTPCodeTTLMinutes, getInt(au, "OTPCodeTTLMinutes"))
		b, ok := getBool(au, "OTPCaptchaEnabled")
		setBool(&out.OTPCaptchaEnabled, b, ok)
	}

	if lb := section(raw, "leaderboard"); lb != nil {
		setInt(&out.LeaderboardPageSize, getInt(lb, "PageSize"))
		setString(&out.Timezone, getString(lb, "Timezone"))
	}

	if adm := section(raw, "admin"); adm != nil {
		if list := getStringSlice(adm, "Usernames"); len(list) > 0 {
			out.AdminUsernames = list
		}
	}

	// Flat keys for backward compatibility
	if out.AppPort == "" {
		out.AppPort = getString(raw, "AppPort")
	}
	if out.JWTSecret == "" {
		out.JWTSecret = getString(raw, "JWTSecret")
	}
	if out.DatabaseURI == "" {
		out.DatabaseURI = getString(raw, "DatabaseURI")
	}
	if out.LogLevel == "" {
		out.LogLevel = getString(raw, "LogLevel")
	}
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
	if c.GinPath == "" {
		c.GinPath = "logs/go_gin.log"
	}
	if c.RateLimitPerMinute == 0 {
		c.RateLimitPerMinute = 60
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if c.DBDriver == "" {
		c.DBDriver = "mysql"
	}
	if c.DBHost == "" {
		c.DBHost = "127.0.0.1"
	}
	if c.DBPort == "" {
		if c.DBDriver == "postgres" {
			c.DBPort = "5432"
		} else {
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "wemake"
	}
	if c.RedisHost == "" {
		c.RedisHost = "127.0.0.1"
	}
	if c.RedisPort == 0 {
		c.RedisPort = 6379
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogMaxSizeMB == 0 {
		c.LogMaxSizeMB = 100
	}
	if c.LogMaxBackups == 0 {
		c.LogMaxBackups = 3
	}
	if c.LogMaxAgeDays == 0 {
		c.LogMaxAgeDays = 7
	}
	if c.OAuthRedirectBase == "" {
		c.OAuthRedirectBase = "http://localhost:8080"
	}
	if c.SMTPPort == 0 {
		c.SMTPPort = 587
	}
	if c.OTPCodeTTLMinutes == 0 {
		c.OTPCodeTTLMinutes = 10
	}
	if c.LeaderboardPageSize == 0 {
		c.LeaderboardPageSize = 7
	}
	if c.Timezone == "" {
		c.Timezone = "Asia/Seoul"
	}
	if c.UploadDir == "" {
		c.UploadDir = "static/uploads"
	}
	if c.UploadMaxSizeMB == 0 {
		c.UploadMaxSizeMB = 2
	}
}

// applyEnvOverrides overrides configuration using environment variables when present.
func applyEnvOverrides(c *AppConfig) {
	c.AppPort = getEnv("APP_PORT", c.AppPort)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	c.AllowedOrigins = readListEnv("ALLOWED_ORIGINS", c.AllowedOrigins)
	c.AdminUsernames = readListEnv("ADMIN_USERNAMES", c.AdminUsernames)

	c.DBDriver = getEnv("DB_DRIVER", c.DBDriver)
	c.DatabaseURI = getEnv("DATABASE_URI", c.DatabaseURI)
	c.DBHost = getEnv("DB_HOST", c.DBHost)
	c.DBPort = getEnv("DB_PORT", c.DBPort)
	c.DBUser = getEnv("DB_USER", c.DBUser)
	c.DBPassword = getEnv("DB_PASSWORD", c.DBPassword)
	c.DBName = getEnv("DB_NAME", c.DBName)

	if v := os.Getenv("REDIS_ENABLED"); v != "" {
		c.RedisEnabled = parseBool(v)
	}
	c.RedisHost = getEnv("REDIS_HOST", c.RedisHost)
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)

	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.GinPath = getEnv("GIN_LOG_PATH", c.GinPath)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogPath = getEnv("LOG_PATH", c.LogPath)

	c.GitHubClientID = getEnv("GITHUB_CLIENT_ID", c.GitHubClientID)
	c.GitHubClientSecret = getEnv("GITHUB_CLIENT_SECRET", c.GitHubClientSecret)
	c.GoogleClientID = getEnv("GOOGLE_CLIENT_ID", c.GoogleClientID)
	c.GoogleClientSecret = getEnv("GOOGLE_CLIENT_SECRET", c.GoogleClientSecret)
	c.OAuthRedirectBase = getEnv("OAUTH_REDIRECT_BASE", c.OAuthRedirectBase)

	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	if v := os.Getenv("SMTP_PORT"); v != "" {
		c.SMTPPort = mustParseInt(v)
	}
	c.SMTPUsername = getEnv("SMTP_USERNAME", c.SMTPUsername)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.SMTPFrom = getEnv("SMTP_FROM", c.SMTPFrom)

	if v := os.Getenv("LEADERBOARD_PAGE_SIZE"); v != "" {
		c.LeaderboardPageSize = mustParseInt(v)
	}
	c.Timezone = getEnv("APP_TIMEZONE", c.Timezone)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		log.Printf("invalid integer %q: %v", val, err)
		return 0
	}
	return i
}

func parseBool(val string) bool {
	b, _ := strconv.ParseBool(strings.TrimSpace(val))
	return b
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			res = append(res, p)
		}
	}
	return res
}
