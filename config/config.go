package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// AppConfig holds environment driven configuration values.
// Sensitive data should never have defaults inside code and must be provided via env files or the environment.
type AppConfig struct {
	AppPort            string
	JWTSecret          string
	TokenTTLHours      int
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
	// Gin framework configuration
	GinMode string
	GinPath string
	// Redis for caching, token blacklist and signup throttling. Empty host disables Redis.
	RedisHost     string
	RedisPort     int
	RedisDB       int
	RedisPassword string
	// Logging configuration
	LogLevel      string
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
	LogCompress   bool
	// Uploads
	UploadDir              string
	UploadURLPrefix        string
	UploadMaxMB            int
	MaxImagesPerPost       int
	AttachmentSweepMinutes int
	AttachmentGraceMinutes int
	PostListCacheSeconds   int
	// Signup throttling
	SignupCooldownSec    int
	SignupMaxPerIPPerDay int
	// Admins
	AdminUsername  string
	AdminPassword  string
	AdminUsernames []string
	// Portal content
	NoticeTitle string
	NoticeItems []string
	Portals     []PortalLink
	Videos      []Video
	Shorts      []Video
}

var cfg AppConfig
var loaded bool

// Load loads the application configuration. It should be called once during boot.
func Load() AppConfig {
	if loaded {
		return cfg
	}

	// Precedence: .env.local (env only when unset) -> config file -> defaults -> environment variable overrides
	_ = godotenv.Load(".env.local")

	if err := loadConfigFile(&cfg); err != nil {
		log.Fatalf("invalid config file: %v", err)
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

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadConfigFile reads config/config.json or config/config.yaml, whichever exists first.
func loadConfigFile(out *AppConfig) error {
	candidates := []string{
		filepath.Join("config", "config.json"),
		filepath.Join("config", "config.yaml"),
		filepath.Join("config", "config.yml"),
	}
	for _, path := range candidates {
		b, err := os.ReadFile(path)
		if err != nil {
			continue // silently ignore missing file
		}
		var raw map[string]any
		if strings.HasSuffix(path, ".json") {
			err = json.Unmarshal(b, &raw)
		} else {
			err = yaml.Unmarshal(b, &raw)
		}
		if err != nil {
			return err
		}
		applyRaw(raw, out)
		return nil
	}
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
		case uint64:
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

func getBool(m map[string]any, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
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

func getMapSlice(m map[string]any, key string) []map[string]any {
	v, ok := m[key]
	if !ok {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	res := make([]map[string]any, 0, len(arr))
	for _, it := range arr {
		if obj, ok := it.(map[string]any); ok {
			res = append(res, obj)
		}
	}
	return res
}

// applyRaw copies grouped sections from a decoded config file.
func applyRaw(raw map[string]any, out *AppConfig) {
	if app, ok := raw["app"].(map[string]any); ok {
		out.AppPort = getString(app, "AppPort")
		out.JWTSecret = getString(app, "JWTSecret")
		if v := getInt(app, "TokenTTLHours"); v != 0 {
			out.TokenTTLHours = v
		}
		if v := getInt(app, "RateLimitPerMinute"); v != 0 {
			out.RateLimitPerMinute = v
		}
		if list := getStringSlice(app, "AllowedOrigins"); len(list) > 0 {
			out.AllowedOrigins = list
		}
	}

	if g, ok := raw["gin"].(map[string]any); ok {
		if v := getString(g, "Mode"); v != "" {
			out.GinMode = v
		}
		if v := getString(g, "LogPath"); v != "" {
			out.GinPath = v
		}
	}

	if dbs, ok := raw["database"].(map[string]any); ok {
		out.DBDriver = getString(dbs, "Driver")
		out.DatabaseURI = getString(dbs, "DatabaseURI")
		out.DBHost = getString(dbs, "DBHost")
		out.DBPort = getString(dbs, "DBPort")
		out.DBUser = getString(dbs, "DBUser")
		out.DBPassword = getString(dbs, "DBPassword")
		out.DBName = getString(dbs, "DBName")
	}

	if rds, ok := raw["redis"].(map[string]any); ok {
		out.RedisHost = getString(rds, "RedisHost")
		if v := getInt(rds, "RedisPort"); v != 0 {
			out.RedisPort = v
		}
		if v := getInt(rds, "RedisDB"); v != 0 {
			out.RedisDB = v
		}
		out.RedisPassword = getString(rds, "RedisPassword")
	}

	if lg, ok := raw["log"].(map[string]any); ok {
		if v := getString(lg, "Level"); v != "" {
			out.LogLevel = v
		}
		if v := getString(lg, "Path"); v != "" {
			out.LogPath = v
		}
		if v := getInt(lg, "MaxSizeMB"); v != 0 {
			out.LogMaxSizeMB = v
		}
		if v := getInt(lg, "MaxBackups"); v != 0 {
			out.LogMaxBackups = v
		}
		if v := getInt(lg, "MaxAgeDays"); v != 0 {
			out.LogMaxAgeDays = v
		}
		out.LogCompress = getBool(lg, "Compress")
	}

	if up, ok := raw["upload"].(map[string]any); ok {
		out.UploadDir = getString(up, "Dir")
		out.UploadURLPrefix = getString(up, "URLPrefix")
		out.UploadMaxMB = getInt(up, "MaxMB")
		out.MaxImagesPerPost = getInt(up, "MaxImagesPerPost")
		out.AttachmentSweepMinutes = getInt(up, "SweepMinutes")
		out.AttachmentGraceMinutes = getInt(up, "GraceMinutes")
	}

	if sg, ok := raw["signup"].(map[string]any); ok {
		out.SignupCooldownSec = getInt(sg, "CooldownSec")
		out.SignupMaxPerIPPerDay = getInt(sg, "MaxPerIPPerDay")
	}

	if adm, ok := raw["admin"].(map[string]any); ok {
		out.AdminUsername = getString(adm, "Username")
		out.AdminPassword = getString(adm, "Password")
		if list := getStringSlice(adm, "Usernames"); len(list) > 0 {
			out.AdminUsernames = list
		}
	}

	if nt, ok := raw["notice"].(map[string]any); ok {
		out.NoticeTitle = getString(nt, "Title")
		out.NoticeItems = getStringSlice(nt, "Items")
	}

	for _, p := range getMapSlice(raw, "portals") {
		out.Portals = append(out.Portals, PortalLink{
			Name:        getString(p, "name"),
			Href:        getString(p, "href"),
			Description: getString(p, "description"),
		})
	}
	for _, v := range getMapSlice(raw, "videos") {
		out.Videos = append(out.Videos, videoFromMap(v))
	}
	for _, v := range getMapSlice(raw, "shorts") {
		out.Shorts = append(out.Shorts, videoFromMap(v))
	}
}

// applyDefaults sets sane defaults for zero-value fields.
func applyDefaults(c *AppConfig) {
	if c.AppPort == "" {
		c.AppPort = "8080"
	}
	if c.TokenTTLHours == 0 {
		c.TokenTTLHours = 72
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
		switch c.DBDriver {
		case "postgres":
			c.DBPort = "5432"
		default:
			c.DBPort = "3306"
		}
	}
	if c.DBUser == "" {
		c.DBUser = "root"
	}
	if c.DBName == "" {
		c.DBName = "mzportal"
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
	if c.UploadDir == "" {
		c.UploadDir = filepath.Join("public", "uploads")
	}
	if c.UploadURLPrefix == "" {
		c.UploadURLPrefix = "/uploads"
	}
	if c.UploadMaxMB == 0 {
		c.UploadMaxMB = 10
	}
	if c.MaxImagesPerPost == 0 {
		c.MaxImagesPerPost = 5
	}
	if c.AttachmentSweepMinutes == 0 {
		c.AttachmentSweepMinutes = 10
	}
	if c.AttachmentGraceMinutes == 0 {
		c.AttachmentGraceMinutes = 60
	}
	if c.PostListCacheSeconds == 0 {
		c.PostListCacheSeconds = 60
	}
	if c.SignupCooldownSec == 0 {
		c.SignupCooldownSec = 10
	}
	if c.SignupMaxPerIPPerDay == 0 {
		c.SignupMaxPerIPPerDay = 5
	}
	if c.NoticeTitle == "" {
		c.NoticeTitle = "Trending"
	}
	if len(c.NoticeItems) == 0 {
		c.NoticeItems = defaultNoticeItems()
	}
	if len(c.Portals) == 0 {
		c.Portals = defaultPortals()
	}
	if len(c.Videos) == 0 {
		c.Videos = defaultVideos()
	}
	if len(c.Shorts) == 0 {
		c.Shorts = defaultShorts()
	}
}

// applyEnvOverrides maps known environment variables onto config values when present.
func applyEnvOverrides(c *AppConfig) {
	if v := getEnv("APP_PORT", ""); v != "" {
		c.AppPort = v
	}
	if v := getEnv("JWT_SECRET", ""); v != "" {
		c.JWTSecret = v
	}
	if v := getEnv("TOKEN_TTL_HOURS", ""); v != "" {
		c.TokenTTLHours = mustParseInt(v)
	}
	if v := getEnv("GIN_MODE", ""); v != "" {
		c.GinMode = v
	}
	if v := getEnv("GIN_PATH", ""); v != "" {
		c.GinPath = v
	}
	if v := getEnv("DB_DRIVER", ""); v != "" {
		c.DBDriver = v
	}
	if v := getEnv("DATABASE_URI", ""); v != "" {
		c.DatabaseURI = v
	}
	if v := getEnv("DB_HOST", ""); v != "" {
		c.DBHost = v
	}
	if v := getEnv("DB_PORT", ""); v != "" {
		c.DBPort = v
	}
	if v := getEnv("DB_USER", ""); v != "" {
		c.DBUser = v
	}
	if v := getEnv("DB_PASSWORD", ""); v != "" {
		c.DBPassword = v
	}
	if v := getEnv("DB_NAME", ""); v != "" {
		c.DBName = v
	}
	if v := getEnv("RATE_LIMIT_PER_MINUTE", ""); v != "" {
		c.RateLimitPerMinute = mustParseInt(v)
	}
	if v := getEnv("CORS_ALLOWED_ORIGINS", ""); v != "" {
		c.AllowedOrigins = readListEnv("CORS_ALLOWED_ORIGINS", c.AllowedOrigins)
	}
	if v := getEnv("REDIS_HOST", ""); v != "" {
		c.RedisHost = v
	}
	if v := getEnv("REDIS_PORT", ""); v != "" {
		c.RedisPort = mustParseInt(v)
	}
	if v := getEnv("REDIS_DB", ""); v != "" {
		c.RedisDB = mustParseInt(v)
	}
	if v := getEnv("REDIS_PASSWORD", ""); v != "" {
		c.RedisPassword = v
	}
	if v := getEnv("LOG_LEVEL", ""); v != "" {
		c.LogLevel = v
	}
	if v := getEnv("LOG_PATH", ""); v != "" {
		c.LogPath = v
	}
	if v := getEnv("LOG_MAX_SIZE_MB", ""); v != "" {
		c.LogMaxSizeMB = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_BACKUPS", ""); v != "" {
		c.LogMaxBackups = mustParseInt(v)
	}
	if v := getEnv("LOG_MAX_AGE_DAYS", ""); v != "" {
		c.LogMaxAgeDays = mustParseInt(v)
	}
	if v := getEnv("LOG_COMPRESS", ""); v != "" {
		c.LogCompress = v == "true"
	}
	if v := getEnv("UPLOAD_DIR", ""); v != "" {
		c.UploadDir = v
	}
	if v := getEnv("UPLOAD_URL_PREFIX", ""); v != "" {
		c.UploadURLPrefix = v
	}
	if v := getEnv("UPLOAD_MAX_MB", ""); v != "" {
		c.UploadMaxMB = mustParseInt(v)
	}
	if v := getEnv("ATTACHMENT_SWEEP_MINUTES", ""); v != "" {
		c.AttachmentSweepMinutes = mustParseInt(v)
	}
	if v := getEnv("ATTACHMENT_GRACE_MINUTES", ""); v != "" {
		c.AttachmentGraceMinutes = mustParseInt(v)
	}
	if v := getEnv("POST_LIST_CACHE_SECONDS", ""); v != "" {
		c.PostListCacheSeconds = mustParseInt(v)
	}
	if v := getEnv("SIGNUP_COOLDOWN_SEC", ""); v != "" {
		c.SignupCooldownSec = mustParseInt(v)
	}
	if v := getEnv("SIGNUP_MAX_PER_IP_PER_DAY", ""); v != "" {
		c.SignupMaxPerIPPerDay = mustParseInt(v)
	}
	if v := getEnv("ADMIN_USERNAME", ""); v != "" {
		c.AdminUsername = v
	}
	if v := getEnv("ADMIN_PASSWORD", ""); v != "" {
		c.AdminPassword = v
	}
	if v := getEnv("ADMIN_USERNAMES", ""); v != "" {
		c.AdminUsernames = readListEnv("ADMIN_USERNAMES", c.AdminUsernames)
	}
	if v := getEnv("NOTICE_TITLE", ""); v != "" {
		c.NoticeTitle = v
	}
}

func mustParseInt(val string) int {
	i, err := strconv.Atoi(val)
	if err != nil {
		log.Fatalf("invalid integer value %s: %v", val, err)
	}
	return i
}

func readListEnv(key string, defaults []string) []string {
	if raw := os.Getenv(key); raw != "" {
		return splitAndTrim(raw)
	}
	return defaults
}

func splitAndTrim(raw string) []string {
	items := []string{}
	for _, item := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
