package config

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
)

const yamlConfig = `
app:
  AppPort: "9090"
  JWTSecret: from-file
  TokenTTLHours: 12
  AllowedOrigins:
    - https://mz.example.com
database:
  Driver: postgres
  DBHost: db.internal
  DBName: portal
upload:
  Dir: /srv/uploads
  MaxMB: 4
admin:
  Username: root
  Usernames: [alice, bob]
notice:
  Title: Hot
  Items: [one, two]
portals:
  - name: Example
    href: https://example.com
    description: Example site
videos:
  - id: 42
    title: Demo
    views: 1K
    duration: "1:00"
    thumbnail: bg-red-500
    url: https://www.youtube.com/embed/demo
`

func TestApplyRawFromYAML(t *testing.T) {
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlConfig), &raw); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var c AppConfig
	applyRaw(raw, &c)
	applyDefaults(&c)

	if c.AppPort != "9090" || c.JWTSecret != "from-file" || c.TokenTTLHours != 12 {
		t.Fatalf("app section not applied: %+v", c)
	}
	if c.DBDriver != "postgres" || c.DBPort != "5432" || c.DBName != "portal" {
		t.Fatalf("database section not applied: driver=%s port=%s name=%s", c.DBDriver, c.DBPort, c.DBName)
	}
	if c.UploadDir != "/srv/uploads" || c.UploadMaxMB != 4 || c.MaxImagesPerPost != 5 {
		t.Fatalf("upload section not applied: %+v", c)
	}
	if len(c.AdminUsernames) != 2 || c.AdminUsername != "root" {
		t.Fatalf("admin section not applied: %+v", c.AdminUsernames)
	}
	if c.NoticeTitle != "Hot" || len(c.NoticeItems) != 2 {
		t.Fatalf("notice not applied")
	}
	if len(c.Portals) != 1 || c.Portals[0].Href != "https://example.com" {
		t.Fatalf("portals not applied: %+v", c.Portals)
	}
	if len(c.Videos) != 1 || c.Videos[0].ID != 42 || c.Videos[0].Duration != "1:00" {
		t.Fatalf("videos not applied: %+v", c.Videos)
	}
	if len(c.Shorts) != len(defaultShorts()) {
		t.Fatalf("shorts should fall back to defaults")
	}
}

func TestApplyRawFromJSON(t *testing.T) {
	var raw map[string]any
	doc := `{"redis":{"RedisHost":"cache","RedisPort":6380},"log":{"Level":"debug","Compress":true}}`
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		t.Fatalf("json: %v", err)
	}
	var c AppConfig
	applyRaw(raw, &c)
	if c.RedisHost != "cache" || c.RedisPort != 6380 || c.LogLevel != "debug" || !c.LogCompress {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestDefaults(t *testing.T) {
	var c AppConfig
	applyDefaults(&c)
	if c.AppPort != "8080" || c.DBDriver != "mysql" || c.DBPort != "3306" {
		t.Fatalf("unexpected defaults %+v", c)
	}
	if c.UploadURLPrefix != "/uploads" || c.AttachmentGraceMinutes != 60 || c.AttachmentSweepMinutes != 10 {
		t.Fatalf("unexpected upload defaults %+v", c)
	}
	if len(c.Portals) != 10 || len(c.Videos) != 6 || len(c.Shorts) != 5 {
		t.Fatalf("portal content defaults missing")
	}
	if c.RedisHost != "" {
		t.Fatalf("redis must be disabled unless configured")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "7070")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("UPLOAD_MAX_MB", "2")
	t.Setenv("ADMIN_USERNAMES", " alice , ,bob ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")

	var c AppConfig
	applyDefaults(&c)
	applyEnvOverrides(&c)
	if c.AppPort != "7070" || c.DBDriver != "sqlite" || c.UploadMaxMB != 2 {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if len(c.AdminUsernames) != 2 || c.AdminUsernames[0] != "alice" || c.AdminUsernames[1] != "bob" {
		t.Fatalf("unexpected admin list %q", c.AdminUsernames)
	}
	if len(c.AllowedOrigins) != 2 {
		t.Fatalf("unexpected origins %q", c.AllowedOrigins)
	}
}

func TestBuildDSN(t *testing.T) {
	cases := []struct {
		cfg  AppConfig
		want string
	}{
		{AppConfig{DatabaseURI: "file:x.db"}, "file:x.db"},
		{AppConfig{DBDriver: "sqlite", DBName: "portal"}, "portal.db"},
		{AppConfig{DBDriver: "mysql", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "d"},
			"u:p@tcp(h:3306)/d?charset=utf8mb4&parseTime=True&loc=Local"},
		{AppConfig{DBDriver: "postgres", DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d"},
			"host=h port=5432 user=u password=p dbname=d sslmode=disable TimeZone=UTC"},
	}
	for _, tc := range cases {
		if got := buildDSN(tc.cfg); got != tc.want {
			t.Errorf("buildDSN(%s) = %q, want %q", tc.cfg.DBDriver, got, tc.want)
		}
	}
}

func TestOpenDatabaseUnknownDriver(t *testing.T) {
	if _, err := OpenDatabase("oracle", "", "silent"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
