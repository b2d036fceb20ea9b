package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// CatalogSource maps a display name to the remote spreadsheet it loads from.
type CatalogSource struct {
	Name     string
	SourceID string
}

type Config struct {
	DBPath   string
	CacheDir string

	CatalogSources    []CatalogSource
	SourceConnector   string
	ExportURLTemplate string
	FetchTimeoutMs    int
	FetchRateLimitRPS int
	SnapshotTTLMin    int
	PageSize          int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string

	WhatsAppPhone string
	HTTPAddr      string

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	OrderEmailFrom string
	OrderEmailTo   string
}

// The four catalog lines the shop publishes, keyed by their public sheet IDs.
const defaultSources = "Línea Perros=1EK_NlWT-eS5_7P2kWwBHsui2tKu5t26U;" +
	"Línea Pájaros y Roedores=1n10EZZvZq-3M2t3rrtmvW7gfeB40VJ7F;" +
	"Línea Gatos=1vSWXZKsIOqpy2wNhWsKH3Lp77JnRNKbA;" +
	"Línea Bombas de Acuario=1DiXE5InuxMjZio6HD1nkwtQZe8vaGcSh"

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:   getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		CacheDir: getEnv("CACHE_DIR", filepath.Join(cwd, "data", "snapshots")),

		SourceConnector:   getEnv("SOURCE_CONNECTOR", "export"),
		ExportURLTemplate: getEnv("EXPORT_URL_TEMPLATE", "https://docs.google.com/spreadsheets/d/%s/export?format=xlsx"),
		FetchTimeoutMs:    getEnvInt("FETCH_TIMEOUT_MS", 30000),
		FetchRateLimitRPS: getEnvInt("FETCH_RATE_LIMIT_RPS", 2),
		SnapshotTTLMin:    getEnvInt("SNAPSHOT_TTL_MIN", 15),
		PageSize:          getEnvInt("PAGE_SIZE", 45),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		WhatsAppPhone: getEnv("WHATSAPP_PHONE", "5493516434765"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),

		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		OrderEmailFrom: getEnv("ORDER_EMAIL_FROM", ""),
		OrderEmailTo:   getEnv("ORDER_EMAIL_TO", ""),
	}

	cfg.CatalogSources, err = parseSources(getEnv("CATALOG_SOURCES", defaultSources))
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SourceFor resolves a catalog line name to its configured source.
func (c Config) SourceFor(lineName string) (CatalogSource, bool) {
	for _, src := range c.CatalogSources {
		if src.Name == lineName {
			return src, true
		}
	}
	return CatalogSource{}, false
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

// parseSources reads "Name=sourceId;Name=sourceId" pairs, order preserved.
func parseSources(raw string) ([]CatalogSource, error) {
	out := make([]CatalogSource, 0, 4)
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, id, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("malformed CATALOG_SOURCES entry: %q", pair)
		}
		out = append(out, CatalogSource{Name: name, SourceID: id})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("CATALOG_SOURCES is empty")
	}
	return out, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
