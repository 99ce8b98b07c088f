package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath       string
	RawMailDir   string
	OutputDir    string
	ContractsDir string

	AnthropicAPIKey       string
	AnthropicBaseURL      string
	AnthropicModel        string
	AnthropicVersion      string
	AnthropicMaxTokens    int
	AnthropicTimeoutMs    int
	AnthropicMaxRetries   int
	AnthropicRateLimitRPS int

	CostInputPerMTok  float64
	CostOutputPerMTok float64

	VesselPrefixBare bool
	DetectThreshold  float64

	GmailClientID     string
	GmailClientSecret string
	GmailRedirectURI  string
	GmailRefreshToken string

	IMAPHost     string
	IMAPPort     int
	IMAPSecure   bool
	IMAPUser     string
	IMAPPassword string
	IMAPMarkSeen bool

	MailListenerProvider     string
	MailListenerLabel        string
	MailListenerIntervalSec  int
	MailListenerFetchMax     int
	MailListenerProcessBatch int
	MailListenerAutoExport   bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:       getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		RawMailDir:   getEnv("MAIL_RAW_DIR", filepath.Join(cwd, "data", "raw")),
		OutputDir:    getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),
		ContractsDir: getEnv("CONTRACTS_DIR", filepath.Join(cwd, "sample_contracts")),

		AnthropicAPIKey:       getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicBaseURL:      getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
		AnthropicModel:        getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		AnthropicVersion:      getEnv("ANTHROPIC_VERSION", "2023-06-01"),
		AnthropicMaxTokens:    getEnvInt("ANTHROPIC_MAX_TOKENS", 2000),
		AnthropicTimeoutMs:    getEnvInt("ANTHROPIC_TIMEOUT_MS", 60000),
		AnthropicMaxRetries:   getEnvInt("ANTHROPIC_MAX_RETRIES", 3),
		AnthropicRateLimitRPS: getEnvInt("ANTHROPIC_RATE_LIMIT_RPS", 2),

		CostInputPerMTok:  getEnvFloat("COST_INPUT_PER_MTOK", 3.0),
		CostOutputPerMTok: getEnvFloat("COST_OUTPUT_PER_MTOK", 15.0),

		VesselPrefixBare: getEnvBool("VESSEL_PREFIX_BARE", true),
		DetectThreshold:  getEnvFloat("DETECT_THRESHOLD", 0.45),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRedirectURI:  getEnv("GMAIL_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),

		IMAPHost:     getEnv("IMAP_HOST", ""),
		IMAPPort:     getEnvInt("IMAP_PORT", 993),
		IMAPSecure:   getEnvBool("IMAP_SECURE", true),
		IMAPUser:     getEnv("IMAP_USER", ""),
		IMAPPassword: getEnv("IMAP_PASSWORD", ""),
		IMAPMarkSeen: getEnvBool("IMAP_MARK_SEEN", false),

		MailListenerProvider:     getEnv("MAIL_LISTENER_PROVIDER", "gmail"),
		MailListenerLabel:        getEnv("MAIL_LISTENER_LABEL", "INBOX"),
		MailListenerIntervalSec:  getEnvInt("MAIL_LISTENER_INTERVAL_SEC", 60),
		MailListenerFetchMax:     getEnvInt("MAIL_LISTENER_FETCH_MAX", 20),
		MailListenerProcessBatch: getEnvInt("MAIL_LISTENER_PROCESS_BATCH", 20),
		MailListenerAutoExport:   getEnvBool("MAIL_LISTENER_AUTO_EXPORT", true),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
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

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
