// Package config loads the provisioner's settings from the environment.
//
// Environment Variables:
//
// Database (the engine's backing database; the credential synthesized for
// the engine's workflows uses the same values):
//   - DB_POSTGRESDB_HOST: database hostname (default: postgres)
//   - DB_POSTGRESDB_PORT: database port (default: 5432)
//   - DB_POSTGRESDB_DATABASE: database name (default: news_agent)
//   - DB_POSTGRESDB_USER: database user (default: n8n)
//   - DB_POSTGRESDB_PASSWORD: database password (default: n8n_password)
//
// Optional credential triggers (a credential is synthesized only when the
// trigger value is non-empty):
//   - OPENAI_API_KEY: OpenAI API key
//   - SMTP_HOST: mail server host (gates the whole SMTP credential)
//   - SMTP_PORT: mail server port (default: 587)
//   - SMTP_USER: mail account user
//   - SMTP_PASSWORD: mail account password
//   - TELEGRAM_BOT_TOKEN: Telegram bot access token
//   - API_KEY: News Agent API key (header auth)
//   - API_KEY_HEADER: header name for the API key (default: X-API-Key)
//
// Engine and pipeline:
//   - N8N_BIN: engine executable (default: n8n)
//   - N8N_DATA_DIR: engine durable data directory (default: /home/node/.n8n)
//   - WORKFLOWS_DIR: read-only workflow definition source (default: /workflows)
//   - DB_WAIT_TIMEOUT: database readiness wait budget (default: 60s)
//
// A .env file in the working directory (or one passed explicitly) is loaded
// first; values already present in the real environment win.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DBSettings describes the engine's backing database.
type DBSettings struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string
}

// ConnString returns a pgx-compatible connection string.
func (d DBSettings) ConnString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Database,
	)
}

// SMTPSettings describes the outbound mail account. Host acts as the
// trigger for the whole credential.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
}

// APIAuthSettings describes the header-based API key the engine's workflows
// use to call back into the News Agent API.
type APIAuthSettings struct {
	HeaderName string
	Key        string
}

// EngineSettings locates the engine binary and the directories the pipeline
// works against.
type EngineSettings struct {
	Bin           string
	DataDir       string
	WorkflowsDir  string
	DBWaitTimeout time.Duration
}

// Settings is the full provisioner configuration.
type Settings struct {
	DB               DBSettings
	OpenAIAPIKey     string
	SMTP             SMTPSettings
	TelegramBotToken string
	APIAuth          APIAuthSettings
	Engine           EngineSettings
}

// MarkerPath returns the provision marker location inside the engine's
// durable data directory.
func (s *Settings) MarkerPath() string {
	return filepath.Join(s.Engine.DataDir, ".provisioned")
}

// Load reads settings from the environment, applying defaults for unset
// keys. When envFile is non-empty it must exist; otherwise a .env file in
// the working directory is loaded if present.
func Load(envFile string) (*Settings, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else {
		// Best effort: a missing .env is the normal case in containers.
		_ = godotenv.Load()
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_POSTGRESDB_HOST", "postgres")
	v.SetDefault("DB_POSTGRESDB_PORT", 5432)
	v.SetDefault("DB_POSTGRESDB_DATABASE", "news_agent")
	v.SetDefault("DB_POSTGRESDB_USER", "n8n")
	v.SetDefault("DB_POSTGRESDB_PASSWORD", "n8n_password")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("API_KEY_HEADER", "X-API-Key")
	v.SetDefault("N8N_BIN", "n8n")
	v.SetDefault("N8N_DATA_DIR", "/home/node/.n8n")
	v.SetDefault("WORKFLOWS_DIR", "/workflows")
	v.SetDefault("DB_WAIT_TIMEOUT", "60s")

	settings := &Settings{
		DB: DBSettings{
			Host:     v.GetString("DB_POSTGRESDB_HOST"),
			Port:     v.GetInt("DB_POSTGRESDB_PORT"),
			Database: v.GetString("DB_POSTGRESDB_DATABASE"),
			User:     v.GetString("DB_POSTGRESDB_USER"),
			Password: v.GetString("DB_POSTGRESDB_PASSWORD"),
		},
		OpenAIAPIKey: v.GetString("OPENAI_API_KEY"),
		SMTP: SMTPSettings{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
		},
		TelegramBotToken: v.GetString("TELEGRAM_BOT_TOKEN"),
		APIAuth: APIAuthSettings{
			HeaderName: v.GetString("API_KEY_HEADER"),
			Key:        v.GetString("API_KEY"),
		},
		Engine: EngineSettings{
			Bin:           v.GetString("N8N_BIN"),
			DataDir:       v.GetString("N8N_DATA_DIR"),
			WorkflowsDir:  v.GetString("WORKFLOWS_DIR"),
			DBWaitTimeout: v.GetDuration("DB_WAIT_TIMEOUT"),
		},
	}

	if settings.Engine.DBWaitTimeout <= 0 {
		return nil, fmt.Errorf("DB_WAIT_TIMEOUT must be positive, got %q", v.GetString("DB_WAIT_TIMEOUT"))
	}

	return settings, nil
}
