// Package credentials synthesizes the engine credential documents for the
// News Agent deployment from process configuration.
//
// Each supported integration kind gets at most one credential, with a fixed
// deterministic id. The ids are chosen by the provisioner (not the engine)
// so that credential references inside workflow definitions can be rewritten
// to point at them before import.
package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/newsagent/provision/pkg/config"
)

// Kind is the engine's credential type tag.
type Kind string

const (
	KindPostgres   Kind = "postgres"
	KindOpenAI     Kind = "openAiApi"
	KindSMTP       Kind = "smtp"
	KindTelegram   Kind = "telegramApi"
	KindHeaderAuth Kind = "httpHeaderAuth"
)

// canonicalIDs maps each kind to its deterministic credential id. Exactly
// one id per kind, stable across runs; the remapper depends on that.
var canonicalIDs = map[Kind]string{
	KindPostgres:   "news-agent-postgres",
	KindOpenAI:     "news-agent-openai",
	KindSMTP:       "news-agent-smtp",
	KindTelegram:   "news-agent-telegram",
	KindHeaderAuth: "news-agent-api-auth",
}

// CanonicalID returns the fixed credential id for a kind.
func CanonicalID(kind Kind) (string, bool) {
	id, ok := canonicalIDs[kind]
	return id, ok
}

// CanonicalIDs returns a fresh kind→id map keyed by the engine's type tag
// strings, as consumed by the workflow remapper.
func CanonicalIDs() map[string]string {
	ids := make(map[string]string, len(canonicalIDs))
	for kind, id := range canonicalIDs {
		ids[string(kind)] = id
	}
	return ids
}

// Spec is one credential document in the shape the engine's bulk import
// expects.
type Spec struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	Type Kind           `json:"type"`
	Data map[string]any `json:"data"`
}

// Synthesize builds the credential specs for the given settings. The
// database credential is always produced; every other kind is produced only
// when its trigger configuration value is non-empty. The second return value
// lists human-readable skip notices for absent optional kinds.
func Synthesize(cfg *config.Settings) ([]Spec, []string) {
	var specs []Spec
	var skipped []string

	specs = append(specs, Spec{
		ID:   canonicalIDs[KindPostgres],
		Name: "News Agent Postgres",
		Type: KindPostgres,
		Data: map[string]any{
			"host":     cfg.DB.Host,
			"port":     cfg.DB.Port,
			"database": cfg.DB.Database,
			"user":     cfg.DB.User,
			"password": cfg.DB.Password,
			"ssl":      "disable",
		},
	})

	if cfg.OpenAIAPIKey != "" {
		specs = append(specs, Spec{
			ID:   canonicalIDs[KindOpenAI],
			Name: "News Agent OpenAI",
			Type: KindOpenAI,
			Data: map[string]any{
				"apiKey": cfg.OpenAIAPIKey,
			},
		})
	} else {
		skipped = append(skipped, "OpenAI credential skipped (OPENAI_API_KEY not set)")
	}

	if cfg.SMTP.Host != "" {
		specs = append(specs, Spec{
			ID:   canonicalIDs[KindSMTP],
			Name: "News Agent SMTP",
			Type: KindSMTP,
			Data: map[string]any{
				"host":     cfg.SMTP.Host,
				"port":     cfg.SMTP.Port,
				"user":     cfg.SMTP.User,
				"password": cfg.SMTP.Password,
				"secure":   false,
			},
		})
	} else {
		skipped = append(skipped, "SMTP credential skipped (SMTP_HOST not set)")
	}

	if cfg.TelegramBotToken != "" {
		specs = append(specs, Spec{
			ID:   canonicalIDs[KindTelegram],
			Name: "News Agent Telegram",
			Type: KindTelegram,
			Data: map[string]any{
				"accessToken": cfg.TelegramBotToken,
			},
		})
	} else {
		skipped = append(skipped, "Telegram credential skipped (TELEGRAM_BOT_TOKEN not set)")
	}

	if cfg.APIAuth.Key != "" {
		specs = append(specs, Spec{
			ID:   canonicalIDs[KindHeaderAuth],
			Name: "News Agent API Auth",
			Type: KindHeaderAuth,
			Data: map[string]any{
				"name":  cfg.APIAuth.HeaderName,
				"value": cfg.APIAuth.Key,
			},
		})
	} else {
		skipped = append(skipped, "API header auth credential skipped (API_KEY not set)")
	}

	return specs, skipped
}

// WriteUnits writes one JSON document per spec into dir (creating it if
// needed), named <id>.json, matching the input shape of the engine's bulk
// credential import.
func WriteUnits(dir string, specs []Spec) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential staging directory: %w", err)
	}
	for _, spec := range specs {
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal credential %s: %w", spec.ID, err)
		}
		path := filepath.Join(dir, spec.ID+".json")
		if err := os.WriteFile(path, data, 0o600); err != nil {
			return fmt.Errorf("failed to write credential unit %s: %w", path, err)
		}
	}
	return nil
}
