// Package settings owns the dashboard's persisted configuration: the
// password hash, per-provider API keys, and billing-cycle anchor days. API
// keys are encrypted at rest; everything else is plain JSON.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"golang.org/x/crypto/bcrypt"

	"github.com/janekbaraniewski/usagedeck/internal/core"
)

const defaultPassword = "changeme"

type Settings struct {
	DashboardPasswordHash string

	OpenAIKey     string
	AnthropicKey  string
	OpenRouterKey string

	OpenAICycleDay     int
	AnthropicCycleDay  int
	OpenRouterCycleDay int
}

// fileSettings is the on-disk representation; key fields hold ciphertext.
type fileSettings struct {
	DashboardPasswordHash string `json:"dashboardPasswordHash"`
	OpenAIKey             string `json:"openaiKey"`
	AnthropicKey          string `json:"anthropicKey"`
	OpenRouterKey         string `json:"openrouterKey"`
	OpenAICycleDay        int    `json:"openaiCycle"`
	AnthropicCycleDay     int    `json:"anthropicCycle"`
	OpenRouterCycleDay    int    `json:"openrouterCycle"`
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "usagedeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "usagedeck")
}

func Path() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// Default seeds settings from the environment so a container deployment
// works without ever touching the settings endpoints.
func Default() (Settings, error) {
	password := os.Getenv("DASHBOARD_PASSWORD")
	if password == "" {
		password = defaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Settings{}, fmt.Errorf("hashing default password: %w", err)
	}

	return Settings{
		DashboardPasswordHash: string(hash),
		OpenAIKey:             os.Getenv("OPENAI_API_KEY"),
		AnthropicKey:          os.Getenv("ANTHROPIC_API_KEY"),
		OpenRouterKey:         os.Getenv("OPENROUTER_API_KEY"),
		OpenAICycleDay:        cycleDayFromEnv("OPENAI_BILLING_DATE"),
		AnthropicCycleDay:     cycleDayFromEnv("ANTHROPIC_BILLING_DATE"),
		OpenRouterCycleDay:    cycleDayFromEnv("OPENROUTER_BILLING_DATE"),
	}, nil
}

func cycleDayFromEnv(key string) int {
	day, err := strconv.Atoi(os.Getenv(key))
	if err != nil || day < 1 || day > 31 {
		return 1
	}
	return day
}

// ProviderConfigs exposes the read-only view the aggregator consumes on each
// refresh.
func (s Settings) ProviderConfigs() core.ProviderConfigs {
	return core.ProviderConfigs{
		OpenAI:     core.ProviderConfig{APIKey: s.OpenAIKey, BillingCycleDay: s.OpenAICycleDay},
		Anthropic:  core.ProviderConfig{APIKey: s.AnthropicKey, BillingCycleDay: s.AnthropicCycleDay},
		OpenRouter: core.ProviderConfig{APIKey: s.OpenRouterKey, BillingCycleDay: s.OpenRouterCycleDay},
	}
}

func (s Settings) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(s.DashboardPasswordHash), []byte(password)) == nil
}

func (s *Settings) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	s.DashboardPasswordHash = string(hash)
	return nil
}

// Update carries a partial settings change from the API; nil fields are left
// untouched.
type Update struct {
	DashboardPassword *string `json:"dashboardPassword"`
	OpenAIKey         *string `json:"openaiKey"`
	AnthropicKey      *string `json:"anthropicKey"`
	OpenRouterKey     *string `json:"openrouterKey"`
	OpenAICycleDay    *int    `json:"openaiCycle"`
	AnthropicCycleDay *int    `json:"anthropicCycle"`
	OpenRouterCycle   *int    `json:"openrouterCycle"`
}

func (s *Settings) Apply(u Update) error {
	if u.DashboardPassword != nil && *u.DashboardPassword != "" {
		if err := s.SetPassword(*u.DashboardPassword); err != nil {
			return err
		}
	}
	if u.OpenAIKey != nil {
		s.OpenAIKey = *u.OpenAIKey
	}
	if u.AnthropicKey != nil {
		s.AnthropicKey = *u.AnthropicKey
	}
	if u.OpenRouterKey != nil {
		s.OpenRouterKey = *u.OpenRouterKey
	}
	if u.OpenAICycleDay != nil {
		s.OpenAICycleDay = clampCycleDay(*u.OpenAICycleDay)
	}
	if u.AnthropicCycleDay != nil {
		s.AnthropicCycleDay = clampCycleDay(*u.AnthropicCycleDay)
	}
	if u.OpenRouterCycle != nil {
		s.OpenRouterCycleDay = clampCycleDay(*u.OpenRouterCycle)
	}
	return nil
}

func clampCycleDay(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}

// Masked is the settings view returned over the API: keys and password are
// replaced with fixed placeholders, cycle days pass through.
type Masked struct {
	DashboardPassword string `json:"dashboardPassword"`
	OpenAIKey         string `json:"openaiKey"`
	AnthropicKey      string `json:"anthropicKey"`
	OpenRouterKey     string `json:"openrouterKey"`
	OpenAICycleDay    int    `json:"openaiCycle"`
	AnthropicCycleDay int    `json:"anthropicCycle"`
	OpenRouterCycle   int    `json:"openrouterCycle"`
}

func (s Settings) Masked() Masked {
	return Masked{
		DashboardPassword: "••••••••",
		OpenAIKey:         maskKey(s.OpenAIKey, "sk-...••••"),
		AnthropicKey:      maskKey(s.AnthropicKey, "sk-ant-...••••"),
		OpenRouterKey:     maskKey(s.OpenRouterKey, "sk-or-...••••"),
		OpenAICycleDay:    s.OpenAICycleDay,
		AnthropicCycleDay: s.AnthropicCycleDay,
		OpenRouterCycle:   s.OpenRouterCycleDay,
	}
}

func maskKey(key, placeholder string) string {
	if key == "" {
		return ""
	}
	return placeholder
}

// LoadFrom reads and decrypts settings; a missing file falls back to
// env-seeded defaults (first run).
func LoadFrom(path string, c *Cipher) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default()
		}
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	var fs fileSettings
	if err := json.Unmarshal(data, &fs); err != nil {
		return Settings{}, fmt.Errorf("parsing settings %s: %w", path, err)
	}

	s := Settings{
		DashboardPasswordHash: fs.DashboardPasswordHash,
		OpenAICycleDay:        clampCycleDay(fs.OpenAICycleDay),
		AnthropicCycleDay:     clampCycleDay(fs.AnthropicCycleDay),
		OpenRouterCycleDay:    clampCycleDay(fs.OpenRouterCycleDay),
	}
	if s.OpenAIKey, err = c.Decrypt(fs.OpenAIKey); err != nil {
		return Settings{}, fmt.Errorf("decrypting openai key: %w", err)
	}
	if s.AnthropicKey, err = c.Decrypt(fs.AnthropicKey); err != nil {
		return Settings{}, fmt.Errorf("decrypting anthropic key: %w", err)
	}
	if s.OpenRouterKey, err = c.Decrypt(fs.OpenRouterKey); err != nil {
		return Settings{}, fmt.Errorf("decrypting openrouter key: %w", err)
	}
	if s.DashboardPasswordHash == "" {
		defaults, err := Default()
		if err != nil {
			return Settings{}, err
		}
		s.DashboardPasswordHash = defaults.DashboardPasswordHash
	}
	return s, nil
}

func SaveTo(path string, c *Cipher, s Settings) error {
	fs := fileSettings{
		DashboardPasswordHash: s.DashboardPasswordHash,
		OpenAICycleDay:        s.OpenAICycleDay,
		AnthropicCycleDay:     s.AnthropicCycleDay,
		OpenRouterCycleDay:    s.OpenRouterCycleDay,
	}
	var err error
	if fs.OpenAIKey, err = c.Encrypt(s.OpenAIKey); err != nil {
		return fmt.Errorf("encrypting openai key: %w", err)
	}
	if fs.AnthropicKey, err = c.Encrypt(s.AnthropicKey); err != nil {
		return fmt.Errorf("encrypting anthropic key: %w", err)
	}
	if fs.OpenRouterKey, err = c.Encrypt(s.OpenRouterKey); err != nil {
		return fmt.Errorf("encrypting openrouter key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}
	return nil
}
