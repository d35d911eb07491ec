package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/rider-rota/pkg/core/allocator"
)

// SlotConfig defines the headcount requirement for one scheme slot
type SlotConfig struct {
	Label  string `yaml:"label" json:"label" validate:"required"`
	Target int    `yaml:"target" json:"target" validate:"gte=0"`
	Max    int    `yaml:"max" json:"max" validate:"gte=0,gtefield=Target"`
}

// PeriodConfig defines how often a schedule is produced
type PeriodConfig struct {
	RRule string `yaml:"rrule" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	Scheme          string           `yaml:"scheme" validate:"required"`
	Workers         int              `yaml:"workers" validate:"gte=0,lte=10000"`
	Slots           []SlotConfig     `yaml:"slots" validate:"required,min=1,dive"`
	Policy          allocator.Policy `yaml:"policy"`
	Period          *PeriodConfig    `yaml:"period,omitempty"`
	DatabaseURL     string           `yaml:"databaseURL,omitempty"`
	ScheduleSheetID string           `yaml:"scheduleSheetID,omitempty"`
	ServerAddress   string           `yaml:"serverAddress,omitempty" validate:"omitempty,hostname_port"`

	// OAuthClientFile overrides the oauthClient.json lookup used for publishing
	OAuthClientFile string `yaml:"oauthClientFile,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// LoadWithEnv loads and validates the configuration with an environment suffix.
// For example, env="test" will look for "rota_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path.
// Policy fields missing from the file keep their default values.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Config{Policy: allocator.DefaultPolicy()}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the slots against the scheme and the
// rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := cfg.Policy.Validate(); err != nil {
		return fmt.Errorf("invalid policy: %w", err)
	}

	scheme, err := allocator.SchemeByName(cfg.Scheme)
	if err != nil {
		return fmt.Errorf("invalid scheme: %w", err)
	}

	if _, err := cfg.SlotDemands(scheme); err != nil {
		return err
	}

	if cfg.Period != nil {
		if _, err := rrule.StrToRRule(cfg.Period.RRule); err != nil {
			return fmt.Errorf("invalid rrule in period: %w", err)
		}
	}

	return nil
}

// SlotDemands returns the configured slot demands in the scheme's slot order. Every
// scheme slot must be configured exactly once.
func (c *Config) SlotDemands(scheme *allocator.Scheme) ([]allocator.SlotDemand, error) {
	graph := scheme.Graph
	demands := make([]allocator.SlotDemand, graph.SlotCount())
	seen := make([]bool, graph.SlotCount())

	for _, slot := range c.Slots {
		id, ok := graph.SlotByLabel(slot.Label)
		if !ok {
			return nil, fmt.Errorf("slot %q is not part of scheme %q (slots: %v)", slot.Label, scheme.Name, graph.AllLabels())
		}
		if seen[id] {
			return nil, fmt.Errorf("slot %q is configured more than once", slot.Label)
		}
		seen[id] = true
		demands[id] = allocator.SlotDemand{Target: slot.Target, Max: slot.Max}
	}

	for id, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("slot %q of scheme %q is not configured", graph.Label(allocator.SlotID(id)), scheme.Name)
		}
	}

	return demands, nil
}

// AllocationConfig builds the engine input for the configured scheme, slots and policy.
// The criteria are left for the caller to supply.
func (c *Config) AllocationConfig() (allocator.AllocationConfig, error) {
	scheme, err := allocator.SchemeByName(c.Scheme)
	if err != nil {
		return allocator.AllocationConfig{}, err
	}

	slots, err := c.SlotDemands(scheme)
	if err != nil {
		return allocator.AllocationConfig{}, err
	}

	return allocator.AllocationConfig{
		Scheme:  scheme,
		Workers: c.Workers,
		Slots:   slots,
		Policy:  c.Policy,
	}, nil
}

// findConfigFile searches for rota_config.yaml in current directory and home directory.
// If env is provided, it adds it as an extension (e.g., "rota_config.test.yaml")
func findConfigFile(env string) (string, error) {
	return findInWorkingOrHomeDir(envFileName("rota_config", env, "yaml"))
}

func envFileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findInWorkingOrHomeDir returns name when it exists in the current directory, otherwise
// its path under the home directory
func findInWorkingOrHomeDir(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("file %s not found in current directory or home directory", name)
}
