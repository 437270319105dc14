package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alkime/recap/internal/config"
	"github.com/alkime/recap/internal/keyring"
	"github.com/alkime/recap/internal/tui/style"
	"github.com/alkime/recap/internal/workdir"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SettingsCmd prints the effective configuration.
type SettingsCmd struct{}

// Run executes the settings command.
func (c *SettingsCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	exports, err := workdir.ExportsPath()
	if err != nil {
		exports = "unavailable: " + err.Error()
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(style.TableBorder).
		Headers("SETTING", "VALUE").
		Rows(settingsRows(cfg, exports)...)

	fmt.Println(t.Render())

	return nil
}

func settingsRows(cfg *config.Config, exportDir string) [][]string {
	return [][]string{
		{"Backend", string(cfg.Backend)},
		{"Service URL", cfg.ServiceURL},
		{"Step interval", cfg.StepInterval.String()},
		{"Request timeout", cfg.RequestTimeout.String()},
		{"Transcription model", cfg.TranscriptionModel},
		{"Summary model", cfg.SummaryModel},
		{"Summary length", cfg.SummaryLength},
		{"OpenAI key", maskKey(cfg.OpenAIAPIKey)},
		{"Anthropic key", maskKey(cfg.AnthropicAPIKey)},
		{"History limit", strconv.Itoa(cfg.HistoryLimit)},
		{"Log level", cfg.LogLevel},
		{"Export directory", exportDir},
	}
}

func maskKey(k string) string {
	if k == "" {
		return "not set"
	}
	if len(k) <= 8 {
		return "configured"
	}

	return k[:4] + strings.Repeat("*", 4) + k[len(k)-4:]
}

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetKey   SetKeyCmd   `cmd:"" help:"Store an API key in system keychain"`
	ListKeys ListKeysCmd `cmd:"" name:"list-keys" help:"Show which API keys are configured"`
}

// SetKeyCmd stores an API key in the system keychain.
type SetKeyCmd struct {
	Service string `arg:"" enum:"openai,anthropic" help:"Service name (openai or anthropic)"`
	Secret  string `arg:"" help:"API key value"`
}

// Run executes the set-key command.
func (c *SetKeyCmd) Run() error {
	if strings.TrimSpace(c.Secret) == "" {
		return errors.New("API key cannot be empty")
	}

	apiKey, err := keyring.APIKeyFromServiceName(c.Service)
	if err != nil {
		return fmt.Errorf("invalid service: %w", err)
	}

	if err := keyring.Set(apiKey, c.Secret); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}

	fmt.Printf("%s API key stored in keychain\n", c.Service)

	return nil
}

// ListKeysCmd shows which API keys are configured.
type ListKeysCmd struct{}

// Run executes the list-keys command.
//
//nolint:unparam // error return required by Kong interface
func (c *ListKeysCmd) Run() error {
	allSet := true

	for _, apiKey := range keyring.AllAPIKeys() {
		if keyring.IsSet(apiKey) {
			fmt.Printf("%s: configured\n", apiKey.DisplayName())
		} else {
			fmt.Printf("%s: not set\n", apiKey.DisplayName())
			allSet = false
		}
	}

	if !allSet {
		fmt.Println("\nRun 'recap config set-key <service> <key>' to configure.")
		fmt.Println("Keys are only needed with BACKEND=direct.")
	}

	return nil
}
