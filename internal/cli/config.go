package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/tessro/jukebar/internal/config"
	jerrors "github.com/tessro/jukebar/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Commands for viewing and editing jukebar configuration.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration, including defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the configuration file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit configuration file",
	Long:  `Open the configuration file in your default editor.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a new configuration file with default values. In a terminal,
you are asked for the server URL first.`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value.

Supported keys:
  server.base_url       Server URL (e.g. http://127.0.0.1:5000)
  server.timeout        Request timeout in seconds
  defaults.volume       Starting volume (0-1)
  defaults.shuffle      Start with shuffle on (true/false)
  defaults.repeat       Starting repeat mode (none/all/one)
  session.timeout       Session timeout in minutes
  session.warning       Minutes before expiry to warn
  tui.theme             Dashboard theme (auto/dark/light)
  tui.refresh_interval  Dashboard refresh in milliseconds
  log.level             Log level (debug/info/warn/error)
  log.file              Log file path

Examples:
  jukebar config set server.base_url http://music.local:5000
  jukebar config set defaults.volume 0.5`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return printJSON(cfg)
	}

	encoder := toml.NewEncoder(os.Stdout)
	encoder.Indent = "  "
	return encoder.Encode(cfg)
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	_, err := os.Stat(path)
	exists := err == nil

	if JSONOutput() {
		return printJSON(map[string]any{"path": path, "exists": exists})
	}
	fmt.Println(path)
	if !exists && Verbose() {
		fmt.Fprintln(os.Stderr, "(file does not exist yet; run 'jukebar config init')")
	}
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", jerrors.ErrConfigNotFound, configPath)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"nano", "vim", "vi", "notepad"} {
			if _, err := exec.LookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return jerrors.WithSuggestion(fmt.Errorf("no editor found"), "Set the EDITOR environment variable")
	}

	editorCmd := exec.Command(editor, configPath)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	return editorCmd.Run()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", configPath)
	}

	defaultCfg := config.Default()
	if isInteractive() {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Server URL").
					Description("Where the music server is running").
					Value(&defaultCfg.Server.BaseURL).
					Validate(func(s string) error {
						if strings.TrimSpace(s) == "" {
							return jerrors.Validation("server URL is required")
						}
						c := config.ServerConfig{BaseURL: s}
						return c.Validate()
					}),
			),
		)
		if err := form.Run(); err != nil {
			return fmt.Errorf("init cancelled: %w", err)
		}
	}

	if err := writeConfig(configPath, defaultCfg); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "created", "path": configPath})
	}
	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Check server.base_url points at your server (or set JUKEBAR_SERVER_URL)")
	fmt.Println("  2. Run 'jukebar auth login' to sign in")
	fmt.Println("  3. Run 'jukebar ui' to start listening")
	return nil
}

func writeConfig(path string, v any) error {
	if c, ok := v.(*config.Config); ok {
		if err := config.Save(c, path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		return prependHeader(path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	defer func() { _ = f.Close() }()

	writeHeader(f)
	encoder := toml.NewEncoder(f)
	encoder.Indent = "  "
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func writeHeader(f *os.File) {
	_, _ = fmt.Fprintln(f, "# Jukebar Configuration")
	_, _ = fmt.Fprintln(f, "# See 'jukebar config set --help' for the available keys")
	_, _ = fmt.Fprintln(f, "")
}

func prependHeader(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	writeHeader(f)
	_, err = f.Write(data)
	return err
}

func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := config.FindConfigFile(); p != "" {
		return p
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	configPath := getConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return fmt.Errorf("%w at %s", jerrors.ErrConfigNotFound, configPath)
	}

	var rawConfig map[string]any
	if _, err := toml.DecodeFile(configPath, &rawConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if rawConfig == nil {
		rawConfig = map[string]any{}
	}

	section, field, ok := strings.Cut(key, ".")
	if !ok || strings.Contains(field, ".") {
		return jerrors.Validation("invalid key format, use 'section.key' (e.g. server.base_url)")
	}

	typedValue, err := parseConfigValue(key, value)
	if err != nil {
		return err
	}

	sectionMap, ok := rawConfig[section].(map[string]any)
	if !ok {
		sectionMap = make(map[string]any)
		rawConfig[section] = sectionMap
	}
	sectionMap[field] = typedValue

	// Reject values the loader would refuse before they reach the file.
	var check config.Config
	if err := decodeInto(rawConfig, &check); err != nil {
		return err
	}
	check.ApplyDefaults()
	if err := check.Validate(); err != nil {
		return fmt.Errorf("%w: %w", jerrors.ErrInvalidConfig, err)
	}

	if err := writeConfig(configPath, rawConfig); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{"status": "updated", "key": key, "value": value})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

func parseConfigValue(key, value string) (any, error) {
	switch key {
	case "server.timeout", "session.timeout", "session.warning", "tui.refresh_interval":
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, jerrors.Validation("value must be an integer for %s", key)
		}
		return i, nil
	case "defaults.volume":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, jerrors.Validation("value must be a number for %s", key)
		}
		return f, nil
	case "defaults.shuffle":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, jerrors.Validation("value must be true or false for %s", key)
		}
		return b, nil
	case "server.base_url", "defaults.repeat", "tui.theme", "log.level", "log.file":
		return value, nil
	}
	return nil, jerrors.Validation("unknown key %s", key)
}

// decodeInto round-trips raw TOML values into a typed config.
func decodeInto(raw map[string]any, dst *config.Config) error {
	var buf strings.Builder
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return err
	}
	if _, err := toml.Decode(buf.String(), dst); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}
