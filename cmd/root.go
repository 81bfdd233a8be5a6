package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/elewis787/boa"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	errUtils "github.com/cloudposse/sketch/errors"
	e "github.com/cloudposse/sketch/internal/exec"
	cfg "github.com/cloudposse/sketch/pkg/config"
	log "github.com/cloudposse/sketch/pkg/logger"
	"github.com/cloudposse/sketch/pkg/schema"
	u "github.com/cloudposse/sketch/pkg/utils"
)

// EnvPrefix prefixes the environment variables that set global flags, e.g. SKETCH_LOGS_LEVEL.
const EnvPrefix = "SKETCH"

var (
	settings schema.CLISettings
	// runEnv is what the subcommands run with. It is set by the root PersistentPreRunE.
	runEnv *e.Env
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "sketch",
	Short: "Scaffold projects from presets and templates",
	Long: `Sketch generates project files (package.json, tsconfig, Cargo.toml, compose files, github workflows,
.gitignore, pre-commit configs and more) from presets declared in a configuration file, and renders
templates with a layered context.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initEnv(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

// FormatterConfig is how main formats the error a command returns.
func FormatterConfig() errUtils.FormatterConfig {
	c := errUtils.DefaultFormatterConfig()
	if settings.Logs.NoColor {
		c.Color = "never"
	}
	return c
}

// loadSettings decodes the global flags and SKETCH_ environment variables.
func loadSettings(cmd *cobra.Command) (schema.CLISettings, error) {
	var s schema.CLISettings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &s,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return s, err
	}
	if err := decoder.Decode(viper.AllSettings()); err != nil {
		return s, fmt.Errorf("%w: %w", errUtils.ErrInvalidFlag, err)
	}

	// Viper splits array flags on commas, which breaks JSON values.
	if s.Set, err = cmd.Flags().GetStringArray("set"); err != nil {
		return s, err
	}
	if s.VarsFiles, err = cmd.Flags().GetStringArray("vars-file"); err != nil {
		return s, err
	}
	return s, nil
}

func initEnv(cmd *cobra.Command) error {
	var err error
	if settings, err = loadSettings(cmd); err != nil {
		return err
	}

	level, err := log.ParseLogLevel(settings.Logs.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	if settings.Logs.NoColor {
		log.DisableColor()
	}

	config, err := cfg.InitCliConfig(settings)
	if err != nil {
		return err
	}
	log.Debug("Loaded configuration", "file", config.ConfigFile)

	if settings.PrintConfig {
		data, err := u.ConvertToYAML(config)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	if runEnv, err = e.NewEnv(config, settings); err != nil {
		return err
	}
	runEnv.Stdout = cmd.OutOrStdout()
	runEnv.Stderr = cmd.ErrOrStderr()
	return nil
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringP("config", "c", "", "The config file to use. Defaults to sketch.{yaml,toml,json} in the current directory, then in the XDG config directory")
	pf.Bool("ignore-config", false, "Do not search for a config file. An explicit --config is still loaded")
	pf.String("templates-dir", "", "The directory holding the templates, overriding `templates_dir`")
	pf.Bool("no-overwrite", false, "Fail instead of overwriting existing files")
	pf.String("shell", "", "The shell that runs hooks and commands. The built-in interpreter is used when empty")
	pf.StringArrayP("set", "S", nil, "Set a template variable as key=value, where value is JSON. Can be repeated")
	pf.StringArray("vars-file", nil, "Load template variables from a yaml, toml or json file. Can be repeated")
	pf.String("logs-level", string(log.LogLevelWarning), "Logs level. Supported log levels are Trace, Debug, Info, Warning, Off")
	pf.Bool("no-color", false, "Disable colors in logs and errors")
	pf.Bool("print-config", false, "Print the merged configuration as YAML before running the command")

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlags(pf)

	cobra.OnInitialize(initHelp)
}

// initHelp uses the boa help browser on interactive terminals.
func initHelp() {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return
	}
	b := boa.New(boa.WithStyles(boa.DefaultStyles()))
	RootCmd.SetUsageFunc(b.UsageFunc)
	RootCmd.SetHelpFunc(b.HelpFunc)
}
