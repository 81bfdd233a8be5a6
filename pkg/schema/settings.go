package schema

// CLISettings are the global flags and SKETCH_ environment variables, decoded from viper.
type CLISettings struct {
	Config       string   `yaml:"config" json:"config" mapstructure:"config"`
	IgnoreConfig bool     `yaml:"ignore_config" json:"ignore_config" mapstructure:"ignore-config"`
	TemplatesDir string   `yaml:"templates_dir" json:"templates_dir" mapstructure:"templates-dir"`
	NoOverwrite  bool     `yaml:"no_overwrite" json:"no_overwrite" mapstructure:"no-overwrite"`
	Shell        string   `yaml:"shell" json:"shell" mapstructure:"shell"`
	Set          []string `yaml:"set" json:"set" mapstructure:"set"`
	VarsFiles    []string `yaml:"vars_files" json:"vars_files" mapstructure:"vars-file"`
	PrintConfig  bool     `yaml:"print_config" json:"print_config" mapstructure:"print-config"`
	Logs         Logs     `yaml:"logs" json:"logs" mapstructure:",squash"`
}

type Logs struct {
	Level   string `yaml:"level" json:"level" mapstructure:"logs-level"`
	NoColor bool   `yaml:"no_color" json:"no_color" mapstructure:"no-color"`
}
