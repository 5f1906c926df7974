package types

// Config represents the application configuration that can be loaded from a file.
// Every field is optional; command-line flags take precedence over file values.
type Config struct {
	Profile   string `json:"profile" yaml:"profile" toml:"profile"`
	Start     string `json:"start" yaml:"start" toml:"start"`
	End       string `json:"end" yaml:"end" toml:"end"`
	Sort      *bool  `json:"sort" yaml:"sort" toml:"sort"`
	Output    string `json:"output" yaml:"output" toml:"output"`
	Threshold string `json:"threshold" yaml:"threshold" toml:"threshold"`
	Limit     int    `json:"limit" yaml:"limit" toml:"limit"`
}
