package config

import "flag"

// Flags holds the command-line overrides shared by the tools.
type Flags struct {
	Config  string
	Debug   bool
	Repo    string
	Format  string
	LogFile string
}

// RegisterFlags adds the shared flags to fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.Repo, "repo", "", "Path to a built pokeplatinum checkout")
	fs.StringVar(&f.Format, "format", "", "Output format: summary, yaml or spew")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Repo != "" {
		cfg.Data.PokeplatinumRepo = f.Repo
	}
	if f.Format != "" {
		cfg.Output.Format = f.Format
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
