package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file (.yaml or .toml)")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagCharset = flag.String("charset", "", "Charset of header comments (latin1, euc-kr, shift_jis, ...)")
	flagFormat  = flag.String("format", "", "Output format: text, json or yaml")
	flagLimit   = flag.Int("n", -1, "Max records per element in dump (0 = all)")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag arguments: the command and its operands.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagCharset != "" {
		cfg.Decode.CommentCharset = *flagCharset
	}
	if *flagFormat != "" {
		cfg.Output.Format = *flagFormat
	}
	if *flagLimit >= 0 {
		cfg.Output.Limit = *flagLimit
	}
}
