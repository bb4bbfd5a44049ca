package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagOutput     = flag.String("o", "", "Output image (.bmp or .png)")
	flagWidth      = flag.Int("width", 0, "Framebuffer width")
	flagHeight     = flag.Int("height", 0, "Framebuffer height")
	flagMSAA       = flag.Int("msaa", 0, "Sub-samples per pixel axis (1, 2 or 4)")
	flagWireframe  = flag.Bool("wireframe", false, "Draw triangle edges over the shaded image")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile    = flag.String("log-file", "", "Also log to this file (rotated)")
	flagPreview    = flag.Bool("preview", false, "Open the interactive terminal viewer")
	flagANSI       = flag.Int("ansi", 0, "Print the image to stdout as N columns of half blocks")
	flagDumpConfig = flag.String("dump-config", "", "Write the effective config to this path")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// Preview reports whether the interactive viewer was requested.
func Preview() bool {
	return *flagPreview
}

// ANSIColumns returns the requested ANSI dump width, 0 for none.
func ANSIColumns() int {
	return *flagANSI
}

// DumpConfigPath returns the -dump-config destination.
func DumpConfigPath() string {
	return *flagDumpConfig
}

// applyFlags applies CLI flag overrides to the config. Positional model
// paths replace the configured models.
func applyFlags(cfg *Config, args []string) {
	if *flagOutput != "" {
		cfg.Output = *flagOutput
	}
	if *flagWidth > 0 {
		cfg.Render.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Render.Height = *flagHeight
	}
	if *flagMSAA > 0 {
		cfg.Render.Multisample = *flagMSAA
	}
	if *flagWireframe {
		cfg.Render.Mode = "shaded+wireframe"
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if len(args) > 0 {
		cfg.Models = cfg.Models[:0]
		for _, path := range args {
			cfg.Models = append(cfg.Models, ModelConfig{
				Path:     path,
				Material: DefaultMaterial(),
			})
		}
	}
}
