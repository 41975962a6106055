// cmdguard is a pre-execution guard for agent shell commands, installed as a
// PreToolUse hook. It reads one JSON payload from stdin, classifies the
// command against a catalog of known-dangerous shapes, and exits 0 to allow
// or 1 to block (writing a JSON reason to stdout).
package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/xonecas/cmdguard/internal/config"
	"github.com/xonecas/cmdguard/internal/guard"
	"github.com/xonecas/cmdguard/internal/hook"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to an optional TOML configuration file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	// Diagnostics go to stderr; stdout is reserved for the block response.
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	runner := hook.Runner{}
	var opts []guard.Option
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			// Refuse to validate with a half-applied policy: fail closed.
			log.Error().Err(err).Str("path", *configPath).Msg("failed to load config")
			return hook.ExitBlock
		}
		if cfg.LogLevel != "" {
			zerolog.SetGlobalLevel(cfg.Level())
		}
		runner.LogAllowed = cfg.LogAllowed
		if sigs := cfg.Signatures(); len(sigs) > 0 {
			opts = append(opts, guard.WithSignatures(sigs...))
		}
		if len(cfg.SafePrefixes) > 0 {
			opts = append(opts, guard.WithSafePrefixes(cfg.SafePrefixes...))
		}
	}
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	runner.Guard = guard.New(opts...)
	return runner.Run(os.Stdin, os.Stdout)
}
