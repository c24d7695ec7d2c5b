package main

import (
	"flag"
	"os"

	"prospect/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	configPath := flag.String("config", "", "path to config file (or PROSPECT_CONFIG_PATH)")
	flag.Parse()

	os.Exit(cli.Run(flag.Args(), cli.Options{
		ConfigPath: *configPath,
	}))
}
