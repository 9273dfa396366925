package config

import (
	"github.com/spf13/pflag"
)

type CliConfig struct {
	ConfigFile string
	Listen     string
	Debug      bool
	Version    bool

	// Flags is kept so that LoadConfig can let explicitly set flags win over file and env values.
	Flags *pflag.FlagSet
}

// ParseArgs parses the command line. It returns pflag.ErrHelp when -h/--help was given.
func ParseArgs(name string, args []string) (*CliConfig, error) {
	cli := &CliConfig{}
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringVar(&cli.ConfigFile, "config", "", "Path to the config file")
	fs.StringVar(&cli.Listen, "listen", DefaultListenAddress, "Address to listen on")
	fs.BoolVarP(&cli.Debug, "debug", "d", false, "Enable debug mode")
	fs.BoolVarP(&cli.Version, "version", "v", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cli.Flags = fs
	return cli, nil
}
