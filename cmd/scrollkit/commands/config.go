package commands

import (
	"flag"
	"fmt"
	"os"

	"github.com/agiangrant/scrollkit/config"
)

// DefaultConfigFile is read when no --config flag is given.
const DefaultConfigFile = "scrollkit.toml"

// Config prints or validates a configuration file.
func Config(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: scrollkit config <print|check> [options]")
	}

	switch args[0] {
	case "print":
		fs := flag.NewFlagSet("config print", flag.ContinueOnError)
		file := fs.String("file", DefaultConfigFile, "Configuration file (missing means defaults)")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		cfg, err := config.Load(*file)
		if err != nil {
			return err
		}
		data, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		_, err = os.Stdout.Write(data)
		return err

	case "check":
		if len(args) < 2 {
			return fmt.Errorf("usage: scrollkit config check <file>")
		}
		path := args[1]
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("check config: %w", err)
		}
		if _, err := config.Load(path); err != nil {
			return err
		}
		fmt.Printf("%s: ok\n", path)
		return nil

	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}
