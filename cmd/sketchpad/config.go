package main

import (
	"flag"
	"fmt"

	"github.com/Smoopi/D2-Assignment/internal/config"
)

type configCmd struct {
	r  *root
	fs *flag.FlagSet
}

func parseConfigCmd(args []string, r *root) (*configCmd, error) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	c := &configCmd{r: r.subcommand("config"), fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *configCmd) Program() string        { return c.r.Program() }
func (c *configCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *configCmd) Run() error {
	args := c.fs.Args()
	if len(args) != 1 {
		return &UsageError{of: c}
	}
	switch args[0] {
	case "print":
		fmt.Fprint(c.r.stdout, c.r.config.String())
		return nil
	case "save":
		return c.runSave()
	default:
		return fmt.Errorf("unknown config command: %s", args[0])
	}
}

// runSave writes to the file the config was loaded from, or to the default
// location when none was found.
func (c *configCmd) runSave() error {
	path := c.r.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config location available")
	}
	if err := config.Save(c.r.config, path); err != nil {
		return err
	}
	fmt.Fprintf(c.r.stderr, "Configuration saved to %s\n", path)
	return nil
}
