package main

import (
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/Smoopi/D2-Assignment/internal/theme"
)

type toolsCmd struct {
	r  *root
	fs *flag.FlagSet
}

func parseToolsCmd(args []string, r *root) (*toolsCmd, error) {
	fs := flag.NewFlagSet("tools", flag.ExitOnError)
	c := &toolsCmd{r: r.subcommand("tools"), fs: fs}
	fs.Usage = usageFunc(c)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *toolsCmd) Program() string        { return c.r.Program() }
func (c *toolsCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *toolsCmd) Run() error {
	p := c.r.config.Presets()
	out := c.r.stdout
	fmt.Fprintln(out, "markers:")
	fmt.Fprintf(out, "  thin   %g %s\n", p.Thin, theme.Hex(p.Color))
	fmt.Fprintf(out, "  thick  %g %s\n", p.Thick, theme.Hex(p.Color))
	fmt.Fprintf(out, "stickers (size %g):\n", p.StickerSize)
	for i, g := range p.Stickers {
		fmt.Fprintf(out, "  %d  %s\n", i+3, g)
	}

	names := theme.Embedded()
	for name := range c.r.config.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintf(out, "themes: %s (active: %s)\n", strings.Join(names, ", "), c.r.theme().Name)
	return nil
}
