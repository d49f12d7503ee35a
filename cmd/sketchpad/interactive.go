package main

import (
	"bufio"
	"flag"
	"fmt"
	"strings"
)

type commandList []string

func (c *commandList) String() string {
	return strings.Join(*c, ";")
}

func (c *commandList) Set(value string) error {
	*c = append(*c, value)
	return nil
}

type interactiveCmd struct {
	r  *root
	fs *flag.FlagSet

	execs commandList
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	c := &interactiveCmd{r: r.subcommand("interactive"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.Var(&c.execs, "e", "execute a command without prompting (may be repeated)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *interactiveCmd) Program() string        { return c.r.Program() }
func (c *interactiveCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *interactiveCmd) Run() error {
	s, err := c.r.newSession(c.r.stdout)
	if err != nil {
		return err
	}
	if len(c.execs) > 0 {
		for _, line := range c.execs {
			done, err := s.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}

	fmt.Fprintln(c.r.stdout, "Type 'help' for commands, 'exit' to quit.")
	scanner := bufio.NewScanner(c.r.stdin)
	for {
		fmt.Fprint(c.r.stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(c.r.stdout)
			return scanner.Err()
		}
		done, err := s.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(c.r.stderr, err)
			continue
		}
		if done {
			return nil
		}
	}
}
