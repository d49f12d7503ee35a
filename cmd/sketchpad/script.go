package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
)

type scriptCmd struct {
	r  *root
	fs *flag.FlagSet

	file      string
	output    string
	clipboard bool
}

func parseScriptCmd(args []string, r *root) (*scriptCmd, error) {
	fs := flag.NewFlagSet("script", flag.ExitOnError)
	c := &scriptCmd{r: r.subcommand("script"), fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "-", "command file to replay (- for stdin)")
	fs.StringVar(&c.output, "output", "", "write the final drawing to this PNG file")
	fs.BoolVar(&c.clipboard, "to-clipboard", false, "copy the final drawing to the clipboard")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	return c, nil
}

func (c *scriptCmd) Program() string        { return c.r.Program() }
func (c *scriptCmd) FlagSet() *flag.FlagSet { return c.fs }

func (c *scriptCmd) open() (io.ReadCloser, error) {
	if c.file == "-" {
		return io.NopCloser(c.r.stdin), nil
	}
	f, err := os.Open(c.file)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	return f, nil
}

func (c *scriptCmd) Run() error {
	in, err := c.open()
	if err != nil {
		return err
	}
	defer in.Close()

	s, err := c.r.newSession(c.r.stdout)
	if err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for n := 1; scanner.Scan(); n++ {
		done, err := s.executeLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", c.file, n, err)
		}
		if done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	c.r.logger.Debug("script replayed", "file", c.file, "commands", s.ctrl.History().Len())

	if c.output != "" {
		if _, err := s.save(c.output); err != nil {
			return err
		}
	}
	if c.clipboard {
		if err := s.copy(); err != nil {
			return err
		}
	}
	return nil
}
