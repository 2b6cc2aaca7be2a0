package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"go.uber.org/zap"

	"github.com/zephyrtronium/bitexpr"
)

func main() {
	log.SetFlags(0)
	var (
		inname, cfgname, logname string
		bits, echo, trace        bool
	)
	flag.StringVar(&inname, "in", "", "input file, one expression per line (- for stdin)")
	flag.StringVar(&cfgname, "config", "", "YAML config file (default ./bitexpr.yaml or ~/.config/bitexpr/bitexpr.yaml)")
	flag.StringVar(&logname, "log", "", "log file")
	flag.BoolVar(&bits, "bits", false, "show a bit ruler under each result")
	flag.BoolVar(&echo, "echo", false, "print the postfix form of each expression")
	flag.BoolVar(&trace, "trace", false, "log parser and evaluator traces")
	flag.Parse()

	cfg, err := LoadConfig(cfgname)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bits":
			cfg.Bits = bits
		case "echo":
			cfg.Echo = echo
		case "trace":
			cfg.Trace = trace
		case "log":
			cfg.Log.FileName = logname
		}
	})
	if cfg.Trace {
		cfg.Log.Level = "debug"
	}
	lg, err := NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	c := NewCalc(os.Stdout, cfg, lg)
	ok := true
	switch {
	case inname != "":
		ok = c.File(inname)
	case flag.NArg() > 0:
		for _, arg := range flag.Args() {
			ok = c.Line(arg, true) && ok
		}
	case readline.IsTerminal(int(os.Stdin.Fd())):
		if err := c.Interactive(); err != nil {
			log.Fatal(err)
		}
	default:
		ok = c.Lines(os.Stdin)
	}
	if !ok {
		lg.Sync()
		os.Exit(1)
	}
}

// Calc evaluates expressions and writes results.
type Calc struct {
	out  io.Writer
	cfg  *Config
	opts []bitexpr.ParseOption
	log  *zap.Logger
}

// NewCalc creates a calculator writing to out.
func NewCalc(out io.Writer, cfg *Config, lg *zap.Logger) *Calc {
	c := &Calc{out: out, cfg: cfg, log: lg}
	if cfg.Trace {
		c.opts = append(c.opts, bitexpr.Trace(lg))
	}
	return c
}

// Line evaluates one expression and prints its result or a diagnostic. If
// quote is true, the diagnostic repeats the source above the caret; otherwise
// the source is assumed to be on the terminal after the prompt. Line reports
// whether the expression evaluated successfully.
func (c *Calc) Line(src string, quote bool) bool {
	a, err := bitexpr.Parse(src, c.opts...)
	if err == nil {
		if c.cfg.Echo {
			fmt.Fprintln(c.out, a)
		}
		var r bitexpr.Number
		r, err = a.Eval()
		if err == nil {
			c.log.Info("eval", zap.String("src", src), zap.Stringer("result", r))
			for _, s := range Render(r) {
				fmt.Fprintln(c.out, s)
			}
			if c.cfg.Bits {
				for _, s := range Ruler(r.Int) {
					fmt.Fprintln(c.out, s)
				}
			}
			return true
		}
	}
	c.log.Info("error", zap.String("src", src), zap.Error(err))
	var e bitexpr.InputError
	if errors.As(err, &e) {
		indent := len(c.cfg.Prompt)
		if quote {
			fmt.Fprintln(c.out, src)
			indent = 0
		}
		if e.Pos() >= 0 {
			fmt.Fprintln(c.out, Caret(indent, e.Pos()))
		}
	}
	fmt.Fprintln(c.out, "error:", err)
	return false
}

// Lines evaluates each nonempty line of r that is not a # comment.
func (c *Calc) Lines(r io.Reader) bool {
	ok := true
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ok = c.Line(line, true) && ok
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return false
	}
	return ok
}

// File evaluates the lines of the named file, or of stdin if name is -.
func (c *Calc) File(name string) bool {
	if name == "-" {
		return c.Lines(os.Stdin)
	}
	f, err := os.Open(name)
	if err != nil {
		fmt.Fprintln(c.out, "error:", err)
		return false
	}
	defer f.Close()
	return c.Lines(f)
}

// Interactive reads and evaluates lines with a line editor until EOF.
func (c *Calc) Interactive() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            c.cfg.Prompt,
		HistoryFile:       c.cfg.History,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		Stdout:            c.out,
	})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case err != nil:
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.Line(line, false)
	}
}
