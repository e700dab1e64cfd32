// Package commands implements the llmdocs kong commands.
package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/llmdocs/internal/config"
)

// DefaultConfigFile is looked up in the working directory when -c is not given.
const DefaultConfigFile = "llmdocs.yaml"

// Global carries process-level streams shared by subcommands.
type Global struct {
	Stdin  io.Reader
	Stdout io.Writer
	Logger *slog.Logger
}

// NewGlobal creates the shared command state.
func NewGlobal(stdin io.Reader, stdout io.Writer) *Global {
	return &Global{Stdin: stdin, Stdout: stdout, Logger: slog.Default()}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./llmdocs.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init        InitCmd        `cmd:"" help:"Initialize a new configuration file"`
	Optimize    OptimizeCmd    `cmd:"" help:"Optimize a file (to stdout) or a content tree (to the output dir)"`
	Tokens      TokensCmd      `cmd:"" help:"Estimate the token count of a file or stdin"`
	Frontmatter FrontmatterCmd `cmd:"" help:"Print the parsed frontmatter of a document"`
	Preview     PreviewCmd     `cmd:"" help:"Render a document for the terminal"`
	Serve       ServeCmd       `cmd:"" help:"Serve raw, optimized and rendered documents over HTTP"`
	Stats       StatsCmd       `cmd:"" help:"Show totals from the state store"`
	Versions    VersionCmd     `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; it sets up logging once. Commands that
// load a configuration refine it with the configured level and format.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	g.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(g.Logger)
	return nil
}

// loadConfig loads the configured file, falling back to ./llmdocs.yaml and
// then to built-in defaults rooted at the working directory.
func (c *CLI) loadConfig(g *Global) (*config.Config, error) {
	path := c.Config
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		}
	}
	var (
		cfg *config.Config
		err error
	)
	if path == "" {
		wd, werr := os.Getwd()
		if werr != nil {
			return nil, werr
		}
		cfg, err = config.Default(wd)
	} else {
		cfg, err = config.Load(path)
	}
	if err != nil {
		return nil, err
	}
	c.configureLogging(g, cfg)
	return cfg, nil
}

func (c *CLI) configureLogging(g *Global, cfg *config.Config) {
	level := cfg.Monitoring.Logging.Level.SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Monitoring.Logging.Format == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	g.Logger = slog.New(handler)
	slog.SetDefault(g.Logger)
}
