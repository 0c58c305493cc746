package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"devtail/internal/classify"
	"devtail/internal/model"
)

// Default log paths; a run with no flags, environment, or config file tails
// these from end-of-file.
const (
	DefaultOutPath = "/tmp/devserver-out.log"
	DefaultErrPath = "/tmp/devserver-error.log"
)

type Config struct {
	OutPath     string
	ErrPath     string
	Title       string
	Theme       string
	MaxLines    int
	Poll        bool
	Timestamps  bool
	Redact      bool
	Keywords    classify.Keywords
	ShowVersion bool

	ConfigPath string
}

// fileConfig is the TOML schema of the optional config file. Pointers
// distinguish "absent" from "set to false".
type fileConfig struct {
	Title      string `toml:"title"`
	Theme      string `toml:"theme"`
	MaxLines   int    `toml:"max_lines"`
	Poll       *bool  `toml:"poll"`
	Timestamps *bool  `toml:"timestamps"`
	Redact     *bool  `toml:"redact"`
	Files      struct {
		Out string `toml:"out"`
		Err string `toml:"err"`
	} `toml:"files"`
	Keywords struct {
		Error       []string `toml:"error"`
		Warn        []string `toml:"warn"`
		ToolMarkers []string `toml:"tool_markers"`
		RouteVerbs  []string `toml:"route_verbs"`
		Success     []string `toml:"success"`
		Info        []string `toml:"info"`
	} `toml:"keywords"`
}

// Load resolves configuration with precedence flags > environment > config
// file > defaults.
func Load() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{Keywords: classify.DefaultKeywords()}

	fs := flag.NewFlagSet("devtail", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&cfg.OutPath, "out", getenvDefault("DEVTAIL_OUT", DefaultOutPath), "path to the stdout log file")
	fs.StringVar(&cfg.ErrPath, "err", getenvDefault("DEVTAIL_ERR", DefaultErrPath), "path to the stderr log file")
	fs.StringVar(&cfg.Title, "title", getenvDefault("DEVTAIL_TITLE", "dev server"), "header title")
	fs.StringVar(&cfg.Theme, "theme", getenvDefault("DEVTAIL_THEME", "mocha"), "theme: mocha|dark")
	fs.IntVar(&cfg.MaxLines, "max-lines", getenvDefaultInt("DEVTAIL_MAX_LINES", 5000), "display buffer line cap")
	fs.BoolVar(&cfg.Poll, "poll", getenvDefaultBool("DEVTAIL_POLL", true), "poll for file changes instead of inotify")
	fs.BoolVar(&cfg.Timestamps, "timestamps", getenvDefaultBool("DEVTAIL_TIMESTAMPS", false), "show an arrival-time gutter")
	fs.BoolVar(&cfg.Redact, "redact", getenvDefaultBool("DEVTAIL_REDACT", false), "redact obvious secrets in copied text")
	fs.StringVar(&cfg.ConfigPath, "config", getenvDefault("DEVTAIL_CONFIG", ""), "config file (default $XDG_CONFIG_HOME/devtail/config.toml)")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	if err := cfg.applyFile(explicit); err != nil {
		return nil, err
	}

	if cfg.MaxLines < 100 {
		cfg.MaxLines = 100
	}

	return cfg, nil
}

// applyFile layers the optional TOML file under flags and environment. A
// missing default-location file is fine; a missing explicitly-named file or
// a malformed file is fatal.
func (c *Config) applyFile(explicit map[string]bool) error {
	path := c.ConfigPath
	named := explicit["config"] || os.Getenv("DEVTAIL_CONFIG") != ""
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !named {
			return nil
		}
		return fmt.Errorf("config file: %w", err)
	}
	var f fileConfig
	if err := toml.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	// file values lose to explicit flags and to environment
	fromFile := func(name, env string) bool { return !explicit[name] && os.Getenv(env) == "" }
	if f.Files.Out != "" && fromFile("out", "DEVTAIL_OUT") {
		c.OutPath = f.Files.Out
	}
	if f.Files.Err != "" && fromFile("err", "DEVTAIL_ERR") {
		c.ErrPath = f.Files.Err
	}
	if f.Title != "" && fromFile("title", "DEVTAIL_TITLE") {
		c.Title = f.Title
	}
	if f.Theme != "" && fromFile("theme", "DEVTAIL_THEME") {
		c.Theme = f.Theme
	}
	if f.MaxLines > 0 && fromFile("max-lines", "DEVTAIL_MAX_LINES") {
		c.MaxLines = f.MaxLines
	}
	if f.Poll != nil && fromFile("poll", "DEVTAIL_POLL") {
		c.Poll = *f.Poll
	}
	if f.Timestamps != nil && fromFile("timestamps", "DEVTAIL_TIMESTAMPS") {
		c.Timestamps = *f.Timestamps
	}
	if f.Redact != nil && fromFile("redact", "DEVTAIL_REDACT") {
		c.Redact = *f.Redact
	}

	// keyword lists present in the file replace the defaults wholesale; an
	// explicitly empty list disables its category
	if f.Keywords.Error != nil {
		c.Keywords.Error = f.Keywords.Error
	}
	if f.Keywords.Warn != nil {
		c.Keywords.Warn = f.Keywords.Warn
	}
	if f.Keywords.ToolMarkers != nil {
		c.Keywords.ToolMarkers = f.Keywords.ToolMarkers
	}
	if f.Keywords.RouteVerbs != nil {
		c.Keywords.RouteVerbs = f.Keywords.RouteVerbs
	}
	if f.Keywords.Success != nil {
		c.Keywords.Success = f.Keywords.Success
	}
	if f.Keywords.Info != nil {
		c.Keywords.Info = f.Keywords.Info
	}
	return nil
}

func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "devtail", "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "devtail", "config.toml")
}

// Sources returns the two monitored files in a fixed order: the stdout log
// first, the stderr log second.
func (c *Config) Sources() []model.Source {
	return []model.Source{
		{Path: c.OutPath, Stream: model.StreamStdout},
		{Path: c.ErrPath, Stream: model.StreamStderr},
	}
}

func getenvDefault(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getenvDefaultInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func getenvDefaultBool(k string, d bool) bool {
	if v := os.Getenv(k); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return d
}

func (c *Config) String() string {
	return fmt.Sprintf("out=%s err=%s theme=%s max-lines=%d poll=%v redact=%v", c.OutPath, c.ErrPath, c.Theme, c.MaxLines, c.Poll, c.Redact)
}
