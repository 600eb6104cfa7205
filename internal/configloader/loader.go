// Package configloader discovers and loads the optional .sundial.yaml
// configuration file; the cli package merges explicit CLI flags over it.
package configloader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileNames are probed in order during discovery.
//
//nolint:gochecknoglobals // Discovery file names are fixed
var ConfigFileNames = []string{".sundial.yaml", ".sundial.yml"}

// ErrNotFound is returned when no config file exists along the
// discovery path.
var ErrNotFound = errors.New("config file not found")

// ExtensionsConfig selects the parser syntax extensions.
type ExtensionsConfig struct {
	NoIntraEmphasis bool `yaml:"no_intra_emphasis"`
	Tables          bool `yaml:"tables"`
	FencedCode      bool `yaml:"fenced_code"`
	Autolink        bool `yaml:"autolink"`
	Strikethrough   bool `yaml:"strikethrough"`
	Ins             bool `yaml:"ins"`
	LaxSpacing      bool `yaml:"lax_spacing"`
	SpaceHeaders    bool `yaml:"space_headers"`
	Superscript     bool `yaml:"superscript"`
	Footnotes       bool `yaml:"footnotes"`
}

// HTMLConfig selects the HTML renderer behaviour.
type HTMLConfig struct {
	SkipHTML   bool `yaml:"skip_html"`
	SkipStyle  bool `yaml:"skip_style"`
	SkipLinks  bool `yaml:"skip_links"`
	SkipImages bool `yaml:"skip_images"`
	SafeLinks  bool `yaml:"safe_links"`
	TOC        bool `yaml:"toc"`
	HardWrap   bool `yaml:"hard_wrap"`
	XHTML      bool `yaml:"xhtml"`
	Escape     bool `yaml:"escape"`
	Outline    bool `yaml:"outline"`
}

// Config is the root configuration structure.
type Config struct {
	Extensions     ExtensionsConfig `yaml:"extensions"`
	HTML           HTMLConfig       `yaml:"html"`
	MaxNesting     int              `yaml:"max_nesting"`
	SmartyPants    bool             `yaml:"smartypants"`
	DetectLanguage bool             `yaml:"detect_language"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{MaxNesting: 16}
}

// LoadOptions control discovery.
type LoadOptions struct {
	// WorkingDir anchors ancestor discovery.
	WorkingDir string
	// ExplicitPath bypasses discovery entirely when set.
	ExplicitPath string
}

// Result carries the loaded config and where it came from.
type Result struct {
	Config *Config
	// Path is empty when defaults were used.
	Path string
}

// Load reads the configuration. An explicit path must exist; absent a
// discovered file the defaults are returned with no error.
func Load(opts LoadOptions) (*Result, error) {
	if opts.ExplicitPath != "" {
		cfg, err := readFile(opts.ExplicitPath)
		if err != nil {
			return nil, err
		}
		return &Result{Config: cfg, Path: opts.ExplicitPath}, nil
	}

	path, err := Discover(opts.WorkingDir)
	if errors.Is(err, ErrNotFound) {
		return &Result{Config: Default()}, nil
	}
	if err != nil {
		return nil, err
	}

	cfg, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return &Result{Config: cfg, Path: path}, nil
}

// Discover walks from dir to the filesystem root looking for a config
// file.
func Discover(dir string) (string, error) {
	if dir == "" {
		return "", ErrNotFound
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve working dir: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNotFound
		}
		dir = parent
	}
}

func readFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.MaxNesting <= 0 {
		cfg.MaxNesting = 16
	}
	return cfg, nil
}
