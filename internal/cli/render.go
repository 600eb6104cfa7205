package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/sundial/internal/configloader"
	"github.com/yaklabco/sundial/internal/logging"
	"github.com/yaklabco/sundial/pkg/buffer"
	"github.com/yaklabco/sundial/pkg/html"
	"github.com/yaklabco/sundial/pkg/langdetect"
	"github.com/yaklabco/sundial/pkg/markdown"
)

type renderFlags struct {
	output string

	// extensions
	noIntraEmphasis bool
	tables          bool
	fencedCode      bool
	autolink        bool
	strikethrough   bool
	ins             bool
	laxSpacing      bool
	spaceHeaders    bool
	superscript     bool
	footnotes       bool

	// renderer
	skipHTML   bool
	skipStyle  bool
	skipLinks  bool
	skipImages bool
	safeLinks  bool
	toc        bool
	tocOnly    bool
	hardWrap   bool
	xhtml      bool
	escape     bool
	outline    bool

	// post-processing
	smartypants bool
	detectLang  bool
	maxNesting  int
}

func addRenderFlags(cmd *cobra.Command, flags *renderFlags) {
	f := cmd.Flags()

	f.StringVarP(&flags.output, "output", "o", "", "write HTML to this file instead of stdout")

	f.BoolVar(&flags.noIntraEmphasis, "no-intra-emphasis", false, "disallow emphasis inside words")
	f.BoolVar(&flags.tables, "tables", false, "enable pipe tables")
	f.BoolVar(&flags.fencedCode, "fenced-code", false, "enable fenced code blocks")
	f.BoolVar(&flags.autolink, "autolink", false, "link bare URLs, www hosts and addresses")
	f.BoolVar(&flags.strikethrough, "strikethrough", false, "enable ~~strikethrough~~")
	f.BoolVar(&flags.ins, "ins", false, "enable ++inserted text++")
	f.BoolVar(&flags.laxSpacing, "lax-spacing", false, "let blocks interrupt paragraphs without a blank line")
	f.BoolVar(&flags.spaceHeaders, "space-headers", false, "require a space after # in headers")
	f.BoolVar(&flags.superscript, "superscript", false, "enable ^superscript")
	f.BoolVar(&flags.footnotes, "footnotes", false, "enable footnotes")

	f.BoolVar(&flags.skipHTML, "skip-html", false, "drop raw HTML blocks")
	f.BoolVar(&flags.skipStyle, "skip-style", false, "drop inline style tags")
	f.BoolVar(&flags.skipLinks, "skip-links", false, "drop links")
	f.BoolVar(&flags.skipImages, "skip-images", false, "drop images")
	f.BoolVar(&flags.safeLinks, "safe-links", false, "only emit links with whitelisted schemes")
	f.BoolVar(&flags.toc, "toc", false, "add table-of-contents anchors to headers")
	f.BoolVar(&flags.tocOnly, "toc-only", false, "emit only the table of contents")
	f.BoolVar(&flags.hardWrap, "hard-wrap", false, "turn intra-paragraph newlines into <br>")
	f.BoolVar(&flags.xhtml, "xhtml", false, "emit XHTML self-closing tags")
	f.BoolVar(&flags.escape, "escape", false, "entity-escape all raw HTML")
	f.BoolVar(&flags.outline, "outline", false, "wrap headers in nested <section> elements")

	f.BoolVar(&flags.smartypants, "smartypants", false, "post-process output with SmartyPants")
	f.BoolVar(&flags.detectLang, "detect-lang", false, "classify unlabelled fenced code blocks")
	f.IntVar(&flags.maxNesting, "max-nesting", 0, "nesting depth limit (default from config, 16)")
}

// mergeConfig folds explicitly-set CLI flags over the loaded config.
func mergeConfig(cmd *cobra.Command, cfg *configloader.Config, flags *renderFlags) {
	bools := map[string]*bool{
		"no-intra-emphasis": &cfg.Extensions.NoIntraEmphasis,
		"tables":            &cfg.Extensions.Tables,
		"fenced-code":       &cfg.Extensions.FencedCode,
		"autolink":          &cfg.Extensions.Autolink,
		"strikethrough":     &cfg.Extensions.Strikethrough,
		"ins":               &cfg.Extensions.Ins,
		"lax-spacing":       &cfg.Extensions.LaxSpacing,
		"space-headers":     &cfg.Extensions.SpaceHeaders,
		"superscript":       &cfg.Extensions.Superscript,
		"footnotes":         &cfg.Extensions.Footnotes,

		"skip-html":   &cfg.HTML.SkipHTML,
		"skip-style":  &cfg.HTML.SkipStyle,
		"skip-links":  &cfg.HTML.SkipLinks,
		"skip-images": &cfg.HTML.SkipImages,
		"safe-links":  &cfg.HTML.SafeLinks,
		"toc":         &cfg.HTML.TOC,
		"hard-wrap":   &cfg.HTML.HardWrap,
		"xhtml":       &cfg.HTML.XHTML,
		"escape":      &cfg.HTML.Escape,
		"outline":     &cfg.HTML.Outline,

		"smartypants": &cfg.SmartyPants,
		"detect-lang": &cfg.DetectLanguage,
	}
	for name, dst := range bools {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetBool(name)
			*dst = v
		}
	}
	if cmd.Flags().Changed("max-nesting") && flags.maxNesting > 0 {
		cfg.MaxNesting = flags.maxNesting
	}
}

func extensionBits(cfg *configloader.Config) markdown.Extensions {
	var ext markdown.Extensions
	if cfg.Extensions.NoIntraEmphasis {
		ext |= markdown.NoIntraEmphasis
	}
	if cfg.Extensions.Tables {
		ext |= markdown.Tables
	}
	if cfg.Extensions.FencedCode {
		ext |= markdown.FencedCode
	}
	if cfg.Extensions.Autolink {
		ext |= markdown.Autolink
	}
	if cfg.Extensions.Strikethrough {
		ext |= markdown.Strikethrough
	}
	if cfg.Extensions.Ins {
		ext |= markdown.Ins
	}
	if cfg.Extensions.LaxSpacing {
		ext |= markdown.LaxSpacing
	}
	if cfg.Extensions.SpaceHeaders {
		ext |= markdown.SpaceHeaders
	}
	if cfg.Extensions.Superscript {
		ext |= markdown.Superscript
	}
	if cfg.Extensions.Footnotes {
		ext |= markdown.Footnotes
	}
	return ext
}

func htmlBits(cfg *configloader.Config) html.Flags {
	var flags html.Flags
	if cfg.HTML.SkipHTML {
		flags |= html.SkipHTML
	}
	if cfg.HTML.SkipStyle {
		flags |= html.SkipStyle
	}
	if cfg.HTML.SkipLinks {
		flags |= html.SkipLinks
	}
	if cfg.HTML.SkipImages {
		flags |= html.SkipImages
	}
	if cfg.HTML.SafeLinks {
		flags |= html.Safelink
	}
	if cfg.HTML.TOC {
		flags |= html.TOC
	}
	if cfg.HTML.HardWrap {
		flags |= html.HardWrap
	}
	if cfg.HTML.XHTML {
		flags |= html.UseXHTML
	}
	if cfg.HTML.Escape {
		flags |= html.Escape
	}
	if cfg.HTML.Outline {
		flags |= html.Outline
	}
	return flags
}

func runRender(cmd *cobra.Command, args []string, flags *renderFlags, configPath string) error {
	logger := logging.Default()

	workDir, err := os.Getwd()
	if err != nil {
		return wrapIO(fmt.Errorf("get working directory: %w", err))
	}

	loaded, err := configloader.Load(configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
	})
	if err != nil {
		return wrapConfig(err)
	}
	cfg := loaded.Config
	mergeConfig(cmd, cfg, flags)

	input, name, err := readInput(args)
	if err != nil {
		return wrapIO(err)
	}

	cb := buildRenderer(cfg, flags)

	parser := markdown.New(extensionBits(cfg), cfg.MaxNesting, cb)
	ob := buffer.New(64)
	parser.Render(ob, input)

	out := ob
	if cfg.SmartyPants && !flags.tocOnly {
		smart := buffer.New(64)
		html.SmartyPants(smart, ob.Bytes())
		out = smart
	}

	if err := writeOutput(flags.output, out.Bytes()); err != nil {
		return wrapIO(err)
	}

	logger.Debug("rendered document",
		logging.FieldInput, name,
		logging.FieldConfig, loaded.Path,
		logging.FieldExtensions, fmt.Sprintf("%#x", int(extensionBits(cfg))),
		logging.FieldHTMLFlags, fmt.Sprintf("%#x", int(htmlBits(cfg))),
		logging.FieldMaxNesting, cfg.MaxNesting,
		logging.FieldBytesIn, len(input),
		logging.FieldBytesOut, out.Len(),
	)

	return nil
}

func buildRenderer(cfg *configloader.Config, flags *renderFlags) markdown.Callbacks {
	if flags.tocOnly {
		return html.NewTOC().Callbacks()
	}

	renderer := html.New(htmlBits(cfg))
	if cfg.DetectLanguage {
		renderer.DetectLanguage = langdetect.Detect
	}
	return renderer.Callbacks()
}

func readInput(args []string) (data []byte, name string, err error) {
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}
		return data, "stdin", nil
	}

	data, err = os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}
	return data, args[0], nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
