package commands

import (
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

const defaultPreviewWidth = 80

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Path      string `arg:"" optional:"" default:"-" help:"File to preview, or - for stdin"`
	Optimized bool   `help:"Preview the optimized document instead of the source body"`
	Style     string `default:"auto" help:"Glamour style (auto, dark, light, notty, dracula)"`
	Width     int    `help:"Word wrap width (default: terminal width or 80)"`
}

func (p *PreviewCmd) Run(g *Global) error {
	raw, err := readInput(g, p.Path)
	if err != nil {
		return err
	}
	md := frontmatter.Extract(string(raw)).Body
	if p.Optimized {
		md = optimizer.Optimize(string(raw)).Content
	}

	style, width := p.terminalSettings(g.Stdout)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "failed to create renderer").
			WithContext("style", style).
			Build()
	}
	out, err := r.Render(md)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRender, "failed to render markdown").Build()
	}
	_, err = io.WriteString(g.Stdout, out)
	return err
}

// terminalSettings resolves "auto" to a colored style on terminals and plain
// text otherwise, and the wrap width to the terminal width when known.
func (p *PreviewCmd) terminalSettings(w io.Writer) (string, int) {
	style, width := p.Style, p.Width
	f, ok := w.(*os.File)
	tty := ok && term.IsTerminal(int(f.Fd()))
	if style == "" || style == "auto" {
		style = "notty"
		if tty {
			style = "dark"
		}
	}
	if width <= 0 {
		width = defaultPreviewWidth
		if tty {
			if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
				width = cols
			}
		}
	}
	return style, width
}
