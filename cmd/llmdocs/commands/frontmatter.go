package commands

import (
	"encoding/json"
	"fmt"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

// FrontmatterCmd implements the 'frontmatter' command.
type FrontmatterCmd struct {
	Path   string `arg:"" optional:"" default:"-" help:"Document to inspect, or - for stdin"`
	Flat   bool   `help:"Print the flattened key/value lines used in optimized output"`
	Strict bool   `help:"Fail when the frontmatter block is malformed"`
}

func (f *FrontmatterCmd) Run(g *Global) error {
	raw, err := readInput(g, f.Path)
	if err != nil {
		return err
	}
	ex := optimizer.New(optimizer.WithLogger(g.Logger)).ExtractFrontmatter(string(raw))

	_, _ = fmt.Fprintf(g.Stdout, "status: %s\n", ex.Status)
	if ex.Err != nil {
		_, _ = fmt.Fprintf(g.Stdout, "error: %v\n", ex.Err)
	}
	if f.Flat {
		if out := frontmatter.Flatten(ex.Fields); out != "" {
			_, _ = fmt.Fprintln(g.Stdout, out)
		}
	} else {
		b, err := json.MarshalIndent(ex.Fields, "", "  ")
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryInternal, "failed to encode frontmatter").Build()
		}
		_, _ = fmt.Fprintln(g.Stdout, string(b))
	}

	if f.Strict && ex.Status == frontmatter.StatusMalformed {
		return derrors.FrontmatterError("malformed frontmatter").
			WithContext("path", f.Path).
			WithCause(ex.Err).
			Build()
	}
	return nil
}
