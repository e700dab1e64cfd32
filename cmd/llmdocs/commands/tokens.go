package commands

import (
	"fmt"
	"io"
	"os"

	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/optimizer"
)

// TokensCmd implements the 'tokens' command.
type TokensCmd struct {
	Path      string `arg:"" optional:"" default:"-" help:"File to measure, or - for stdin"`
	Optimized bool   `help:"Measure the optimized document instead of the raw input"`
}

func (t *TokensCmd) Run(g *Global) error {
	raw, err := readInput(g, t.Path)
	if err != nil {
		return err
	}
	text := string(raw)
	if t.Optimized {
		text = optimizer.Optimize(text).Content
	}
	_, err = fmt.Fprintln(g.Stdout, optimizer.EstimateTokens(text))
	return err
}

func readInput(g *Global, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(g.Stdin)
		if err != nil {
			return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read stdin").Build()
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, derrors.NotFoundError("file not found").WithContext("path", path).Build()
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "failed to read file").
			WithContext("path", path).
			Build()
	}
	return data, nil
}
