package optimizer

import "git.home.luguber.info/inful/llmdocs/internal/frontmatter"

// ExtractFrontmatter splits and parses frontmatter using a default Optimizer.
func ExtractFrontmatter(markdown string) frontmatter.Extraction {
	return New().ExtractFrontmatter(markdown)
}

// Optimize reformats raw Markdown using a default Optimizer.
func Optimize(raw string) Result {
	return New().Optimize(raw)
}
