package state

import (
	"encoding/hex"

	"github.com/inful/mdfp"
	"github.com/zeebo/blake3"

	"git.home.luguber.info/inful/llmdocs/internal/frontmatter"
)

// SourceFingerprint fingerprints a raw Markdown document from its frontmatter
// block and body. Documents without frontmatter hash with an empty block.
func SourceFingerprint(raw string) string {
	fm, body, _ := frontmatter.Split(raw)
	return mdfp.CalculateFingerprintFromParts(fm, body)
}

// OutputFingerprint is the BLAKE3 digest of optimized content, used to detect
// output files edited or truncated outside the pipeline.
func OutputFingerprint(content string) string {
	sum := blake3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
