package optimizer

import "unicode/utf16"

// charsPerToken is the rule-of-thumb ratio for English text.
const charsPerToken = 4

// EstimateTokens approximates the number of language-model tokens in text
// as ceil(length/4). Length is counted in UTF-16 code units, so astral
// characters such as emoji count twice. The result is an estimate only.
func EstimateTokens(text string) int {
	n := 0
	for _, r := range text {
		n += utf16.RuneLen(r)
	}
	return (n + charsPerToken - 1) / charsPerToken
}
