package composer

import "strings"

const (
	inputPrefix     = "summarize:"
	reviewSeparator = "[REVIEW]"
)

// separatorEscaper rewrites a literal separator inside a review so the
// joined input splits back into exactly the selected reviews.
var separatorEscaper = strings.NewReplacer(reviewSeparator, "(REVIEW)")

// BuildInput joins review texts into the seq2seq model input.
func BuildInput(texts []string) string {
	escaped := make([]string, len(texts))
	for i, t := range texts {
		escaped[i] = separatorEscaper.Replace(t)
	}
	return inputPrefix + " " + strings.Join(escaped, " "+reviewSeparator+" ")
}

// CountTokens estimates model tokens as whitespace separated words.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}

// selectTexts walks ranked texts in order and keeps as many as fit into
// budget tokens, counting the prefix and separators. The first text is
// truncated when it alone does not fit so the model never gets an empty input.
func selectTexts(texts []string, budget, limit int) []string {
	used := CountTokens(inputPrefix)
	var out []string
	for _, t := range texts {
		if limit > 0 && len(out) == limit {
			break
		}
		cost := CountTokens(t)
		if len(out) > 0 {
			cost++
		}
		if used+cost > budget {
			if len(out) == 0 {
				out = append(out, truncateWords(t, budget-used))
			}
			break
		}
		out = append(out, t)
		used += cost
	}
	return out
}

func truncateWords(text string, n int) string {
	if n < 1 {
		n = 1
	}
	words := strings.Fields(text)
	if len(words) <= n {
		return text
	}
	return strings.Join(words[:n], " ")
}
