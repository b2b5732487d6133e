package main

import (
	"fmt"
	"strings"

	"github.com/pep299/review-summarizer/internal/model"
)

const barWidth = 30

// renderCoverage draws one horizontal bar per aspect, in aspect order.
func renderCoverage(coverage map[model.Aspect]float64) string {
	var b strings.Builder
	for _, a := range model.Aspects() {
		v := coverage[a]
		filled := int(v*barWidth + 0.5)
		if filled > barWidth {
			filled = barWidth
		}
		if filled < 0 {
			filled = 0
		}
		fmt.Fprintf(&b, "  %-12s %s%s %.2f\n", a.Label(),
			strings.Repeat("█", filled), strings.Repeat("░", barWidth-filled), v)
	}
	return b.String()
}

func renderMentions(mentions map[model.Aspect]int) string {
	var b strings.Builder
	for _, a := range model.Aspects() {
		fmt.Fprintf(&b, "  %-12s %d\n", a.Label(), mentions[a])
	}
	return b.String()
}
