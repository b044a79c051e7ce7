package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/hershlalwani/djsim/quantum"
)

// Histogram draws one bar per observed outcome, sorted by outcome string,
// with the share of shots and the raw count. width is the bar width.
func Histogram(counts quantum.Counts, shots, width int) string {
	if len(counts) == 0 || shots < 1 {
		return dimStyle.Render("no measurements") + "\n"
	}

	outcomes := make([]string, 0, len(counts))
	for k := range counts {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)

	bar := progress.New(
		progress.WithSolidFill(BarColor),
		progress.WithWidth(max(width, 4)),
		progress.WithoutPercentage(),
	)

	var sb strings.Builder
	for _, k := range outcomes {
		pct := float64(counts[k]) / float64(shots)
		label := qubitLabelStyle.Render(k)
		sb.WriteString(fmt.Sprintf("%s  %s %6.2f%%  %s\n",
			label, bar.ViewAs(pct), pct*100, dimStyle.Render(fmt.Sprintf("(%d)", counts[k]))))
	}
	return sb.String()
}
