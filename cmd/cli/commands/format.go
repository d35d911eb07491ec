package commands

import (
	"fmt"
	"io"
	"strings"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
)

// occupancyColor picks the colour for a slot: green when its target is met, yellow when
// it is short by at most a tenth of the target, red otherwise
func occupancyColor(occupancy, target int, green, yellow, red string) string {
	if occupancy >= target {
		return green
	}
	if (target-occupancy)*10 <= target {
		return yellow
	}
	return red
}

// printSlotTable prints one column per slot with its target, occupancy and max
func printSlotTable(w io.Writer, labels []string, targets, occupancy, maxes []int) {
	width := 6
	for _, label := range labels {
		if len(label)+2 > width {
			width = len(label) + 2
		}
	}

	fmt.Fprintf(w, "%-12s", "")
	for _, label := range labels {
		fmt.Fprintf(w, "%*s", width, label)
	}
	fmt.Fprintln(w)

	printRow := func(name string, values []int, colored bool) {
		fmt.Fprintf(w, "%-12s", name)
		for i, v := range values {
			cell := fmt.Sprintf("%*d", width, v)
			if colored {
				cell = occupancyColor(v, targets[i], colorGreen, colorYellow, colorRed) + cell + colorReset
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}

	printRow("Target", targets, false)
	if occupancy != nil {
		printRow("Occupancy", occupancy, true)
	}
	printRow("Max", maxes, false)
}

// combinationCounts counts how many workers hold each combination, in first-seen order
func combinationCounts(combinations [][]string) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)
	for _, slots := range combinations {
		key := strings.Join(slots, "+")
		if _, ok := counts[key]; !ok {
			order = append(order, key)
		}
		counts[key]++
	}
	return order, counts
}
