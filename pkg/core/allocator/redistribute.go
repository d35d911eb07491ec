package allocator

import "sort"

// RedistributeTargets spreads the shifts the available workers can cover as evenly
// as possible across the slots. Every slot gets the same base share; the remainder
// goes one each to the slots with the highest original targets (ties broken by slot
// order). Shares above a slot's max are clamped and the overflow handed out one at a
// time to the slot with the smallest share that still has room, ties in the same order.
func RedistributeTargets(targets, maxes []int, workers, shiftsPerWorker int) []int {
	n := len(targets)
	out := make([]int, n)
	if n == 0 {
		return out
	}

	available := workers * shiftsPerWorker
	base := available / n
	remainder := available % n

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return targets[order[a]] > targets[order[b]]
	})

	for i := range out {
		out[i] = base
	}
	for _, i := range order[:remainder] {
		out[i]++
	}

	overflow := 0
	for i := range out {
		if out[i] > maxes[i] {
			overflow += out[i] - maxes[i]
			out[i] = maxes[i]
		}
	}

	for ; overflow > 0; overflow-- {
		lowest := -1
		for _, i := range order {
			if out[i] < maxes[i] && (lowest < 0 || out[i] < out[lowest]) {
				lowest = i
			}
		}
		if lowest < 0 {
			break
		}
		out[lowest]++
	}

	return out
}
