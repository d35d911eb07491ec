package criteria

import "github.com/jakechorley/rider-rota/pkg/core/allocator"

func sumOver(values []int, slots []allocator.SlotID) int {
	total := 0
	for _, s := range slots {
		total += values[s]
	}
	return total
}

// spreadBonus returns 1/(1+max-min) over the values at the given slots
func spreadBonus(values []int, slots []allocator.SlotID) float64 {
	if len(slots) == 0 {
		return 0
	}
	lo, hi := values[slots[0]], values[slots[0]]
	for _, s := range slots[1:] {
		lo = min(lo, values[s])
		hi = max(hi, values[s])
	}
	return 1 / float64(1+hi-lo)
}
