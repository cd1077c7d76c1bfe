package renderer

import (
	"github.com/shirou/gopsutil/v3/cpu"
)

// CPUCount returns the number of logical CPUs, falling back to 1 when the
// host cannot be queried
func CPUCount() int {
	count, err := cpu.Counts(true)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// DivisorWorkers returns the largest worker count no greater than limit that
// divides pixels evenly
func DivisorWorkers(pixels, limit int) int {
	if limit < 1 {
		limit = 1
	}
	for w := min(limit, pixels); w > 1; w-- {
		if pixels%w == 0 {
			return w
		}
	}
	return 1
}

// AutoWorkers picks a worker count for a canvas of the given size from the CPU count
func AutoWorkers(pixels int) int {
	return DivisorWorkers(pixels, CPUCount())
}
