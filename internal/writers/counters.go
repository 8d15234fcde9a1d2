package writers

// Counters are the run-scoped tallies shared by a sampler and its writer.
// One value per run; nothing here is safe for concurrent use.
type Counters struct {
	Processed int // ORFs or regions scanned
	True      int // true-labeled rows submitted
	False     int // false-labeled rows submitted
}

func (c *Counters) add(label bool) {
	if label {
		c.True++
	} else {
		c.False++
	}
}
