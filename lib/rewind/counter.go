package rewind

import "sort"

// counter is a frequency table that remembers first-seen key order.
// sorted() uses a stable sort, so equal counts tie-break by insertion
// order and the output stays deterministic across builds.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *counter) get(key string) int {
	return c.counts[key]
}

// sorted returns all entries by count descending, ties in insertion order.
func (c *counter) sorted() []NameCount {
	out := make([]NameCount, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, NameCount{Name: k, Count: c.counts[k]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// top returns at most n entries of sorted().
func (c *counter) top(n int) []NameCount {
	s := c.sorted()
	if len(s) > n {
		s = s[:n]
	}
	return s
}

// topNames returns the names of the top n entries.
func (c *counter) topNames(n int) []string {
	top := c.top(n)
	names := make([]string, 0, len(top))
	for _, nc := range top {
		names = append(names, nc.Name)
	}
	return names
}
