package dataset

// GroupIndex is an ordered partition of row indices by group key.
// Keys iterate in first-seen order and row indices keep input order,
// so every computation over the index is deterministic.
type GroupIndex struct {
	keys   []string
	groups map[string][]int
}

func newGroupIndex() *GroupIndex {
	return &GroupIndex{groups: make(map[string][]int)}
}

func (g *GroupIndex) add(key string, row int) {
	if _, ok := g.groups[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.groups[key] = append(g.groups[key], row)
}

// Keys returns the group keys in first-seen order.
func (g *GroupIndex) Keys() []string {
	return g.keys
}

// Rows returns the row indices of the given group in input order.
func (g *GroupIndex) Rows(key string) []int {
	return g.groups[key]
}

// Len returns the number of groups.
func (g *GroupIndex) Len() int {
	return len(g.keys)
}
