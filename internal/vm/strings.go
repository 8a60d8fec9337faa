package vm

// StringBase is the numeric value of the first entry in the string table.
const StringBase = 10000

type stringTable struct {
	items []string
	index map[string]int
}

func (t *stringTable) intern(s string) int {
	if id, ok := t.index[s]; ok {
		return id
	}
	if t.index == nil {
		t.index = make(map[string]int)
	}
	id := len(t.items)
	t.items = append(t.items, s)
	t.index[s] = id
	return id
}

func (t *stringTable) lookup(v float64) (string, bool) {
	if v < StringBase {
		return "", false
	}
	id := int(v - StringBase)
	if float64(id) != v-StringBase || id >= len(t.items) {
		return "", false
	}
	return t.items[id], true
}

// RefreshStrings publishes the literals of every chunk compiled since the
// previous refresh. Literals of freed handles are skipped.
func (m *VM) RefreshStrings() {
	m.enter()
	defer m.leave()
	for _, c := range m.pending {
		if c.dead {
			continue
		}
		for i, s := range c.Strings {
			c.strIDs[i] = m.strs.intern(s)
		}
	}
	m.pending = m.pending[:0]
	m.stats.Refreshes++
}

// LookupString resolves a string handle produced by a literal.
func (m *VM) LookupString(v float64) (string, bool) {
	return m.strs.lookup(v)
}

// Strings returns the published string table in id order.
func (m *VM) Strings() []string {
	return append([]string(nil), m.strs.items...)
}
