package event

// Deduper collapses duplicate candidates across every source query in a
// run. It preserves first-seen order: when a later duplicate carries richer
// provenance it replaces the earlier candidate in place, at the original
// position, rather than moving to the end.
type Deduper struct {
	scope string
	index map[string]int
	out   []*Candidate
}

// NewDeduper creates a deduper scoped to a calendar identifier. The scope
// participates in the fallback identity digest so that the same listing
// synced to two calendars does not collide.
func NewDeduper(scope string) *Deduper {
	return &Deduper{
		scope: scope,
		index: make(map[string]int),
	}
}

// Add records a candidate. It returns true when the candidate was new and
// false when it collapsed into an already-seen entry.
func (d *Deduper) Add(c *Candidate) bool {
	id := ID(d.scope, c)
	if i, ok := d.index[id]; ok {
		if c.Provenance > d.out[i].Provenance {
			d.out[i] = c
		}
		return false
	}
	d.index[id] = len(d.out)
	d.out = append(d.out, c)
	return true
}

// Candidates returns the surviving candidates in first-seen order.
func (d *Deduper) Candidates() []*Candidate {
	return d.out
}

// Dedup collapses duplicates in a single slice. Repeated application is a
// no-op.
func Dedup(scope string, in []*Candidate) []*Candidate {
	d := NewDeduper(scope)
	for _, c := range in {
		d.Add(c)
	}
	return d.Candidates()
}
