package english

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Picker holds the working lists of the manual mapping screen for one
// category: Korean records without an English id and English records not yet
// referenced by any Korean record.
type Picker struct {
	mu         sync.Mutex
	unmapped   []Candidate
	candidates []Candidate
}

// NewPicker builds the working lists. referenced holds English ids already
// mapped by some Korean record.
func NewPicker(unmapped, english []Candidate, referenced map[string]struct{}) *Picker {
	free := make([]Candidate, 0, len(english))
	for _, c := range english {
		if _, used := referenced[c.ContentID]; !used {
			free = append(free, c)
		}
	}
	sort.SliceStable(free, func(i, j int) bool { return free[i].Title < free[j].Title })

	return &Picker{
		unmapped:   append([]Candidate(nil), unmapped...),
		candidates: free,
	}
}

// Unmapped returns a copy of the Korean working list.
func (p *Picker) Unmapped() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Candidate(nil), p.unmapped...)
}

// Candidates returns a copy of the English working list.
func (p *Picker) Candidates() []Candidate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Candidate(nil), p.candidates...)
}

// Remove drops the mapped pair from both working lists.
func (p *Picker) Remove(koID, enID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unmapped = without(p.unmapped, koID)
	p.candidates = without(p.candidates, enID)
}

func without(list []Candidate, id string) []Candidate {
	return lo.Reject(list, func(c Candidate, _ int) bool { return c.ContentID == id })
}
