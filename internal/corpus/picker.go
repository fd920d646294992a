// Package corpus selects drill quotes.
package corpus

import (
	"math/rand"
	"sync"
	"time"
)

// Picker selects quotes pseudo-randomly.
type Picker struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	quotes []Quote
}

// NewPicker returns a Picker over quotes seeded with the current time.
// An empty list falls back to the builtin quotes.
func NewPicker(quotes []Quote) *Picker {
	return NewPickerWithSource(quotes, rand.NewSource(time.Now().UnixNano()))
}

// NewPickerWithSource returns a Picker using the given random source.
func NewPickerWithSource(quotes []Quote, src rand.Source) *Picker {
	p := &Picker{rnd: rand.New(src)}
	p.Set(quotes)
	return p
}

// Set replaces the quote list. An empty list falls back to the builtin quotes.
func (p *Picker) Set(quotes []Quote) {
	if len(quotes) == 0 {
		quotes = Builtin()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.quotes = append([]Quote(nil), quotes...)
}

// Len returns the size of the current corpus.
func (p *Picker) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.quotes)
}

// Pick returns a random quote.
func (p *Picker) Pick() Quote {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quotes[p.rnd.Intn(len(p.quotes))]
}
