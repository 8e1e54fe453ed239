package screen

import (
	"fmt"
	"sync"

	"github.com/filippoints/filippoints-cli/internal/person"
)

// Row is the rendered form of one person
type Row struct {
	Label  string
	Points string
}

// List holds the displayed people in the order received and dispatches row
// selections to its SelectHandler. It is safe for concurrent use.
type List struct {
	mu        sync.RWMutex
	values    []person.Person
	onSelect  SelectHandler
	observers []func()
}

// NewList creates an empty list that forwards clicks to onSelect
func NewList(onSelect SelectHandler) *List {
	return &List{onSelect: onSelect}
}

// SetValues replaces the displayed people and notifies change observers
func (l *List) SetValues(people []person.Person) {
	values := make([]person.Person, len(people))
	copy(values, people)

	l.mu.Lock()
	l.values = values
	observers := append([]func(){}, l.observers...)
	l.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// OnChange registers fn to run after every SetValues
func (l *List) OnChange(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.observers = append(l.observers, fn)
}

// Values returns a copy of the displayed people
func (l *List) Values() []person.Person {
	l.mu.RLock()
	defer l.mu.RUnlock()
	values := make([]person.Person, len(l.values))
	copy(values, l.values)
	return values
}

// Len returns the number of rows
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.values)
}

// Row renders the row at position i
func (l *List) Row(i int) (Row, bool) {
	p, ok := l.at(i)
	if !ok {
		return Row{}, false
	}
	return Row{Label: p.DisplayName(), Points: p.PointsLabel()}, true
}

// Rows renders every row
func (l *List) Rows() []Row {
	values := l.Values()
	rows := make([]Row, len(values))
	for i, p := range values {
		rows[i] = Row{Label: p.DisplayName(), Points: p.PointsLabel()}
	}
	return rows
}

// Click dispatches a selection of the row at position i
func (l *List) Click(i int) error {
	p, ok := l.at(i)
	if !ok {
		return fmt.Errorf("%w: %d", ErrPositionOutOfRange, i)
	}
	return l.onSelect.OnSelect(p)
}

func (l *List) at(i int) (person.Person, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i < 0 || i >= len(l.values) {
		return person.Person{}, false
	}
	return l.values[i], true
}
