package screen

import (
	"errors"
	"fmt"

	"github.com/filippoints/filippoints-cli/internal/logger"
	"github.com/filippoints/filippoints-cli/internal/person"
)

// NoPoints marks an admin launch that did not supply a point value
const NoPoints = -1

var (
	// ErrPointsNotSpecified is returned when admin mode is requested without a point value
	ErrPointsNotSpecified = errors.New("points not specified")

	// ErrPositionOutOfRange is returned when a click targets a row that is not displayed
	ErrPositionOutOfRange = errors.New("position out of range")
)

// Mode selects between the regular screen and the admin points-assignment screen
type Mode struct {
	admin  bool
	points int
}

// RegularMode is the read-only screen; selecting a row does nothing.
func RegularMode() Mode {
	return Mode{points: NoPoints}
}

// AdminMode is the points-assignment screen. points must be non-negative.
func AdminMode(points int) Mode {
	return Mode{admin: true, points: points}
}

// IsAdmin reports whether selection starts a points assignment
func (m Mode) IsAdmin() bool {
	return m.admin
}

// Points returns the point value to assign, or NoPoints in regular mode
func (m Mode) Points() int {
	return m.points
}

func (m Mode) validate() error {
	if m.admin && m.points < 0 {
		return fmt.Errorf("admin mode requires a non-negative point value: %w", ErrPointsNotSpecified)
	}
	return nil
}

// selectHandler builds the on-select capability for the mode
func (m Mode) selectHandler(nav Navigator) SelectHandler {
	if !m.admin {
		return SelectFunc(func(person.Person) error { return nil })
	}
	points := m.points
	return SelectFunc(func(p person.Person) error {
		return nav.StartPointsReason(p.PK, points)
	})
}

// SelectHandler reacts to a row selection
type SelectHandler interface {
	OnSelect(p person.Person) error
}

// SelectFunc adapts a function to SelectHandler
type SelectFunc func(p person.Person) error

// OnSelect calls f(p)
func (f SelectFunc) OnSelect(p person.Person) error {
	return f(p)
}

// Navigator starts the follow-up points-reason flow
type Navigator interface {
	StartPointsReason(personID, points int) error
}

// logNavigator is used when no navigator is wired
type logNavigator struct{}

func (logNavigator) StartPointsReason(personID, points int) error {
	logger.Infow("Points assignment requested", "person_id", personID, "points", points)
	return nil
}
