// Package person defines the Person record shown on the choose-person screen
// and its cached list encoding.
package person

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Person is a displayable record with identity, name and point total.
type Person struct {
	PK        int    `json:"pk"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Points    int    `json:"points"`
}

// DisplayName returns "first last".
func (p Person) DisplayName() string {
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}

// PointsLabel returns the point total as text.
func (p Person) PointsLabel() string {
	return strconv.Itoa(p.Points)
}

// DecodeList parses a serialized list. Empty, null or malformed input yields
// an empty, non-nil slice.
func DecodeList(data string) []Person {
	if data == "" {
		return []Person{}
	}
	var people []Person
	if err := json.Unmarshal([]byte(data), &people); err != nil || people == nil {
		return []Person{}
	}
	return people
}

// EncodeList serializes people as a JSON array. A nil slice encodes as "[]".
func EncodeList(people []Person) (string, error) {
	if people == nil {
		people = []Person{}
	}
	data, err := json.Marshal(people)
	if err != nil {
		return "", fmt.Errorf("failed to marshal people: %w", err)
	}
	return string(data), nil
}
