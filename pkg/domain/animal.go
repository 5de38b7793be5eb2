// Package domain defines the animal record, the query filter and the
// validation rules shared by every menagerie storage backend and adapter.
package domain

import "strconv"

// Animal is one record in the collection.
type Animal struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Species           string   `json:"species"`
	Diet              string   `json:"diet"`
	PersonalityTraits []string `json:"personalityTraits"`
}

// Document is the persisted shape of the collection: a single object whose
// "animals" key holds the ordered record sequence.
type Document struct {
	Animals []Animal `json:"animals"`
}

// Clone returns a deep copy so callers cannot alias store-owned trait slices.
func (a Animal) Clone() Animal {
	out := a
	if a.PersonalityTraits != nil {
		out.PersonalityTraits = append([]string(nil), a.PersonalityTraits...)
	}
	return out
}

// HasTrait reports whether trait appears in the animal's trait sequence.
func (a Animal) HasTrait(trait string) bool {
	for _, t := range a.PersonalityTraits {
		if t == trait {
			return true
		}
	}
	return false
}

// NextID returns the identifier assigned to a record appended to a sequence
// of length n. Ids are positional: the decimal string of the pre-insert length.
func NextID(n int) string {
	return strconv.Itoa(n)
}

// CloneAnimals deep-copies a record sequence. A nil input yields an empty,
// non-nil slice so encoders emit [] rather than null.
func CloneAnimals(in []Animal) []Animal {
	out := make([]Animal, len(in))
	for i, a := range in {
		out[i] = a.Clone()
	}
	return out
}
