package domain

// Filter narrows a record sequence. Zero-valued fields impose no constraint.
// All supplied criteria must hold (logical AND), including every entry of
// PersonalityTraits.
type Filter struct {
	PersonalityTraits []string `json:"personalityTraits,omitempty"`
	Diet              string   `json:"diet,omitempty"`
	Species           string   `json:"species,omitempty"`
	Name              string   `json:"name,omitempty"`
}

// IsZero reports whether the filter carries no criteria.
func (f Filter) IsZero() bool {
	return len(f.PersonalityTraits) == 0 && f.Diet == "" && f.Species == "" && f.Name == ""
}

// Matches reports whether a single record satisfies every criterion.
func (f Filter) Matches(a Animal) bool {
	for _, trait := range f.PersonalityTraits {
		if !a.HasTrait(trait) {
			return false
		}
	}
	if f.Diet != "" && a.Diet != f.Diet {
		return false
	}
	if f.Species != "" && a.Species != f.Species {
		return false
	}
	if f.Name != "" && a.Name != f.Name {
		return false
	}
	return true
}

// FilterAnimals returns the records of animals matching f. An empty filter
// returns animals itself; otherwise the result is a fresh slice and animals
// is left untouched.
func FilterAnimals(f Filter, animals []Animal) []Animal {
	if f.IsZero() {
		return animals
	}
	out := make([]Animal, 0, len(animals))
	for _, a := range animals {
		if f.Matches(a) {
			out = append(out, a)
		}
	}
	return out
}

// FindByID returns the first record whose ID equals id exactly.
func FindByID(id string, animals []Animal) (Animal, bool) {
	for _, a := range animals {
		if a.ID == id {
			return a, true
		}
	}
	return Animal{}, false
}
