package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Submission field names as they appear on the wire.
const (
	FieldName              = "name"
	FieldSpecies           = "species"
	FieldDiet              = "diet"
	FieldPersonalityTraits = "personalityTraits"
)

var animalValidate = newAnimalValidator()

func newAnimalValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// record carries the structural rules for a stored animal. Empty strings and
// empty trait sequences are rejected.
type record struct {
	Name              string   `json:"name" validate:"required"`
	Species           string   `json:"species" validate:"required"`
	Diet              string   `json:"diet" validate:"required"`
	PersonalityTraits []string `json:"personalityTraits" validate:"required,min=1"`
}

// ValidateAnimal reports whether raw, a decoded and untrusted request body,
// describes a well-formed animal.
func ValidateAnimal(raw map[string]any) bool {
	_, err := DecodeAnimal(raw)
	return err == nil
}

// DecodeAnimal converts raw into an Animal. The ID is left empty; the store
// assigns it. Failures wrap ErrInvalidAnimal.
func DecodeAnimal(raw map[string]any) (Animal, error) {
	if raw == nil {
		return Animal{}, &ValidationError{Field: FieldName, Reason: "is missing"}
	}
	var (
		a   Animal
		err error
	)
	if a.Name, err = stringField(raw, FieldName); err != nil {
		return Animal{}, err
	}
	if a.Species, err = stringField(raw, FieldSpecies); err != nil {
		return Animal{}, err
	}
	if a.Diet, err = stringField(raw, FieldDiet); err != nil {
		return Animal{}, err
	}
	if a.PersonalityTraits, err = traitsField(raw); err != nil {
		return Animal{}, err
	}
	if err := ValidateRecord(a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// ValidateRecord applies the structural rules to an already typed record,
// such as one read from seed data.
func ValidateRecord(a Animal) error {
	err := animalValidate.Struct(record{
		Name:              a.Name,
		Species:           a.Species,
		Diet:              a.Diet,
		PersonalityTraits: a.PersonalityTraits,
	})
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := "is empty"
		if fe.Tag() == "min" {
			reason = "needs at least one entry"
		}
		return &ValidationError{Field: fe.Field(), Reason: reason}
	}
	return errors.Join(ErrInvalidAnimal, err)
}

func stringField(raw map[string]any, field string) (string, error) {
	v, ok := raw[field]
	if !ok || v == nil {
		return "", &ValidationError{Field: field, Reason: "is missing"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ValidationError{Field: field, Reason: "is not a string"}
	}
	return s, nil
}

func traitsField(raw map[string]any) ([]string, error) {
	v, ok := raw[FieldPersonalityTraits]
	if !ok || v == nil {
		return nil, &ValidationError{Field: FieldPersonalityTraits, Reason: "is missing"}
	}
	switch seq := v.(type) {
	case []string:
		return append([]string{}, seq...), nil
	case []any:
		out := make([]string, 0, len(seq))
		for _, item := range seq {
			s, ok := item.(string)
			if !ok {
				return nil, &ValidationError{Field: FieldPersonalityTraits, Reason: "contains a non-string entry"}
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, &ValidationError{Field: FieldPersonalityTraits, Reason: "is not a sequence"}
	}
}
