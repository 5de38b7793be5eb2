package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnimalCloneDoesNotAlias(t *testing.T) {
	a := Animal{ID: "1", PersonalityTraits: []string{"brave"}}
	c := a.Clone()
	c.PersonalityTraits[0] = "timid"
	assert.Equal(t, "brave", a.PersonalityTraits[0])
}

func TestCloneAnimalsNilYieldsEmptyArray(t *testing.T) {
	b, err := json.Marshal(CloneAnimals(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))
}

func TestNextID(t *testing.T) {
	assert.Equal(t, "0", NextID(0))
	assert.Equal(t, "12", NextID(12))
}

func TestDocumentWireShape(t *testing.T) {
	doc := Document{Animals: []Animal{{ID: "0", Name: "Erica", Species: "gorilla", Diet: "omnivore", PersonalityTraits: []string{"quirky"}}}}
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"animals":[{"id":"0","name":"Erica","species":"gorilla","diet":"omnivore","personalityTraits":["quirky"]}]}`, string(b))
}
