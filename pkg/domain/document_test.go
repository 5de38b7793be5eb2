package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDocumentPrettyPrints(t *testing.T) {
	b, err := EncodeDocument([]Animal{{ID: "0", Name: "Tom & Jerry", Species: "cat", Diet: "carnivore", PersonalityTraits: []string{"sly"}}})
	require.NoError(t, err)
	want := `{
  "animals": [
    {
      "id": "0",
      "name": "Tom & Jerry",
      "species": "cat",
      "diet": "carnivore",
      "personalityTraits": [
        "sly"
      ]
    }
  ]
}`
	assert.Equal(t, want, string(b))
}

func TestEncodeDocumentNil(t *testing.T) {
	b, err := EncodeDocument(nil)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"animals\": []\n}", string(b))
}

func TestDecodeDocument(t *testing.T) {
	animals, err := DecodeDocument([]byte(`{"animals":[{"id":"0","name":"a","species":"b","diet":"c","personalityTraits":["d"]}]}`))
	require.NoError(t, err)
	require.Len(t, animals, 1)
	assert.Equal(t, []string{"d"}, animals[0].PersonalityTraits)

	empty, err := DecodeDocument([]byte(`{"animals":[]}`))
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = DecodeDocument([]byte(`{"animals":`))
	assert.Error(t, err)
	_, err = DecodeDocument([]byte(`{"zoo":[]}`))
	assert.Error(t, err)
	_, err = DecodeDocument([]byte(`{"animals":{}}`))
	assert.Error(t, err)
}

func TestDocumentRoundTrip(t *testing.T) {
	in := []Animal{
		{ID: "0", Name: "a", Species: "b", Diet: "c", PersonalityTraits: []string{"x", "x", "y"}},
		{ID: "1", Name: "<b>", Species: "e", Diet: "f", PersonalityTraits: []string{"z"}},
	}
	b, err := EncodeDocument(in)
	require.NoError(t, err)
	out, err := DecodeDocument(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
