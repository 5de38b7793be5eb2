package animals

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"menagerie/pkg/domain"
)

func TestParseFilter(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.Filter
	}{
		{"", domain.Filter{}},
		{"species=bear", domain.Filter{Species: "bear"}},
		{"personalityTraits=quirky", domain.Filter{PersonalityTraits: []string{"quirky"}}},
		{"personalityTraits=a&personalityTraits=&personalityTraits[]=b", domain.Filter{PersonalityTraits: []string{"a", "b"}}},
		{"diet=&diet=herbivore&name=Noel&name=Erica", domain.Filter{Diet: "herbivore", Name: "Noel"}},
		{"personalityTraits[1]=q&personalityTraits[0]=r", domain.Filter{PersonalityTraits: []string{"r", "q"}}},
		{"personalityTraits=a&personalityTraits[0]=b&personalityTraits[x]=c", domain.Filter{PersonalityTraits: []string{"a", "b"}}},
		{"colour=brown", domain.Filter{}},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			q, err := url.ParseQuery(tc.raw)
			assert.NoError(t, err)
			got := ParseFilter(q)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.IsZero(), got.IsZero())
		})
	}
}
