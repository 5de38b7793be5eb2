package animals

import (
	"net/url"
	"sort"
	"strconv"

	"menagerie/pkg/domain"
)

// Query parameter names.
const (
	ParamPersonalityTraits = "personalityTraits"
	ParamDiet              = "diet"
	ParamSpecies           = "species"
	ParamName              = "name"
)

// ParseFilter builds a filter from a query string. personalityTraits may
// repeat and may use the bracket forms personalityTraits[] and
// personalityTraits[N]; indexed values follow the unindexed ones in index
// order. Empty values are dropped. For the scalar fields the first non-empty
// value wins. Unknown keys are ignored.
func ParseFilter(q url.Values) domain.Filter {
	return domain.Filter{
		PersonalityTraits: traitValues(q),
		Diet:              firstNonEmpty(q[ParamDiet]),
		Species:           firstNonEmpty(q[ParamSpecies]),
		Name:              firstNonEmpty(q[ParamName]),
	}
}

func traitValues(q url.Values) []string {
	var traits []string
	for _, key := range []string{ParamPersonalityTraits, ParamPersonalityTraits + "[]"} {
		traits = appendNonEmpty(traits, q[key]...)
	}
	indexed := make(map[int]string)
	for key, vals := range q {
		name, inner, bracketed := splitFormKey(key)
		if name != ParamPersonalityTraits || !bracketed || inner == "" {
			continue
		}
		idx, err := strconv.Atoi(inner)
		if err != nil || idx < 0 {
			continue
		}
		indexed[idx] = vals[len(vals)-1]
	}
	idxs := make([]int, 0, len(indexed))
	for i := range indexed {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, i := range idxs {
		traits = appendNonEmpty(traits, indexed[i])
	}
	return traits
}

func appendNonEmpty(dst []string, values ...string) []string {
	for _, v := range values {
		if v != "" {
			dst = append(dst, v)
		}
	}
	return dst
}

func firstNonEmpty(values []string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
