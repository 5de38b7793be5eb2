package animals

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// decodeBody reads a POST body into the loosely typed shape the validator
// expects. JSON bodies must be objects. Form bodies follow the extended
// query-string convention (see formToRaw). Any other content type yields an
// empty map, which fails validation.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	mediaType := ""
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("content type: %w", err)
		}
		mediaType = mt
	}
	switch {
	case mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return decodeJSONObject(r.Body)
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return formToRaw(r.PostForm), nil
	default:
		_, _ = io.Copy(io.Discard, r.Body)
		return map[string]any{}, nil
	}
}

func decodeJSONObject(body io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode json body: %w", err)
	}
	if raw == nil {
		return nil, errors.New("json body is not an object")
	}
	return raw, nil
}

type formField struct {
	values  []string
	indexed map[int]string
	isList  bool
	nested  bool
}

// formToRaw turns urlencoded fields into strings and sequences:
// "k[]=a" and "k[0]=a" always produce a sequence, a repeated "k" produces a
// sequence, a single "k" produces a string, and "k[x]=..." produces an object.
func formToRaw(form url.Values) map[string]any {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make(map[string]*formField)
	for _, key := range keys {
		name, inner, bracketed := splitFormKey(key)
		f, ok := fields[name]
		if !ok {
			f = &formField{}
			fields[name] = f
		}
		vals := form[key]
		switch {
		case !bracketed:
			f.values = append(f.values, vals...)
		case inner == "":
			f.isList = true
			f.values = append(f.values, vals...)
		default:
			idx, err := strconv.Atoi(inner)
			if err != nil || idx < 0 {
				f.nested = true
				continue
			}
			if f.indexed == nil {
				f.indexed = make(map[int]string)
			}
			f.indexed[idx] = vals[len(vals)-1]
			f.isList = true
		}
	}

	raw := make(map[string]any, len(fields))
	for name, f := range fields {
		if f.nested {
			raw[name] = map[string]any{}
			continue
		}
		if len(f.indexed) > 0 {
			idxs := make([]int, 0, len(f.indexed))
			for i := range f.indexed {
				idxs = append(idxs, i)
			}
			sort.Ints(idxs)
			for _, i := range idxs {
				f.values = append(f.values, f.indexed[i])
			}
		}
		if !f.isList && len(f.values) == 1 {
			raw[name] = f.values[0]
			continue
		}
		seq := make([]any, len(f.values))
		for i, v := range f.values {
			seq[i] = v
		}
		raw[name] = seq
	}
	return raw
}

// splitFormKey splits "name[inner]" into its parts.
func splitFormKey(key string) (name, inner string, bracketed bool) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, "", false
	}
	return key[:open], key[open+1 : len(key)-1], true
}
