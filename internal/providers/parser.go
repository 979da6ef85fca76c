package providers

import "strings"

// ProviderRef is one entry of TUTORCHAT_LLM_PROVIDERS, e.g. "openai:backup".
type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

func (r ProviderRef) String() string {
	return r.Raw
}

// ParseProviderList splits "xai|openai:key1, mock" into refs in order. Names are
// lower-cased and duplicate entries dropped; an empty list means mock.
func ParseProviderList(raw string) []ProviderRef {
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == '|' || r == ',' })
	out := make([]ProviderRef, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := ProviderRef{}
		if name, alias, ok := strings.Cut(p, ":"); ok {
			ref.Name = strings.ToLower(strings.TrimSpace(name))
			ref.KeyAlias = strings.TrimSpace(alias)
			ref.Raw = ref.Name + ":" + ref.KeyAlias
		} else {
			ref.Name = strings.ToLower(p)
			ref.Raw = ref.Name
		}
		if _, dup := seen[ref.Raw]; dup {
			continue
		}
		seen[ref.Raw] = struct{}{}
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}
