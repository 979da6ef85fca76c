package directory

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"tutorchat/internal/models"
)

type sectionSpec struct {
	Key    string
	Title  string
	Fields []string
}

// sectionOrder is the rendering order of profile sections and their known fields.
var sectionOrder = []sectionSpec{
	{"profile", "Student Profile", []string{"fullName", "email", "phone", "age", "institution", "fieldOfStudy", "yearOfStudy", "linkedIn"}},
	{"technical", "Technical Computing", []string{"technicalProficiency", "cloudExperience", "vmExperience", "otherTechnicalSkills"}},
	{"programming", "Programming Expertise", []string{"hasProgramming", "languages", "frameworks", "ides", "projectDescription", "hasOpenSource"}},
	{"database", "Database Skills", []string{"hasDatabaseExperience", "databaseSystems", "otherDatabases", "hasBackendExperience", "apiTechnologies"}},
	{"ai", "AI & Emerging Tech", []string{"aiExperience", "hasML", "tools", "otherTools", "hasAIModels"}},
	{"collaboration", "Collaboration", []string{"hasCollaboration", "collaborationRole", "hasCompetitions", "competitionExperience", "additionalInfo"}},
}

var fieldLabels = map[string]string{
	"fullName":        "Full Name",
	"linkedIn":        "LinkedIn",
	"vmExperience":    "VM Experience",
	"ides":            "IDEs",
	"hasML":           "Machine Learning",
	"hasAIModels":     "AI Models",
	"apiTechnologies": "API Technologies",
	"aiExperience":    "AI Experience",
}

// FormatProfile renders the header and every non-empty known section in fixed order.
func FormatProfile(p models.UserProfile, sections map[string]map[string]any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s\n", p.Username)
	fmt.Fprintf(&b, "Email: %s\n", p.Email)
	if p.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n", p.Role)
	}
	status := "Inactive"
	if p.Active {
		status = "Active"
	}
	fmt.Fprintf(&b, "Status: %s", status)

	for _, spec := range sectionOrder {
		lines := sectionLines(spec, sections[spec.Key])
		if len(lines) == 0 {
			continue
		}
		b.WriteString("\n\n" + spec.Title)
		for _, ln := range lines {
			b.WriteString("\n- " + ln)
		}
	}
	return b.String()
}

func sectionLines(spec sectionSpec, data map[string]any) []string {
	if len(data) == 0 {
		return nil
	}
	known := make(map[string]struct{}, len(spec.Fields))
	keys := make([]string, 0, len(data))
	for _, f := range spec.Fields {
		known[f] = struct{}{}
		if _, ok := data[f]; ok {
			keys = append(keys, f)
		}
	}
	extra := make([]string, 0)
	for k := range data {
		if _, ok := known[k]; !ok {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	keys = append(keys, extra...)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := renderValue(data[k]); ok {
			out = append(out, label(k)+": "+v)
		}
	}
	return out
}

// renderValue formats truthy values; false, zero, empty and nil report ok=false.
func renderValue(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case bool:
		return "Yes", t
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		if t == 0 {
			return "", false
		}
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", t), "0"), "."), true
	case int, int32, int64:
		s := fmt.Sprint(t)
		return s, s != "0"
	case []any:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if s, ok := renderValue(it); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	case []string:
		parts := make([]string, 0, len(t))
		for _, it := range t {
			if it = strings.TrimSpace(it); it != "" {
				parts = append(parts, it)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			s, ok := renderValue(t[k])
			if !ok {
				continue
			}
			if s == "Yes" {
				parts = append(parts, k)
			} else {
				parts = append(parts, fmt.Sprintf("%s (%s)", k, s))
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	default:
		s := strings.TrimSpace(fmt.Sprint(t))
		return s, s != ""
	}
}

// label turns camelCase or snake_case keys into "Title Case" words.
func label(key string) string {
	if l, ok := fieldLabels[key]; ok {
		return l
	}
	if len(key) > 3 && strings.HasPrefix(key, "has") && unicode.IsUpper(rune(key[3])) {
		key = key[3:]
	}
	var words []string
	var cur []rune
	for _, r := range key {
		switch {
		case r == '_' || r == '-' || r == ' ':
			if len(cur) > 0 {
				words = append(words, string(cur))
				cur = nil
			}
		case unicode.IsUpper(r) && len(cur) > 0:
			words = append(words, string(cur))
			cur = []rune{r}
		default:
			cur = append(cur, r)
		}
	}
	if len(cur) > 0 {
		words = append(words, string(cur))
	}
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
