// Package skills provides the shared skill vocabulary and the extractors built on top of it.
package skills

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// DefaultMaxMatches caps Lookup results so tag lists stay short.
const DefaultMaxMatches = 6

// Term is a canonical skill name with optional aliases.
// CaseSensitive applies to Name only; aliases always match case-insensitively.
type Term struct {
	Name          string
	Aliases       []string
	CaseSensitive bool
}

// defaultTerms is the curated vocabulary. Ambiguous English words (Go, Express, REST...)
// only match with their canonical capitalization.
var defaultTerms = []Term{
	{Name: "Python"},
	{Name: "Java"},
	{Name: "JavaScript"},
	{Name: "TypeScript"},
	{Name: "C++"},
	{Name: "C#"},
	{Name: "Go", Aliases: []string{"golang"}, CaseSensitive: true},
	{Name: "Rust", CaseSensitive: true},
	{Name: "Swift", CaseSensitive: true},
	{Name: "Kotlin"},
	{Name: "React", Aliases: []string{"react.js", "reactjs"}},
	{Name: "Angular"},
	{Name: "Vue", Aliases: []string{"vue.js", "vuejs"}},
	{Name: "Node.js", Aliases: []string{"nodejs"}},
	{Name: "Django"},
	{Name: "Flask"},
	{Name: "Spring", CaseSensitive: true},
	{Name: "Express", CaseSensitive: true},
	{Name: "SQL"},
	{Name: "MongoDB"},
	{Name: "PostgreSQL", Aliases: []string{"postgres"}},
	{Name: "MySQL"},
	{Name: "Redis"},
	{Name: "Elasticsearch"},
	{Name: "DynamoDB"},
	{Name: "AWS", Aliases: []string{"amazon web services"}},
	{Name: "Azure"},
	{Name: "GCP", Aliases: []string{"google cloud"}},
	{Name: "Docker"},
	{Name: "Kubernetes", Aliases: []string{"k8s"}},
	{Name: "Jenkins"},
	{Name: "Git"},
	{Name: "GitHub"},
	{Name: "GitLab"},
	{Name: "CI/CD", Aliases: []string{"continuous integration"}},
	{Name: "Agile"},
	{Name: "Scrum"},
	{Name: "DevOps"},
	{Name: "Terraform"},
	{Name: "HTML"},
	{Name: "CSS"},
	{Name: "SASS"},
	{Name: "Bootstrap"},
	{Name: "Tailwind"},
	{Name: "jQuery"},
	{Name: "REST", Aliases: []string{"rest api", "rest apis", "restful"}, CaseSensitive: true},
	{Name: "GraphQL"},
	{Name: "Machine Learning"},
	{Name: "Data Science"},
	{Name: "AI", Aliases: []string{"artificial intelligence"}},
	{Name: "TensorFlow"},
	{Name: "PyTorch"},
	{Name: "Pandas"},
	{Name: "NumPy"},
	{Name: "Scikit-learn", Aliases: []string{"sklearn"}},
}

// Vocabulary is an immutable set of known skills used for lexical matching.
// It is safe for concurrent use.
type Vocabulary struct {
	terms      []Term
	canonical  map[string]string // lowercased name or alias -> canonical name
	maxMatches int
}

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithMaxMatches sets the Lookup cap. Zero or negative disables the cap.
func WithMaxMatches(n int) Option {
	return func(v *Vocabulary) {
		v.maxMatches = n
	}
}

// NewVocabulary builds a vocabulary from terms. Terms with empty names are ignored.
func NewVocabulary(terms []Term, opts ...Option) *Vocabulary {
	v := &Vocabulary{
		terms:      make([]Term, 0, len(terms)),
		canonical:  make(map[string]string, len(terms)*2),
		maxMatches: DefaultMaxMatches,
	}
	for _, t := range terms {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := v.canonical[key]; dup {
			continue
		}
		t.Name = name
		v.terms = append(v.terms, t)
		v.canonical[key] = name
		for _, alias := range t.Aliases {
			aliasKey := strings.ToLower(strings.TrimSpace(alias))
			if aliasKey == "" {
				continue
			}
			if _, exists := v.canonical[aliasKey]; !exists {
				v.canonical[aliasKey] = name
			}
		}
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

var (
	defaultVocab     *Vocabulary
	defaultVocabOnce sync.Once
)

// Default returns the shared curated vocabulary.
func Default() *Vocabulary {
	defaultVocabOnce.Do(func() {
		defaultVocab = NewVocabulary(defaultTerms)
	})
	return defaultVocab
}

// MaxMatches returns the configured Lookup cap.
func (v *Vocabulary) MaxMatches() int {
	return v.maxMatches
}

// Terms returns canonical names in vocabulary order.
func (v *Vocabulary) Terms() []string {
	names := make([]string, len(v.terms))
	for i, t := range v.terms {
		names[i] = t.Name
	}
	return names
}

// Canonical maps a skill name or alias to its canonical spelling.
func (v *Vocabulary) Canonical(name string) (string, bool) {
	canonical, ok := v.canonical[strings.ToLower(strings.TrimSpace(name))]
	return canonical, ok
}

// Lookup returns the canonical skills contained in text, ordered by first occurrence,
// deduplicated and capped at MaxMatches.
func (v *Vocabulary) Lookup(text string) []string {
	return v.LookupN(text, v.maxMatches)
}

// LookupN is Lookup with an explicit cap. Zero or negative means no cap.
func (v *Vocabulary) LookupN(text string, limit int) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	lower := strings.ToLower(text)

	type hit struct {
		name string
		pos  int
	}
	hits := make([]hit, 0, 8)
	for _, t := range v.terms {
		pos := -1
		if t.CaseSensitive {
			pos = indexWord(text, t.Name)
		} else {
			pos = indexWord(lower, strings.ToLower(t.Name))
		}
		for _, alias := range t.Aliases {
			if p := indexWord(lower, strings.ToLower(alias)); p >= 0 && (pos < 0 || p < pos) {
				pos = p
			}
		}
		if pos >= 0 {
			hits = append(hits, hit{name: t.Name, pos: pos})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].pos < hits[j].pos
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	found := make([]string, len(hits))
	for i, h := range hits {
		found[i] = h.name
	}
	return found
}

// indexWord returns the byte offset of the first occurrence of word in text that is not
// embedded in a longer alphanumeric token, or -1.
func indexWord(text, word string) int {
	if word == "" {
		return -1
	}
	offset := 0
	for offset <= len(text)-len(word) {
		i := strings.Index(text[offset:], word)
		if i < 0 {
			return -1
		}
		start := offset + i
		end := start + len(word)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			return start
		}
		offset = start + 1
	}
	return -1
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	return !isWordByte(text[i-1])
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	return !isWordByte(text[i])
}

func isWordByte(b byte) bool {
	if b >= 0x80 {
		// Treat multi-byte runes as letters so "Gö" does not match "Go".
		return true
	}
	r := rune(b)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
