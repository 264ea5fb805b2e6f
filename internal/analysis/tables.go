package analysis

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTablesYAML []byte

type concernRule struct {
	Category string   `yaml:"category"`
	Triggers []string `yaml:"triggers"`
}

type tablesFile struct {
	EmotionWeights map[string]float64  `yaml:"emotion_weights"`
	Concerns       []concernRule       `yaml:"concerns"`
	EmotionTips    map[string][]string `yaml:"emotion_tips"`
	ConcernTips    map[string][]string `yaml:"concern_tips"`
	Valence        struct {
		Negative []string `yaml:"negative"`
		Positive []string `yaml:"positive"`
	} `yaml:"valence"`
	GenericTips struct {
		Negative string `yaml:"negative"`
		Positive string `yaml:"positive"`
		Neutral  string `yaml:"neutral"`
	} `yaml:"generic_tips"`
}

// Tables holds the weight, keyword and tip tables. A Tables value is built
// once at startup and only read afterwards, so it is safe to share across
// requests.
type Tables struct {
	weights     map[string]float64
	concerns    []concernRule
	emotionTips map[string][]string
	concernTips map[string][]string
	negative    map[string]struct{}
	positive    map[string]struct{}

	genericNegative string
	genericPositive string
	genericNeutral  string
}

// DefaultTables parses the embedded tables.
func DefaultTables() (*Tables, error) {
	return ParseTables(defaultTablesYAML)
}

// LoadTables reads tables from path, or the embedded defaults when path is
// empty.
func LoadTables(path string) (*Tables, error) {
	if path == "" {
		return DefaultTables()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis tables: %w", err)
	}
	t, err := ParseTables(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	slog.Info("[Analysis] Loaded analysis tables", slog.String("path", path))
	return t, nil
}

// ParseTables decodes and validates YAML tables. Labels, categories and
// triggers are lower-cased.
func ParseTables(data []byte) (*Tables, error) {
	var f tablesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode analysis tables: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid analysis tables: %w", err)
	}

	t := &Tables{
		weights:         make(map[string]float64, len(f.EmotionWeights)),
		concerns:        make([]concernRule, 0, len(f.Concerns)),
		emotionTips:     lowerKeys(f.EmotionTips),
		concernTips:     lowerKeys(f.ConcernTips),
		negative:        labelSet(f.Valence.Negative),
		positive:        labelSet(f.Valence.Positive),
		genericNegative: strings.TrimSpace(f.GenericTips.Negative),
		genericPositive: strings.TrimSpace(f.GenericTips.Positive),
		genericNeutral:  strings.TrimSpace(f.GenericTips.Neutral),
	}
	for label, w := range f.EmotionWeights {
		t.weights[normalize(label)] = w
	}
	for _, c := range f.Concerns {
		rule := concernRule{Category: normalize(c.Category)}
		for _, trig := range c.Triggers {
			rule.Triggers = append(rule.Triggers, strings.ToLower(trig))
		}
		t.concerns = append(t.concerns, rule)
	}
	return t, nil
}

func (f *tablesFile) validate() error {
	var errs []error
	for label, w := range f.EmotionWeights {
		if math.IsNaN(w) || w < -1 || w > 1 {
			errs = append(errs, fmt.Errorf("weight for %q is %v, want [-1, 1]", label, w))
		}
	}

	seen := make(map[string]struct{}, len(f.Concerns))
	for i, c := range f.Concerns {
		name := normalize(c.Category)
		if name == "" {
			errs = append(errs, fmt.Errorf("concern %d has no category", i))
			continue
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("concern %q listed twice", name))
		}
		seen[name] = struct{}{}
		if slices.ContainsFunc(c.Triggers, func(s string) bool { return s == "" }) || len(c.Triggers) == 0 {
			errs = append(errs, fmt.Errorf("concern %q needs non-empty triggers", name))
		}
	}

	for _, table := range []map[string][]string{f.EmotionTips, f.ConcernTips} {
		for key, tips := range table {
			if slices.ContainsFunc(tips, func(s string) bool { return strings.TrimSpace(s) == "" }) {
				errs = append(errs, fmt.Errorf("empty tip under %q", key))
			}
		}
	}

	if strings.TrimSpace(f.GenericTips.Negative) == "" ||
		strings.TrimSpace(f.GenericTips.Positive) == "" ||
		strings.TrimSpace(f.GenericTips.Neutral) == "" {
		errs = append(errs, errors.New("generic_tips needs negative, positive and neutral entries"))
	}
	return errors.Join(errs...)
}

// Weight returns the mood weight for label, 0 for unknown labels.
func (t *Tables) Weight(label string) float64 {
	return t.weights[normalize(label)]
}

// Categories lists concern categories in table order.
func (t *Tables) Categories() []string {
	out := make([]string, len(t.concerns))
	for i, c := range t.concerns {
		out[i] = c.Category
	}
	return out
}

func (t *Tables) genericTip(dominant []string) string {
	if slices.ContainsFunc(dominant, t.isNegative) {
		return t.genericNegative
	}
	if slices.ContainsFunc(dominant, t.isPositive) {
		return t.genericPositive
	}
	return t.genericNeutral
}

func (t *Tables) isNegative(label string) bool {
	_, ok := t.negative[normalize(label)]
	return ok
}

func (t *Tables) isPositive(label string) bool {
	_, ok := t.positive[normalize(label)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func lowerKeys(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		k = normalize(k)
		for _, tip := range v {
			out[k] = append(out[k], strings.TrimSpace(tip))
		}
	}
	return out
}

func labelSet(labels []string) map[string]struct{} {
	out := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		out[normalize(l)] = struct{}{}
	}
	return out
}
