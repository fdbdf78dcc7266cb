// Package catalog holds the ordered, read-only list of topics a learner
// works through.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed topics.yaml
var defaultTopicsYAML []byte

// TopicRecord describes one unit of the curriculum.
type TopicRecord struct {
	Topic           string   `yaml:"topic" validate:"required"`
	InitialQuestion string   `yaml:"initial_question" validate:"required"`
	KeyConcepts     []string `yaml:"key_concepts" validate:"min=1,dive,required"`
	// FollowUps are suggested prompts shown as hints; no logic reads them.
	FollowUps []string `yaml:"follow_ups" validate:"dive,required"`
}

type document struct {
	Topics []TopicRecord `yaml:"topics" validate:"min=1,dive"`
}

// Catalog is an immutable, ordered topic list. Accessors return copies so
// callers cannot mutate records.
type Catalog struct {
	topics []TopicRecord
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the embedded calorimetry catalog.
func Default() *Catalog {
	c, err := Parse(defaultTopicsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range doc.Topics {
		doc.Topics[i].normalize()
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", describe(err))
	}
	if err := checkUniqueNames(doc.Topics); err != nil {
		return nil, err
	}
	return New(doc.Topics...), nil
}

// New builds a catalog from records without validation. Intended for tests
// and programmatic construction.
func New(topics ...TopicRecord) *Catalog {
	c := &Catalog{topics: make([]TopicRecord, len(topics))}
	for i, t := range topics {
		c.topics[i] = t.clone()
	}
	return c
}

// Len returns the number of topics.
func (c *Catalog) Len() int {
	return len(c.topics)
}

// Topic returns the record at index i.
func (c *Catalog) Topic(i int) (TopicRecord, bool) {
	if i < 0 || i >= len(c.topics) {
		return TopicRecord{}, false
	}
	return c.topics[i].clone(), true
}

// Topics returns all records in order.
func (c *Catalog) Topics() []TopicRecord {
	out := make([]TopicRecord, len(c.topics))
	for i, t := range c.topics {
		out[i] = t.clone()
	}
	return out
}

func (t *TopicRecord) normalize() {
	t.Topic = strings.TrimSpace(t.Topic)
	t.InitialQuestion = strings.TrimSpace(t.InitialQuestion)
	for i := range t.KeyConcepts {
		t.KeyConcepts[i] = strings.TrimSpace(t.KeyConcepts[i])
	}
	for i := range t.FollowUps {
		t.FollowUps[i] = strings.TrimSpace(t.FollowUps[i])
	}
}

func (t TopicRecord) clone() TopicRecord {
	t.KeyConcepts = append([]string(nil), t.KeyConcepts...)
	t.FollowUps = append([]string(nil), t.FollowUps...)
	return t
}

func checkUniqueNames(topics []TopicRecord) error {
	seen := make(map[string]int, len(topics))
	for i, t := range topics {
		key := strings.ToLower(t.Topic)
		if j, ok := seen[key]; ok {
			return fmt.Errorf("validate catalog: topic %q appears at %d and %d", t.Topic, j, i)
		}
		seen[key] = i
	}
	return nil
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}
