package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_CalorimetryTopics(t *testing.T) {
	c := Default()
	require.Equal(t, 5, c.Len())

	want := []string{
		"Adiabatic Calorimetry",
		"Exothermic Reactions and Temperature",
		"Water Equivalent of Calorimeter",
		"Limiting Reagent and Stoichiometry",
		"Heat of Dilution vs. Heat of Neutralization",
	}
	for i, name := range want {
		topic, ok := c.Topic(i)
		require.True(t, ok)
		assert.Equal(t, name, topic.Topic)
		assert.NotEmpty(t, topic.InitialQuestion)
		assert.NotEmpty(t, topic.KeyConcepts)
		assert.Len(t, topic.FollowUps, 2)
	}

	first, _ := c.Topic(0)
	assert.Equal(t, []string{"no heat exchange", "isolated system", "temperature change reflects heat of reaction"}, first.KeyConcepts)
	assert.Contains(t, first.InitialQuestion, "'adiabatic' means")
}

func TestTopic_OutOfRange(t *testing.T) {
	c := Default()
	_, ok := c.Topic(-1)
	assert.False(t, ok)
	_, ok = c.Topic(c.Len())
	assert.False(t, ok)
}

func TestCatalog_IsReadOnly(t *testing.T) {
	c := New(TopicRecord{Topic: "A", InitialQuestion: "q", KeyConcepts: []string{"k"}})

	got, _ := c.Topic(0)
	got.KeyConcepts[0] = "mutated"
	got.Topic = "B"

	again, _ := c.Topic(0)
	assert.Equal(t, "A", again.Topic)
	assert.Equal(t, "k", again.KeyConcepts[0])

	all := c.Topics()
	all[0].KeyConcepts[0] = "mutated"
	again, _ = c.Topic(0)
	assert.Equal(t, "k", again.KeyConcepts[0])
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty document", "topics: []\n"},
		{"missing question", "topics:\n  - topic: A\n    key_concepts: [k]\n"},
		{"no key concepts", "topics:\n  - topic: A\n    initial_question: q\n    key_concepts: []\n"},
		{"blank concept", "topics:\n  - topic: A\n    initial_question: q\n    key_concepts: ['  ']\n"},
		{"duplicate names", "topics:\n  - {topic: A, initial_question: q, key_concepts: [k]}\n  - {topic: a, initial_question: q, key_concepts: [k]}\n"},
		{"not yaml", "topics: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "topics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
topics:
  - topic: "  Specific Heat  "
    initial_question: Why does water warm slowly?
    key_concepts: [heat capacity]
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 1, c.Len())
	topic, _ := c.Topic(0)
	assert.Equal(t, "Specific Heat", topic.Topic, "names are trimmed")
	assert.Empty(t, topic.FollowUps)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
