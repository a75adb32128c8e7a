package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() *KnowledgeRecord {
	name := "Weekly sync"
	return &KnowledgeRecord{
		CoreContent: CoreContent{
			Title:        "Weekly report reminder",
			Summary:      "The weekly report must be sent tomorrow.",
			OriginalText: "یادداشت: باید گزارش هفتگی را فردا ارسال کنم",
		},
		SourceAndContext: SourceAndContext{
			SourceType: "Telegram Text Message",
			SourceName: &name,
		},
		Categorization: Categorization{
			PrimaryDomain:   "Productivity",
			TagsAndKeywords: []string{"report", "deadline"},
			Entities:        []string{},
		},
		Actionability: Actionability{
			ActionabilityType: "Actionable Task",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		assert.NoError(t, validRecord().Validate())
	})

	t.Run("empty title rejected", func(t *testing.T) {
		r := validRecord()
		r.CoreContent.Title = "  "
		assert.Error(t, r.Validate())
	})

	t.Run("empty summary rejected", func(t *testing.T) {
		r := validRecord()
		r.CoreContent.Summary = ""
		assert.Error(t, r.Validate())
	})

	t.Run("out-of-vocabulary source type rejected", func(t *testing.T) {
		r := validRecord()
		r.SourceAndContext.SourceType = "Telepathy"
		assert.Error(t, r.Validate())
	})

	t.Run("out-of-vocabulary domain rejected", func(t *testing.T) {
		r :=
			validRecord()
		r.Categorization.PrimaryDomain = "Cooking"
		assert.Error(t, r.Validate())
	})

	t.Run("out-of-vocabulary actionability rejected", func(t *testing.T) {
		r := validRecord()
		r.Actionability.ActionabilityType = "Urgent"
		assert.Error(t, r.Validate())
	})
}

func TestFlattenRoundTrip(t *testing.T) {
	t.Run("all fields", func(t *testing.T) {
		author := "Naval"
		desc := "Send the report"
		original := validRecord()
		original.SourceAndContext.SourceAuthorOrCreator = &author
		original.Actionability.ActionItemDescription = &desc
		original.Categorization.Entities = []string{"گزارش هفتگی", "office"}

		meta, err := original.Flatten()
		require.NoError(t, err)
		restored, err := RecordFromFlat(meta)
		require.NoError(t, err)
		assert.Equal(t, original, restored)
	})

	t.Run("absent nullable fields stay nil", func(t *testing.T) {
		original := validRecord()
		original.SourceAndContext.SourceName = nil

		meta, err := original.Flatten()
		require.NoError(t, err)
		_, hasName := meta[MetaSourceName]
		assert.False(t, hasName)

		restored, err := RecordFromFlat(meta)
		require.NoError(t, err)
		assert.Nil(t, restored.SourceAndContext.SourceName)
		assert.Nil(t, restored.Actionability.ActionItemDescription)
		assert.Equal(t, original, restored)
	})

	t.Run("lists are JSON-encoded strings", func(t *testing.T) {
		meta, err := validRecord().Flatten()
		require.NoError(t, err)
		assert.JSONEq(t, `["report","deadline"]`, meta[MetaTags])
		assert.JSONEq(t, `[]`, meta[MetaEntities])
	})
}

func TestEmbeddingText(t *testing.T) {
	r := validRecord()

	withTags := r.EmbeddingText(true)
	assert.Contains(t, withTags, r.CoreContent.Title)
	assert.Contains(t, withTags, r.CoreContent.Summary)
	assert.Contains(t, withTags, "report, deadline")
	// The full original text stays out of the embedded representation.
	assert.NotContains(t, withTags, r.CoreContent.OriginalText)

	withoutTags := r.EmbeddingText(false)
	assert.NotContains(t, withoutTags, "deadline")
}
