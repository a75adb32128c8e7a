package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// KnowledgeRecord is the canonical structured unit every ingested item is
// converted into before it reaches storage.
type KnowledgeRecord struct {
	CoreContent      CoreContent      `json:"core_content"`
	SourceAndContext SourceAndContext `json:"source_and_context"`
	Categorization   Categorization   `json:"categorization"`
	Actionability    Actionability    `json:"actionability"`
}

type CoreContent struct {
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	OriginalText string `json:"original_text"`
}

type SourceAndContext struct {
	SourceType            string  `json:"source_type"`
	SourceName            *string `json:"source_name"`
	SourceAuthorOrCreator *string `json:"source_author_or_creator"`
}

type Categorization struct {
	PrimaryDomain   string   `json:"primary_domain"`
	TagsAndKeywords []string `json:"tags_and_keywords"`
	Entities        []string `json:"entities"`
}

type Actionability struct {
	ActionabilityType     string  `json:"actionability_type"`
	ActionItemDescription *string `json:"action_item_description"`
}

// Closed vocabularies. The structuring model is instructed to pick from these
// and Validate rejects anything else.
var (
	SourceTypes = []string{
		"Book",
		"Podcast",
		"Article",
		"Video",
		"Conversation",
		"Personal Thought",
		"Screenshot",
		"Voice Note",
		"Telegram Text Message",
		"Text File",
		"Audio File",
		"Web Text Message",
		"Unknown",
	}

	PrimaryDomains = []string{
		"Technology",
		"Science",
		"Business",
		"Health",
		"Productivity",
		"Finance",
		"Relationships",
		"Arts",
		"Philosophy",
		"Daily Life",
		"Other",
	}

	ActionabilityTypes = []string{
		"Actionable Task",
		"Reference",
		"Idea",
		"Journal Entry",
		"None",
	}
)

func inVocabulary(value string, vocab []string) bool {
	for _, v := range vocab {
		if v == value {
			return true
		}
	}
	return false
}

// Validate checks the record against the schema invariants: mandatory core
// content and enum fields drawn from the closed vocabularies.
func (r *KnowledgeRecord) Validate() error {
	if strings.TrimSpace(r.CoreContent.Title) == "" {
		return fmt.Errorf("knowledge record has empty title")
	}
	if strings.TrimSpace(r.CoreContent.Summary) == "" {
		return fmt.Errorf("knowledge record has empty summary")
	}
	if r.CoreContent.OriginalText == "" {
		return fmt.Errorf("knowledge record has empty original text")
	}
	if !inVocabulary(r.SourceAndContext.SourceType, SourceTypes) {
		return fmt.Errorf("source type %q is not in the vocabulary", r.SourceAndContext.SourceType)
	}
	if !inVocabulary(r.Categorization.PrimaryDomain, PrimaryDomains) {
		return fmt.Errorf("primary domain %q is not in the vocabulary", r.Categorization.PrimaryDomain)
	}
	if !inVocabulary(r.Actionability.ActionabilityType, ActionabilityTypes) {
		return fmt.Errorf("actionability type %q is not in the vocabulary", r.Actionability.ActionabilityType)
	}
	return nil
}

// EmbeddingText builds the compact text the document embedding is computed
// over: title and summary, optionally followed by the tags.
func (r *KnowledgeRecord) EmbeddingText(includeTags bool) string {
	parts := []string{r.CoreContent.Title, r.CoreContent.Summary}
	if includeTags && len(r.Categorization.TagsAndKeywords) > 0 {
		parts = append(parts, strings.Join(r.Categorization.TagsAndKeywords, ", "))
	}
	return strings.Join(parts, "\n")
}

// Metadata keys used by the flat store representation.
const (
	MetaTitle         = "title"
	MetaSummary       = "summary"
	MetaOriginalText  = "original_text"
	MetaSourceType    = "source_type"
	MetaSourceName    = "source_name"
	MetaSourceAuthor  = "source_author_or_creator"
	MetaPrimaryDomain = "primary_domain"
	MetaTags          = "tags_and_keywords"
	MetaEntities      = "entities"
	MetaActionType    = "actionability_type"
	MetaActionDesc    = "action_item_description"
)

// Flatten converts the record into a flat string-keyed map for stores that do
// not support nested metadata. List values are JSON-encoded; absent nullable
// fields are omitted from the map.
func (r *KnowledgeRecord) Flatten() (map[string]string, error) {
	meta := map[string]string{
		MetaTitle:         r.CoreContent.Title,
		MetaSummary:       r.CoreContent.Summary,
		MetaOriginalText:  r.CoreContent.OriginalText,
		MetaSourceType:    r.SourceAndContext.SourceType,
		MetaPrimaryDomain: r.Categorization.PrimaryDomain,
		MetaActionType:    r.Actionability.ActionabilityType,
	}
	if r.SourceAndContext.SourceName != nil {
		meta[MetaSourceName] = *r.SourceAndContext.SourceName
	}
	if r.SourceAndContext.SourceAuthorOrCreator != nil {
		meta[MetaSourceAuthor] = *r.SourceAndContext.SourceAuthorOrCreator
	}
	if r.Actionability.ActionItemDescription != nil {
		meta[MetaActionDesc] = *r.Actionability.ActionItemDescription
	}
	tags, err := json.Marshal(r.Categorization.TagsAndKeywords)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	meta[MetaTags] = string(tags)
	entities, err := json.Marshal(r.Categorization.Entities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entities: %w", err)
	}
	meta[MetaEntities] = string(entities)
	return meta, nil
}

// RecordFromFlat is the inverse of Flatten. The round trip is lossless for
// well-formed records.
func RecordFromFlat(meta map[string]string) (*KnowledgeRecord, error) {
	record := &KnowledgeRecord{
		CoreContent: CoreContent{
			Title:        meta[MetaTitle],
			Summary:      meta[MetaSummary],
			OriginalText: meta[MetaOriginalText],
		},
		SourceAndContext: SourceAndContext{
			SourceType: meta[MetaSourceType],
		},
		Categorization: Categorization{
			PrimaryDomain: meta[MetaPrimaryDomain],
		},
		Actionability: Actionability{
			ActionabilityType: meta[MetaActionType],
		},
	}
	if v, ok := meta[MetaSourceName]; ok {
		record.SourceAndContext.SourceName = &v
	}
	if v, ok := meta[MetaSourceAuthor]; ok {
		record.SourceAndContext.SourceAuthorOrCreator = &v
	}
	if v, ok := meta[MetaActionDesc]; ok {
		record.Actionability.ActionItemDescription = &v
	}
	if v, ok := meta[MetaTags]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &record.Categorization.TagsAndKeywords); err != nil {
			return nil, fmt.Errorf("failed to decode tags: %w", err)
		}
	}
	if v, ok := meta[MetaEntities]; ok && v != "" {
		if err := json.Unmarshal([]byte(v), &record.Categorization.Entities); err != nil {
			return nil, fmt.Errorf("failed to decode entities: %w", err)
		}
	}
	return record, nil
}

// ArchiveEntry is one row of the ingestion journal kept in MongoDB.
type ArchiveEntry struct {
	ID          string `bson:"_id" json:"id"`
	KnowledgeID string `bson:"knowledge_id" json:"knowledge_id"`
	Title       string `bson:"title" json:"title"`
	Summary     string `bson:"summary" json:"summary"`
	SourceType  string `bson:"source_type" json:"source_type"`
	CreatedAt   int64  `bson:"created_at" json:"created_at"`
}
