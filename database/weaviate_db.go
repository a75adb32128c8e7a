package database

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/tieubaoca/second-brain-be/config"
	"github.com/tieubaoca/second-brain-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// knowledgeClass builds the schema object for the knowledge collection.
// Vectorizer is "none": embeddings are computed by the embedding client and
// supplied explicitly on every write and search.
func knowledgeClass(name string) *models.Class {
	return &models.Class{
		Class: name,
		Properties: []*models.Property{
			{Name: "title", DataType: []string{"text"}},
			{Name: "summary", DataType: []string{"text"}},
			{Name: "originalText", DataType: []string{"text"}},
			{Name: "sourceType", DataType: []string{"text"}},
			{Name: "sourceName", DataType: []string{"text"}},
			{Name: "sourceAuthor", DataType: []string{"text"}},
			{Name: "primaryDomain", DataType: []string{"text"}},
			{Name: "tags", DataType: []string{"text[]"}},
			{Name: "entities", DataType: []string{"text[]"}},
			{Name: "actionabilityType", DataType: []string{"text"}},
			{Name: "actionDescription", DataType: []string{"text"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}
}

type WeaviateStore struct {
	client    *weaviate.Client
	className string
}

// NewWeaviateStore connects to Weaviate and performs the one-time, idempotent
// schema check: the knowledge class is created if it does not exist yet.
func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")
	wcfg := weaviate.Config{
		Host:   host,
		Scheme: scheme,
	}
	if cfg.APIKey != "" {
		wcfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
		wcfg.Headers = map[string]string{
			"X-Weaviate-Api-Key":     cfg.APIKey,
			"X-Weaviate-Cluster-Url": fmt.Sprintf("%s://%s", scheme, host),
		}
	}
	client, err := weaviate.NewClient(wcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %w", err)
	}

	store := &WeaviateStore{
		client:    client,
		className: cfg.ClassName,
	}
	if err := store.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(knowledgeClass(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.className, err)
	}
	return nil
}

// ReInit drops and recreates the knowledge class. All stored entries are lost.
func (s *WeaviateStore) ReInit() error {
	err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to delete class %s: %w", s.className, err)
	}
	err = s.client.Schema().ClassCreator().WithClass(knowledgeClass(s.className)).Do(context.Background())
	if err != nil {
		return fmt.Errorf("failed to create class %s: %w", s.className, err)
	}
	return nil
}

// Upsert writes the record and its vector as one unit under a freshly
// generated identifier. There is no retry; the caller sees the first error.
func (s *WeaviateStore) Upsert(ctx context.Context, record *types.KnowledgeRecord, vector []float32) (string, error) {
	id := uuid.NewString()
	properties := map[string]interface{}{
		"title":             record.CoreContent.Title,
		"summary":           record.CoreContent.Summary,
		"originalText":      record.CoreContent.OriginalText,
		"sourceType":        record.SourceAndContext.SourceType,
		"primaryDomain":     record.Categorization.PrimaryDomain,
		"tags":              record.Categorization.TagsAndKeywords,
		"entities":          record.Categorization.Entities,
		"actionabilityType": record.Actionability.ActionabilityType,
	}
	if record.SourceAndContext.SourceName != nil {
		properties["sourceName"] = *record.SourceAndContext.SourceName
	}
	if record.SourceAndContext.SourceAuthorOrCreator != nil {
		properties["sourceAuthor"] = *record.SourceAndContext.SourceAuthorOrCreator
	}
	if record.Actionability.ActionItemDescription != nil {
		properties["actionDescription"] = *record.Actionability.ActionItemDescription
	}

	_, err := s.client.Data().Creator().
		WithClassName(s.className).
		WithID(id).
		WithProperties(properties).
		WithVector(vector).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to upsert knowledge entry: %w", err)
	}
	return id, nil
}

// Search runs a nearest-neighbour query over the supplied vector. An empty
// vector short-circuits to an empty result without touching the network.
func (s *WeaviateStore) Search(ctx context.Context, vector []float32, topK int) ([]SearchMatch, error) {
	if len(vector) == 0 {
		return nil, nil
	}

	fields := []graphql.Field{
		{Name: "title"},
		{Name: "summary"},
		{Name: "originalText"},
		{Name: "sourceType"},
		{Name: "sourceName"},
		{Name: "sourceAuthor"},
		{Name: "primaryDomain"},
		{Name: "tags"},
		{Name: "entities"},
		{Name: "actionabilityType"},
		{Name: "actionDescription"},
		{Name: "_additional", Fields: []graphql.Field{{Name: "certainty"}, {Name: "id"}}},
	}

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	result, err := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(fields...).
		WithNearVector(nearVector).
		WithLimit(topK).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("search failed: %v", result.Errors[0].Message)
	}

	var matches []SearchMatch
	data, ok := result.Data["Get"].(map[string]interface{})[s.className].([]interface{})
	if !ok {
		return matches, nil
	}
	for _, item := range data {
		props, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		match := SearchMatch{
			Record: recordFromProperties(props),
		}
		if additional, ok := props["_additional"].(map[string]interface{}); ok {
			if id, ok := additional["id"].(string); ok {
				match.ID = id
			}
			if certainty, ok := additional["certainty"].(float64); ok {
				// certainty = (1 + cosine) / 2 for cosine-distance classes
				match.Score = float32(2*certainty - 1)
			}
		}
		matches = append(matches, match)
	}
	log.Printf("Knowledge search returned %d matches", len(matches))
	return matches, nil
}

func recordFromProperties(props map[string]interface{}) *types.KnowledgeRecord {
	record := &types.KnowledgeRecord{
		CoreContent: types.CoreContent{
			Title:        asString(props["title"]),
			Summary:      asString(props["summary"]),
			OriginalText: asString(props["originalText"]),
		},
		SourceAndContext: types.SourceAndContext{
			SourceType:            asString(props["sourceType"]),
			SourceName:            asStringPtr(props["sourceName"]),
			SourceAuthorOrCreator: asStringPtr(props["sourceAuthor"]),
		},
		Categorization: types.Categorization{
			PrimaryDomain:   asString(props["primaryDomain"]),
			TagsAndKeywords: parseStringArray(props["tags"]),
			Entities:        parseStringArray(props["entities"]),
		},
		Actionability: types.Actionability{
			ActionabilityType:     asString(props["actionabilityType"]),
			ActionItemDescription: asStringPtr(props["actionDescription"]),
		},
	}
	return record
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringPtr(v interface{}) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func parseStringArray(v interface{}) []string {
	if v == nil {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	result := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
