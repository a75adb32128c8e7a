package types

type DataResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type IngestResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type SearchResultItem struct {
	ID     string           `json:"id"`
	Score  float32          `json:"score"`
	Record *KnowledgeRecord `json:"record"`
}

type SearchResponse struct {
	Results []SearchResultItem `json:"results"`
}

type HistoryResponse struct {
	Entries []ArchiveEntry `json:"entries"`
}

// ImportSummary reports the outcome of a batch import run.
type ImportSummary struct {
	Succeeded int `json:"succeeded"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}
