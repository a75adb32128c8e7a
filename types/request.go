package types

type IngestRequest struct {
	Text       string `json:"text"`
	SourceType string `json:"source_type,omitempty"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type HistoryRequest struct {
	Limit int64 `json:"limit,omitempty"`
}
