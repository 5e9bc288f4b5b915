package entity

import "encoding/json"

type SynthesizeRequest struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

type SynthesizeResponse struct {
	Text string `json:"text"`
}

type StructuredGenerateRequest struct {
	Input  string          `json:"input"`
	Schema json.RawMessage `json:"schema"`
}

type StructuredGenerateResponse struct {
	Output json.RawMessage `json:"output"`
}

type RerankRequest struct {
	Query      string   `json:"query"`
	Candidates []string `json:"candidates"`
	TopN       int      `json:"top_n"`
}

// RerankScore re-scores candidate i of the rerank request.
type RerankScore struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

type RerankResponse struct {
	Scores []RerankScore `json:"scores"`
}
