package entity

// ParsedPage is one page of the parse service result, markdown per page.
type ParsedPage struct {
	Page     int    `json:"page"`
	Markdown string `json:"md"`
}

type ParseDocumentResponse struct {
	Pages []ParsedPage `json:"pages"`
}
