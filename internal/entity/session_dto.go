package entity

import "time"

type CreateSessionRequest struct {
	URL         string `json:"url"`
	Requirement string `json:"requirement"`
}

type SessionDTO struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Cards       []CardDTO `json:"cards"`
	// GeneratedCards is the generation output as it was persisted with
	// the session; editing or deleting card rows never changes it.
	GeneratedCards []StudyCard `json:"generated_cards"`
	CreatedAt      time.Time   `json:"created_at"`
}

type CardDTO struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	State     CardState `json:"state"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateCardRequest struct {
	State CardState `json:"state"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ResultFormat selects the export rendering of a session.
type ResultFormat string

const (
	FormatMarkdown ResultFormat = "md"
	FormatPDF      ResultFormat = "pdf"
	FormatDOCX     ResultFormat = "docx"
)
