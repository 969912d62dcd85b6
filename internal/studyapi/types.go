package studyapi

import (
	"context"

	"github.com/studybuddy/studybuddy/internal/mindmap"
	"github.com/studybuddy/studybuddy/internal/quiz"
)

// DocumentStatus is the backend's processing state for an uploaded document.
type DocumentStatus string

const (
	StatusPending    DocumentStatus = "pending"
	StatusProcessing DocumentStatus = "processing"
	StatusCompleted  DocumentStatus = "completed"
	StatusFailed     DocumentStatus = "failed"
)

// Document is one uploaded file as reported by the backend. Only documents
// whose extraction completed can feed generation requests.
type Document struct {
	ID              string         `json:"id"`
	FileName        string         `json:"file_name"`
	OriginalName    string         `json:"original_file_name"`
	SizeBytes       int64          `json:"file_size_bytes"`
	MimeType        string         `json:"mime_type"`
	FileType        string         `json:"file_type"`
	Category        string         `json:"category"`
	Status          DocumentStatus `json:"processing_status"`
	ExtractionError string         `json:"extraction_error"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

// DisplayName returns the name shown to the user, preferring the name the
// file was uploaded under.
func (d Document) DisplayName() string {
	if d.OriginalName != "" {
		return d.OriginalName
	}
	if d.FileName != "" {
		return d.FileName
	}
	return d.ID
}

// Ready reports whether text extraction finished for this document.
func (d Document) Ready() bool {
	return d.Status == StatusCompleted
}

// Card is one flashcard face pair.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Deck is a generated flashcard deck.
type Deck struct {
	Title    string `json:"title"`
	Cards    []Card `json:"cards"`
	Provider string `json:"provider,omitempty"`
}

// SummaryLength selects how long a document summary is.
type SummaryLength string

const (
	LengthShort  SummaryLength = "short"
	LengthMedium SummaryLength = "medium"
	LengthLong   SummaryLength = "long"
)

// GenerateQuizInput configures one quiz generation request.
type GenerateQuizInput struct {
	DocumentID   string
	NumQuestions int
	Mode         quiz.Mode
}

// GenerateMindmapInput configures one mind-map generation request.
type GenerateMindmapInput struct {
	DocumentID string
	MaxDepth   int
	MaxNodes   int
}

// ExplainTopicInput configures one branch-explanation request.
type ExplainTopicInput struct {
	DocumentID string
	Topic      string
	Size       mindmap.Size
}

// GenerateFlashcardsInput configures one flashcard generation request.
type GenerateFlashcardsInput struct {
	DocumentID string
	NumCards   int
}

// SummarizeInput configures one document summary request.
type SummarizeInput struct {
	DocumentID string
	Focus      string
	Length     SummaryLength
}

// Service is the backend surface the screens and commands program against.
// Implemented by Client, and by Mock in tests.
type Service interface {
	ListDocuments(ctx context.Context) ([]Document, error)
	GenerateQuiz(ctx context.Context, in GenerateQuizInput) (*quiz.Quiz, error)
	GradeFreeText(ctx context.Context, items []quiz.GradeItem) (map[string]float64, error)
	GenerateMindmap(ctx context.Context, in GenerateMindmapInput) (*mindmap.Map, error)
	ExplainTopic(ctx context.Context, in ExplainTopicInput) (string, error)
	GenerateFlashcards(ctx context.Context, in GenerateFlashcardsInput) (*Deck, error)
	Summarize(ctx context.Context, in SummarizeInput) (string, error)
}
