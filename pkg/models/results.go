package models

type HealthStatus struct {
	Status        string `json:"status"`
	OCRAvailable  bool   `json:"ocr_available"`
	PPTXAvailable bool   `json:"pptx_available"`
	APIAvailable  bool   `json:"api_available"`
}

type UploadResult struct {
	SessionID       string `json:"session_id"`
	Filename        string `json:"filename"`
	TextLength      int    `json:"text_length"`
	FlashcardsCount int    `json:"flashcards_count"`
	HasText         bool   `json:"has_text"`
	HasFlashcards   bool   `json:"has_flashcards"`
}

// FlashcardSet is returned by the endpoints that hand back cards:
// generate, list and parse-text.
type FlashcardSet struct {
	Success    bool        `json:"success,omitempty"`
	SessionID  string      `json:"session_id,omitempty"`
	Filename   string      `json:"filename,omitempty"`
	Flashcards []Flashcard `json:"flashcards"`
	Count      int         `json:"count"`
}

// MutationResult is the acknowledgement of every write endpoint.
type MutationResult struct {
	Success   bool   `json:"success"`
	SessionID string `json:"session_id,omitempty"`
	Count     int    `json:"count,omitempty"`
}

// Export holds an exported deck exactly as the server sent it.
type Export struct {
	Data        []byte
	Filename    string
	ContentType string
}
