package models

import "strings"

type Flashcard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Valid reports whether both sides of the card carry text.
func (f Flashcard) Valid() bool {
	return strings.TrimSpace(f.Question) != "" && strings.TrimSpace(f.Answer) != ""
}

// ValidFlashcards returns the cards that pass Valid, preserving order.
func ValidFlashcards(cards []Flashcard) []Flashcard {
	valid := make([]Flashcard, 0, len(cards))
	for _, card := range cards {
		if card.Valid() {
			valid = append(valid, card)
		}
	}
	return valid
}

type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatTXT  ExportFormat = "txt"
	FormatTSV  ExportFormat = "tsv"
	FormatCSV  ExportFormat = "csv"
)

var ExportFormats = []ExportFormat{FormatJSON, FormatTXT, FormatTSV, FormatCSV}

// Known reports whether the server is known to accept the format.
func (f ExportFormat) Known() bool {
	for _, known := range ExportFormats {
		if f == known {
			return true
		}
	}
	return false
}
