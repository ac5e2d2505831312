package client

import (
	"context"

	"github.com/kpauljoseph/flashgen/pkg/models"
)

// Session binds the session-scoped operations to one session id.
type Session struct {
	c  *Client
	id string
}

func (c *Client) Session(id string) *Session {
	return &Session{c: c, id: id}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Generate(ctx context.Context, text string) (*models.FlashcardSet, error) {
	return s.c.GenerateFlashcards(ctx, s.id, text)
}

func (s *Session) Flashcards(ctx context.Context) (*models.FlashcardSet, error) {
	return s.c.GetFlashcards(ctx, s.id)
}

func (s *Session) Save(ctx context.Context, flashcards []models.Flashcard) (*models.MutationResult, error) {
	return s.c.SaveFlashcards(ctx, s.id, flashcards)
}

func (s *Session) Update(ctx context.Context, index int, question, answer string) (*models.MutationResult, error) {
	return s.c.UpdateFlashcard(ctx, s.id, index, question, answer)
}

func (s *Session) Delete(ctx context.Context, index int) (*models.MutationResult, error) {
	return s.c.DeleteFlashcard(ctx, s.id, index)
}

func (s *Session) Add(ctx context.Context, question, answer string) (*models.MutationResult, error) {
	return s.c.AddFlashcard(ctx, s.id, question, answer)
}

func (s *Session) Enhance(ctx context.Context, indices ...int) (*models.MutationResult, error) {
	return s.c.EnhanceFlashcards(ctx, s.id, indices...)
}

func (s *Session) Export(ctx context.Context, format string) (*models.Export, error) {
	return s.c.ExportFlashcards(ctx, s.id, format)
}
