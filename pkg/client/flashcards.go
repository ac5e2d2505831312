package client

import (
	"context"
	"mime"
	"net/http"
	"strconv"

	"github.com/kpauljoseph/flashgen/pkg/models"
)

const DefaultSeparator = ";"

type generateRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type saveRequest struct {
	SessionID  string             `json:"session_id"`
	Flashcards []models.Flashcard `json:"flashcards"`
}

type cardRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}

type enhanceRequest struct {
	SessionID string `json:"session_id"`
	Indices   []int  `json:"indices"`
}

type exportRequest struct {
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
}

type importRequest struct {
	Flashcards []models.Flashcard `json:"flashcards"`
}

type parseRequest struct {
	Text      string `json:"text"`
	Separator string `json:"separator"`
}

func (c *Client) HealthCheck(ctx context.Context) (*models.HealthStatus, error) {
	var out models.HealthStatus
	if _, err := c.do(c.request(ctx).SetResult(&out), http.MethodGet, "/health"); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateFlashcards asks the server to generate cards from text. An empty
// text makes the server fall back to the text extracted at upload.
func (c *Client) GenerateFlashcards(ctx context.Context, sessionID, text string) (*models.FlashcardSet, error) {
	var out models.FlashcardSet
	req := c.request(ctx).
		SetBody(generateRequest{SessionID: sessionID, Text: text}).
		SetResult(&out)
	if _, err := c.do(req, http.MethodPost, "/generate"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetFlashcards(ctx context.Context, sessionID string) (*models.FlashcardSet, error) {
	var out models.FlashcardSet
	req := c.request(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&out)
	if _, err := c.do(req, http.MethodGet, "/flashcards"); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveFlashcards replaces the session's whole card list.
func (c *Client) SaveFlashcards(ctx context.Context, sessionID string, flashcards []models.Flashcard) (*models.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, "/flashcards", saveRequest{
		SessionID:  sessionID,
		Flashcards: nonNil(flashcards),
	})
}

func (c *Client) UpdateFlashcard(ctx context.Context, sessionID string, index int, question, answer string) (*models.MutationResult, error) {
	return c.mutate(ctx, http.MethodPut, "/flashcards/"+strconv.Itoa(index), cardRequest{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
	})
}

func (c *Client) DeleteFlashcard(ctx context.Context, sessionID string, index int) (*models.MutationResult, error) {
	var out models.MutationResult
	req := c.request(ctx).
		SetQueryParam("session_id", sessionID).
		SetResult(&out)
	if _, err := c.do(req, http.MethodDelete, "/flashcards/"+strconv.Itoa(index)); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddFlashcard(ctx context.Context, sessionID, question, answer string) (*models.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, "/flashcards/add", cardRequest{
		SessionID: sessionID,
		Question:  question,
		Answer:    answer,
	})
}

// EnhanceFlashcards runs the server's enhancement pass. No indices means
// every card.
func (c *Client) EnhanceFlashcards(ctx context.Context, sessionID string, indices ...int) (*models.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, "/enhance", enhanceRequest{
		SessionID: sessionID,
		Indices:   nonNil(indices),
	})
}

// ExportFlashcards downloads the session's deck in format. The body is
// returned untouched whatever the format.
func (c *Client) ExportFlashcards(ctx context.Context, sessionID, format string) (*models.Export, error) {
	req := c.request(ctx).
		SetHeader("Accept", "*/*").
		SetBody(exportRequest{SessionID: sessionID, Format: format})
	resp, err := c.do(req, http.MethodPost, "/export")
	if err != nil {
		return nil, err
	}
	return &models.Export{
		Data:        resp.Body(),
		Filename:    attachmentName(resp.Header().Get("Content-Disposition")),
		ContentType: resp.Header().Get("Content-Type"),
	}, nil
}

func (c *Client) ImportJSON(ctx context.Context, flashcards []models.Flashcard) (*models.MutationResult, error) {
	return c.mutate(ctx, http.MethodPost, "/import-json", importRequest{Flashcards: nonNil(flashcards)})
}

// ParseText has the server split text into cards, one per line, question
// and answer divided by separator. An empty separator means ";".
func (c *Client) ParseText(ctx context.Context, text, separator string) (*models.FlashcardSet, error) {
	if separator == "" {
		separator = DefaultSeparator
	}
	var out models.FlashcardSet
	req := c.request(ctx).
		SetBody(parseRequest{Text: text, Separator: separator}).
		SetResult(&out)
	if _, err := c.do(req, http.MethodPost, "/parse-text"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) mutate(ctx context.Context, method, path string, body interface{}) (*models.MutationResult, error) {
	var out models.MutationResult
	if _, err := c.do(c.request(ctx).SetBody(body).SetResult(&out), method, path); err != nil {
		return nil, err
	}
	return &out, nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func attachmentName(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}
