package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PDAC95/japp/config"

	"github.com/google/uuid"
)

// ExtractionService talks to the AI food-extraction API. Its output is
// untrusted: every candidate list goes through ValidateMealData before
// anything reaches the database.
type ExtractionService struct {
	url    string
	apiKey string
	client *http.Client
}

func NewExtractionService(cfg *config.Config) *ExtractionService {
	return &ExtractionService{
		url:    cfg.ExtractionURL,
		apiKey: cfg.ExtractionAPIKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type extractionRequest struct {
	RequestID string   `json:"request_id"`
	Text      string   `json:"text,omitempty"`
	Labels    []string `json:"labels,omitempty"`
}

type extractionResponse struct {
	Foods   []FoodRecord `json:"foods"`
	Message string       `json:"message"`
}

// ExtractFromText asks the model to turn free text ("two eggs and
// toast") into food candidates, then validates and auto-corrects them.
func (s *ExtractionService) ExtractFromText(ctx context.Context, text string) (*ValidationResult, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	return s.extract(ctx, extractionRequest{RequestID: uuid.NewString(), Text: text})
}

// ExtractFromLabels does the same for image-recognition labels.
func (s *ExtractionService) ExtractFromLabels(ctx context.Context, labels []string) (*ValidationResult, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to extract from")
	}
	return s.extract(ctx, extractionRequest{RequestID: uuid.NewString(), Labels: labels})
}

func (s *ExtractionService) extract(ctx context.Context, payload extractionRequest) (*ValidationResult, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal extraction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call extraction API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read extraction response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("extraction API error %d: %s", resp.StatusCode, string(body))
	}

	var er extractionResponse
	if err := json.Unmarshal(body, &er); err != nil {
		return nil, fmt.Errorf("failed to parse extraction JSON: %w", err)
	}

	result := ValidateMealData(er.Foods, true)
	return &result, nil
}
