package huggingface

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

const summarizerModel = "facebook/bart-large-cnn"

// Hosted BART summaries get a fixed confidence reflecting the backend tier,
// not a measured quality score.
const summarizerConfidence = 0.8

// Summarizer implements domain.Summarizer via abstractive summarization.
type Summarizer struct {
	client *Client
}

// NewSummarizer creates a BART summarizer on top of client.
func NewSummarizer(client *Client) *Summarizer {
	return &Summarizer{client: client}
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (domain.SummaryResult, error) {
	payload := summaryRequest{Inputs: text}

	// The API returns a single-element array for single inputs.
	var resp []summaryResponse
	if err := s.client.post(ctx, summarizerModel, payload, &resp); err != nil {
		return domain.SummaryResult{}, err
	}
	if len(resp) == 0 {
		return domain.SummaryResult{}, fmt.Errorf("empty summarization response")
	}

	summary := strings.TrimSpace(resp[0].SummaryText)
	if summary == "" {
		return domain.SummaryResult{}, fmt.Errorf("summarization response missing summary_text")
	}

	return domain.SummaryResult{
		Summary:    summary,
		Confidence: summarizerConfidence,
		Source:     domain.SourceLive,
	}, nil
}

type summaryRequest struct {
	Inputs string `json:"inputs"`
}

type summaryResponse struct {
	SummaryText string `json:"summary_text"`
}
