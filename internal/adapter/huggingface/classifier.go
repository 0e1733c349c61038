package huggingface

import (
	"context"
	"fmt"

	"github.com/couchcryptid/disaster-alert-service/internal/domain"
)

const classifierModel = "facebook/bart-large-mnli"

// Classifier implements domain.Classifier via zero-shot classification:
// the report text is scored against the closed disaster-type candidate set
// and the highest-scoring label wins.
type Classifier struct {
	client *Client
}

// NewClassifier creates a zero-shot classifier on top of client.
func NewClassifier(client *Client) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.ClassificationResult, error) {
	labels := make([]string, len(domain.DisasterTypes))
	for i, t := range domain.DisasterTypes {
		labels[i] = string(t)
	}

	payload := classifyRequest{
		Inputs: text,
		Parameters: classifyParameters{
			CandidateLabels: labels,
		},
	}

	var resp classifyResponse
	if err := c.client.post(ctx, classifierModel, payload, &resp); err != nil {
		return domain.ClassificationResult{}, err
	}
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Scores) {
		return domain.ClassificationResult{}, fmt.Errorf("classification response has %d labels and %d scores", len(resp.Labels), len(resp.Scores))
	}

	scores := make(map[domain.DisasterType]float64, len(resp.Labels))
	best := 0
	for i, label := range resp.Labels {
		disasterType := domain.DisasterType(label)
		if !disasterType.Valid() {
			return domain.ClassificationResult{}, fmt.Errorf("unexpected label %q in classification response", label)
		}
		scores[disasterType] = resp.Scores[i]
		if resp.Scores[i] > resp.Scores[best] {
			best = i
		}
	}

	return domain.ClassificationResult{
		DisasterType: domain.DisasterType(resp.Labels[best]),
		Confidence:   resp.Scores[best],
		Scores:       scores,
		Source:       domain.SourceLive,
	}, nil
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}
