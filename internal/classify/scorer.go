package classify

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Prediction is the scorer's verdict: the index of the predicted
// category in the model's vocabulary, plus its human-readable label.
type Prediction struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Scorer maps an image to exactly one category of a closed vocabulary.
// The model behind it is deliberately opaque.
type Scorer interface {
	Score(image io.Reader) (Prediction, error)
}

const defaultScorerTimeout = 30 * time.Second

// HTTPScorer delegates scoring to an inference endpoint: the JPEG is
// POSTed as-is and the endpoint answers with a JSON Prediction.
type HTTPScorer struct {
	endpoint string
	client   *http.Client
}

func NewHTTPScorer(endpoint string, timeout time.Duration) *HTTPScorer {
	if timeout <= 0 {
		timeout = defaultScorerTimeout
	}
	return &HTTPScorer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *HTTPScorer) Score(image io.Reader) (Prediction, error) {
	resp, err := s.client.Post(s.endpoint, "image/jpeg", image)
	if err != nil {
		return Prediction{}, fmt.Errorf("post image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Prediction{}, fmt.Errorf("scorer returned status %s", resp.Status)
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	return pred, nil
}
