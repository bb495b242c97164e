package qa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"policyqa/internal/models"
)

// Client talks to the answering service over its JSON HTTP API. The
// service owns retrieval, ranking, and generation; this side only ships
// questions out and structured answers back.
type Client interface {
	Ask(ctx context.Context, question string) (*Answer, error)
	Stats(ctx context.Context) (*Stats, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*client)

// WithHTTPClient replaces the underlying HTTP client. The default client
// has no timeout: a hung request is settled by the transport or by the
// caller's context, never by a client-side deadline.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func NewClient(baseURL string, opts ...Option) Client {
	c := &client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type askRequest struct {
	Question string `json:"question"`
}

// Answer is the answering service's successful /api/ask payload. Absent
// sources/follow_ups arrays are normalized to empty slices.
type Answer struct {
	Answer     string          `json:"answer"`
	Sources    []models.Source `json:"sources"`
	FollowUps  []string        `json:"follow_ups"`
	Confidence float64         `json:"confidence"`
}

// Stats is the answering service's /api/stats payload.
type Stats struct {
	Documents      int      `json:"documents"`
	Chunks         int      `json:"chunks"`
	EmbeddingModel string   `json:"embedding_model"`
	LLMBackend     string   `json:"llm_backend"`
	IndexLoaded    bool     `json:"index_loaded"`
	DocNames       []string `json:"doc_names"`
}

// ServiceError is a non-2xx response from the answering service. Message
// holds the server-provided error text, empty when the body carried none.
// Transport failures are never represented as a ServiceError.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("qa: service returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("qa: service returned status %d: %s", e.StatusCode, e.Message)
}

func (c *client) Ask(ctx context.Context, question string) (*Answer, error) {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return nil, errors.Wrap(err, "qa: marshal ask request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ask", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "qa: create ask request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "qa: send ask request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serviceErrorFrom(resp)
	}

	var answer Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, errors.Wrap(err, "qa: decode ask response")
	}
	if answer.Sources == nil {
		answer.Sources = []models.Source{}
	}
	if answer.FollowUps == nil {
		answer.FollowUps = []string{}
	}

	log.Debug().
		Int("sources", len(answer.Sources)).
		Int("follow_ups", len(answer.FollowUps)).
		Float64("confidence", answer.Confidence).
		Msg("qa: answer received")

	return &answer, nil
}

func (c *client) Stats(ctx context.Context) (*Stats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/stats", nil)
	if err != nil {
		return nil, errors.Wrap(err, "qa: create stats request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "qa: send stats request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serviceErrorFrom(resp)
	}

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, errors.Wrap(err, "qa: decode stats response")
	}
	return &stats, nil
}

// serviceErrorFrom reads a failure body and extracts the contract's
// {"error": ...} field. A body that is not valid JSON yields a
// ServiceError with an empty message rather than a parse failure.
func serviceErrorFrom(resp *http.Response) error {
	svcErr := &ServiceError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return svcErr
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return svcErr
	}

	svcErr.Message = payload.Error
	return svcErr
}
