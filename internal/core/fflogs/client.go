// Package fflogs executes FF Logs v2 GraphQL queries under the shared hourly
// point budget.
package fflogs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fulmenhq/gofulmen/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fightpath/fightpath/internal/core"
	"github.com/fightpath/fightpath/internal/core/engine"
	"github.com/fightpath/fightpath/internal/metrics"
)

const (
	// DefaultEndpoint is the public client API endpoint.
	DefaultEndpoint = "https://www.fflogs.com/api/v2/client"
	// DefaultUserAgent identifies the client to the API.
	DefaultUserAgent = "fightpath"

	maxResponseBytes = 64 << 20
)

// Client sends GraphQL queries with a bearer token.
type Client struct {
	Endpoint   string
	Token      string
	UserAgent  string
	HTTPClient *http.Client
	// Gate serializes queries against one point budget; nil applies the
	// default threshold without serialization.
	Gate   *engine.QuotaGate
	Logger *logging.Logger
}

type request struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName,omitempty"`
	Variables     any    `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// Execute runs q with variables and returns its decoded data. When the
// response reports a low point budget, Execute waits for the reset before
// returning.
func Execute[T any](ctx context.Context, c *Client, q Query[T], variables any) (*T, error) {
	if c == nil {
		return nil, errors.New("fflogs client is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var out *T
	err := c.Gate.Do(ctx, func(ctx context.Context) (*core.QuotaSnapshot, error) {
		started := time.Now()
		data, err := c.send(ctx, q.Name(), q.Document(), variables)
		if err != nil {
			metrics.RecordQuery(q.Name(), queryStatus(err), time.Since(started))
			return nil, err
		}

		var decoded T
		if err := json.Unmarshal(data, &decoded); err != nil {
			err = violation(q.Name(), fmt.Sprintf("decode data: %v", err))
			metrics.RecordQuery(q.Name(), queryStatus(err), time.Since(started))
			return nil, err
		}
		metrics.RecordQuery(q.Name(), "ok", time.Since(started))

		out = &decoded
		return q.Quota(&decoded), nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// send posts one query and returns the raw data member of the response.
func (c *Client) send(ctx context.Context, name, document string, variables any) (json.RawMessage, error) {
	body, err := json.Marshal(request{Query: document, OperationName: name, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Query: name, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	queryID := uuid.New().String()
	if c.Logger != nil {
		c.Logger.Debug("Sending query",
			zap.String("query", name),
			zap.String("query_id", queryID))
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Query: name, Err: err}
	}
	defer resp.Body.Close() // nolint:errcheck // best-effort cleanup on HTTP response body

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Query: name, StatusCode: resp.StatusCode, Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if decodeErr == nil && len(env.Errors) > 0 {
		messages := make([]string, 0, len(env.Errors))
		for _, e := range env.Errors {
			messages = append(messages, e.Message)
		}
		if c.Logger != nil {
			c.Logger.Warn("Query returned errors",
				zap.String("query", name),
				zap.String("query_id", queryID),
				zap.Int("errors", len(messages)))
		}
		return nil, &APIError{Query: name, Messages: messages}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Query: name, StatusCode: resp.StatusCode}
	}
	if decodeErr != nil {
		return nil, &TransportError{Query: name, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil, violation(name, "response has neither data nor errors")
	}

	return env.Data, nil
}

func (c *Client) endpoint() string {
	if c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient == nil {
		return &http.Client{Timeout: 30 * time.Second}
	}
	return c.HTTPClient
}

func queryStatus(err error) string {
	var apiErr *APIError
	var protoErr *ProtocolViolationError
	switch {
	case errors.As(err, &apiErr):
		return "api_error"
	case errors.As(err, &protoErr):
		return "protocol_violation"
	default:
		return "transport_error"
	}
}
