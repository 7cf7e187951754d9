package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"

	"go.uber.org/zap"

	"github.com/settleconf/settle/logging"
)

const (
	// defaultAgentBaseURL is the fixed loopback endpoint of the co-located
	// retrieval agent.
	defaultAgentBaseURL = "http://localhost:2773"
	agentPath           = "/systemsmanager/parameters/get"

	authTokenHeader = "X-Auth-Token"
	keyIDHeader     = "X-Key-Id"
	sessionTokenVar = "AWS_SESSION_TOKEN"
)

// AgentClient fetches single parameters from the co-located retrieval agent.
// It never returns an error: any failure mode (connection refused, 404,
// malformed body) is reported as not-found and logged as a warning, so the
// caller can fall back to the store path.
type AgentClient struct {
	baseURL    string
	httpClient *http.Client
	token      func() string
	sink       *logging.Sink
}

// AgentOption configures an AgentClient.
type AgentOption func(*AgentClient)

// WithAgentBaseURL overrides the loopback endpoint, primarily for tests.
func WithAgentBaseURL(baseURL string) AgentOption {
	return func(c *AgentClient) {
		c.baseURL = baseURL
	}
}

// WithAgentHTTPClient overrides the HTTP client used for agent calls.
func WithAgentHTTPClient(client *http.Client) AgentOption {
	return func(c *AgentClient) {
		c.httpClient = client
	}
}

// WithAgentTokenSource overrides the source of the authentication token sent
// with every agent request.
func WithAgentTokenSource(token func() string) AgentOption {
	return func(c *AgentClient) {
		c.token = token
	}
}

// NewAgentClient constructs a client for the local retrieval agent. The
// authentication token defaults to the process session token.
func NewAgentClient(sink *logging.Sink, opts ...AgentOption) *AgentClient {
	c := &AgentClient{
		baseURL:    defaultAgentBaseURL,
		httpClient: http.DefaultClient,
		token: func() string {
			return os.Getenv(sessionTokenVar)
		},
		sink: sink,
	}
	if c.sink == nil {
		c.sink = logging.NewSink(nil)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// agentResponse is the payload shape returned by the retrieval agent.
type agentResponse struct {
	Parameter struct {
		Value *string `json:"Value"`
	} `json:"Parameter"`
}

// Get fetches one reference from the agent. The second return value is false
// when the parameter is absent or the agent could not be used.
func (c *AgentClient) Get(ctx context.Context, name, keyID string) (string, bool) {
	query := url.Values{}
	query.Set("name", name)
	query.Set("withDecryption", "true")
	endpoint := c.baseURL + agentPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.sink.Warn("local agent request could not be built",
			zap.String("ref", name), zap.Error(err))
		return "", false
	}
	req.Header.Set(authTokenHeader, c.token())
	if keyID != "" {
		req.Header.Set(keyIDHeader, keyID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.sink.Warn("local agent unreachable",
			zap.String("ref", name), zap.Error(err))
		return "", false
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.sink.Warn("local agent reports parameter not found",
			zap.String("ref", name))
		return "", false
	case resp.StatusCode != http.StatusOK:
		c.sink.Warn("local agent returned unexpected status",
			zap.String("ref", name), zap.Int("status", resp.StatusCode))
		return "", false
	}

	var payload agentResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.sink.Warn("local agent response could not be decoded",
			zap.String("ref", name), zap.Error(err))
		return "", false
	}
	if payload.Parameter.Value == nil || *payload.Parameter.Value == "" {
		c.sink.Warn("local agent response carries no parameter value",
			zap.String("ref", name))
		return "", false
	}
	return *payload.Parameter.Value, true
}
