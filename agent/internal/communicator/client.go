package communicator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/relaydeck/agent/internal/sysinfo"
	"go.uber.org/zap"
)

// ErrRejected means the coordinator answered the call with a non-2xx
// status. For registration this is fatal; transport errors are not.
var ErrRejected = errors.New("communicator: request rejected by coordinator")

// Command is a queued shell command as delivered in a heartbeat response.
type Command struct {
	ID      string `json:"id"`
	AgentID string `json:"agentId"`
	Command string `json:"command"`
	Status  string `json:"status"`
}

type dispatchRequest struct {
	Type     string `json:"type"`
	ID       string `json:"id,omitempty"`
	Hostname string `json:"hostname,omitempty"`
	Platform string `json:"platform,omitempty"`
	Uptime   uint64 `json:"uptime,omitempty"`

	CommandID string `json:"commandId,omitempty"`
	Status    string `json:"status,omitempty"`
	Output    string `json:"output,omitempty"`
}

type RegisterResponse struct {
	Success bool `json:"success"`
	Agent   struct {
		ID       string `json:"id"`
		Hostname string `json:"hostname"`
		Platform string `json:"platform"`
	} `json:"agent"`
}

type HeartbeatResponse struct {
	Success  bool      `json:"success"`
	Commands []Command `json:"commands"`
}

type Client struct {
	coordinatorURL string
	agentID        string
	httpClient     *http.Client
	logger         *zap.Logger
}

type ClientConfig struct {
	CoordinatorURL string
	AgentID        string
	Timeout        time.Duration
	Logger         *zap.Logger
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		coordinatorURL: cfg.CoordinatorURL,
		agentID:        cfg.AgentID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: cfg.Logger,
	}
}

// Register announces this agent to the coordinator. A rejection (non-2xx)
// returns ErrRejected; transport failures return the underlying error.
func (c *Client) Register(facts *sysinfo.HostFacts) (*RegisterResponse, error) {
	req := dispatchRequest{
		Type:     "register",
		ID:       c.agentID,
		Hostname: facts.Hostname,
		Platform: facts.Platform,
	}

	var resp RegisterResponse
	if err := c.dispatch(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Heartbeat signals liveness and pulls all pending commands.
func (c *Client) Heartbeat(uptime uint64) (*HeartbeatResponse, error) {
	req := dispatchRequest{
		Type:   "heartbeat",
		ID:     c.agentID,
		Uptime: uptime,
	}

	var resp HeartbeatResponse
	if err := c.dispatch(req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ReportResult delivers the outcome of one executed command. Status must be
// "success" or "error".
func (c *Client) ReportResult(commandID, status, output string) error {
	req := dispatchRequest{
		Type:      "result",
		CommandID: commandID,
		Status:    status,
		Output:    output,
	}
	return c.dispatch(req, nil)
}

func (c *Client) dispatch(req dispatchRequest, out interface{}) error {
	start := time.Now()

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/agent/dispatch", c.coordinatorURL)
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("dispatch_network_error", zap.String("type", req.Type), zap.Error(err))
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("dispatch_response",
			zap.String("type", req.Type),
			zap.Int("status", resp.StatusCode),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
