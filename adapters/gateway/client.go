// Package gateway implements the HTTP client for the execution
// gateway: JSON-RPC submission plus the REST metadata services.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/layer-3/rangda/core"
	"github.com/layer-3/rangda/ports"
)

const (
	authenticatePath = "/api/oc/v1/authenticate"
	gasValuesPath    = "/api/oc/v1/gas-values"
	networksPath     = "/api/oc/v1/supported/networks"
	ordersPath       = "/api/oc/v1/orders"
	rpcPath          = "/rpc"
)

// rpcRequest is the JSON-RPC envelope for the execute endpoint. Every
// request carries a fresh UUID id.
type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	ID      string        `json:"id"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// envelope is the REST response wrapper used by the metadata services.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error,omitempty"`
}

// authRequest wraps the session-authorization payload for the
// authentication service.
type authRequest struct {
	Data            *core.AuthPayload `json:"data"`
	ClientSignature string            `json:"client_signature"`
	Type            string            `json:"type"`
}

// Client talks to the gateway over HTTP. It performs no retries:
// submission is not idempotent and the retry decision belongs to the
// caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a gateway client for the given base URL. A nil
// httpClient gets a 30 second timeout default.
func NewClient(baseURL string, httpClient *http.Client) ports.Gateway {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Authenticate submits the auth payload wrapped as
// {data, client_signature, type: "ethsign"}.
func (c *Client) Authenticate(ctx context.Context, payload *core.AuthPayload, clientSignature string) (*core.AuthResult, error) {
	body := authRequest{Data: payload, ClientSignature: clientSignature, Type: "ethsign"}

	env, err := c.postJSON(ctx, c.baseURL+authenticatePath, "", body)
	if err != nil {
		return nil, err
	}

	var result core.AuthResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed authentication response: %v", core.ErrGateway, err)
	}
	if result.UserSWA == "" || result.AuthToken == "" {
		return nil, fmt.Errorf("%w: authentication response missing userSWA or authToken", core.ErrGateway)
	}
	return &result, nil
}

// Execute sends the signed operation as a JSON-RPC execute call and
// returns the job id.
func (c *Client) Execute(ctx context.Context, op *core.UserOperation, authToken string) (string, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  "execute",
		ID:      uuid.New().String(),
		Params:  []interface{}{op},
	}

	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+rpcPath, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", core.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: gateway returned %d: %s", core.ErrAuthorization, resp.StatusCode, respBody)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return "", fmt.Errorf("%w: status %d: %s", core.ErrGateway, resp.StatusCode, respBody)
	}
	if len(rpcResp.Error) > 0 {
		// Surface the remote error payload verbatim.
		return "", fmt.Errorf("%w: %s", core.ErrGateway, rpcResp.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", core.ErrGateway, resp.StatusCode, respBody)
	}

	var result struct {
		JobID string `json:"jobId"`
	}
	if err := json.Unmarshal(rpcResp.Result, &result); err != nil || result.JobID == "" {
		return "", fmt.Errorf("%w: result missing jobId: %s", core.ErrGateway, rpcResp.Result)
	}
	return result.JobID, nil
}

// GasPrice fetches the current fee quote. Both fee fields must be
// present; an incomplete quote is an error, not a zero.
func (c *Client) GasPrice(ctx context.Context, authToken string) (*core.GasPrice, error) {
	env, err := c.getJSON(ctx, c.baseURL+gasValuesPath, authToken)
	if err != nil {
		return nil, err
	}

	var price core.GasPrice
	if err := json.Unmarshal(env.Data, &price); err != nil {
		return nil, fmt.Errorf("%w: malformed gas price response: %v", core.ErrGasPriceUnavailable, err)
	}
	if price.MaxFeePerGas == "" || price.MaxPriorityFeePerGas == "" {
		return nil, fmt.Errorf("%w: incomplete gas price quote", core.ErrGasPriceUnavailable)
	}
	return &price, nil
}

// SupportedChains fetches the chain registry records visible to the
// registered client.
func (c *Client) SupportedChains(ctx context.Context, authToken string) ([]core.Chain, error) {
	env, err := c.getJSON(ctx, c.baseURL+networksPath, authToken)
	if err != nil {
		return nil, err
	}

	var data struct {
		Network []core.Chain `json:"network"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed network response: %v", core.ErrGateway, err)
	}
	return data.Network, nil
}

// Orders fetches the order records for one intent id.
func (c *Client) Orders(ctx context.Context, authToken, intentID string, intentType core.IntentType) ([]core.Order, error) {
	q := url.Values{}
	q.Set("intent_id", intentID)
	q.Set("intent_type", string(intentType))

	env, err := c.getJSON(ctx, c.baseURL+ordersPath+"?"+q.Encode(), authToken)
	if err != nil {
		return nil, err
	}

	var data struct {
		Items []core.Order `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed orders response: %v", core.ErrGateway, err)
	}
	return data.Items, nil
}

func (c *Client) postJSON(ctx context.Context, url, authToken string, body interface{}) (*envelope, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	return c.do(req)
}

func (c *Client) getJSON(ctx context.Context, url, authToken string) (*envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	return c.do(req)
}

func (c *Client) do(req *http.Request) (*envelope, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrTransport, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w: gateway returned %d: %s", core.ErrAuthorization, resp.StatusCode, body)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrGateway, resp.StatusCode, body)
	}
	if resp.StatusCode != http.StatusOK || len(env.Error) > 0 {
		return nil, fmt.Errorf("%w: status %d: %s", core.ErrGateway, resp.StatusCode, body)
	}
	return &env, nil
}
