// Package chain is a thin JSON-RPC client for the blockchain node. It only
// performs read operations; signing and submission live with the custody
// provider.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	rpcURL     string
	httpClient *http.Client
}

type Config struct {
	RPCURL  string
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		rpcURL:     cfg.RPCURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is the node-side failure payload.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Call performs one JSON-RPC round trip against the node.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: 1})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

// GetBlockCount returns the current chain height.
func (c *Client) GetBlockCount(ctx context.Context) (uint64, error) {
	result, err := c.Call(ctx, "getblockcount", nil)
	if err != nil {
		return 0, err
	}
	var count uint64
	if err := json.Unmarshal(result, &count); err != nil {
		return 0, fmt.Errorf("decode block count: %w", err)
	}
	return count, nil
}

// ContractState is the node's view of a deployed contract.
type ContractState struct {
	ID       int64           `json:"id"`
	Hash     string          `json:"hash"`
	Manifest json.RawMessage `json:"manifest,omitempty"`
}

// GetContractState fetches the deployed state for a contract address.
func (c *Client) GetContractState(ctx context.Context, address string) (*ContractState, error) {
	result, err := c.Call(ctx, "getcontractstate", []any{address})
	if err != nil {
		return nil, err
	}
	var state ContractState
	if err := json.Unmarshal(result, &state); err != nil {
		return nil, fmt.Errorf("decode contract state: %w", err)
	}
	return &state, nil
}

// InvokeResult is the outcome of a read-only contract invocation.
type InvokeResult struct {
	State       string          `json:"state"`
	GasConsumed string          `json:"gasconsumed"`
	Stack       json.RawMessage `json:"stack"`
}

// InvokeRead invokes a contract method without submitting a transaction.
func (c *Client) InvokeRead(ctx context.Context, address, method string, args []any) (*InvokeResult, error) {
	if args == nil {
		args = []any{}
	}
	result, err := c.Call(ctx, "invokefunction", []any{address, method, args})
	if err != nil {
		return nil, err
	}
	var inv InvokeResult
	if err := json.Unmarshal(result, &inv); err != nil {
		return nil, fmt.Errorf("decode invoke result: %w", err)
	}
	return &inv, nil
}
