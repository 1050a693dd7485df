package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, handler func(method string, params []any) (any, *RPCError)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JSONRPC string `json:"jsonrpc"`
			Method  string `json:"method"`
			Params  []any  `json:"params"`
			ID      int    `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "2.0", req.JSONRPC)

		result, rpcErr := handler(req.Method, req.Params)
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientRequiresURL(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestGetBlockCount(t *testing.T) {
	srv := rpcServer(t, func(method string, params []any) (any, *RPCError) {
		assert.Equal(t, "getblockcount", method)
		assert.Empty(t, params)
		return 123456, nil
	})

	client, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	count, err := client.GetBlockCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), count)
}

func TestGetContractState(t *testing.T) {
	srv := rpcServer(t, func(method string, params []any) (any, *RPCError) {
		assert.Equal(t, "getcontractstate", method)
		require.Len(t, params, 1)
		assert.Equal(t, "0xabc", params[0])
		return map[string]any{"id": 7, "hash": "0xabc"}, nil
	})

	client, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	state, err := client.GetContractState(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Equal(t, int64(7), state.ID)
	assert.Equal(t, "0xabc", state.Hash)
}

func TestInvokeRead(t *testing.T) {
	srv := rpcServer(t, func(method string, params []any) (any, *RPCError) {
		assert.Equal(t, "invokefunction", method)
		require.Len(t, params, 3)
		assert.Equal(t, "symbol", params[1])
		return map[string]any{"state": "HALT", "gasconsumed": "997509", "stack": []any{}}, nil
	})

	client, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	out, err := client.InvokeRead(context.Background(), "0xabc", "symbol", nil)
	require.NoError(t, err)
	assert.Equal(t, "HALT", out.State)
}

func TestCallSurfacesNodeError(t *testing.T) {
	srv := rpcServer(t, func(method string, params []any) (any, *RPCError) {
		return nil, &RPCError{Code: -100, Message: "Unknown contract"}
	})

	client, err := NewClient(Config{RPCURL: srv.URL})
	require.NoError(t, err)

	_, err = client.GetContractState(context.Background(), "0xmissing")
	require.Error(t, err)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -100, rpcErr.Code)
}
