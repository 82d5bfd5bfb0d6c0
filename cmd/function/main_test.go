package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"auth-api/internal/gateway"

	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	router := http.NewServeMux()
	router.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"method":"` + r.Method + `"}`))
	})
	adapter := gateway.NewAdapter(router)

	in := strings.NewReader(
		`{"httpMethod":"POST","pathParams":{"action":"login"},"body":"{}"}` + "\n" +
			`{"httpMethod":"GET","pathParams":{"action":"missing"}}`,
	)
	var out strings.Builder

	require.NoError(t, serve(context.Background(), adapter, in, &out))

	scanner := bufio.NewScanner(strings.NewReader(out.String()))
	var responses []gateway.Response
	for scanner.Scan() {
		var resp gateway.Response
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &resp))
		responses = append(responses, resp)
	}
	require.Len(t, responses, 2)

	require.Equal(t, http.StatusOK, responses[0].StatusCode)
	require.JSONEq(t, `{"method":"POST"}`, responses[0].Body)
	require.False(t, responses[0].IsBase64Encoded)

	require.Equal(t, http.StatusNotFound, responses[1].StatusCode)
}

func TestServe_MalformedEvent(t *testing.T) {
	adapter := gateway.NewAdapter(http.NewServeMux())
	var out strings.Builder

	err := serve(context.Background(), adapter, strings.NewReader(`{"httpMethod":`), &out)
	require.Error(t, err)
	require.Empty(t, out.String())
}

func TestServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := serve(ctx, gateway.NewAdapter(http.NewServeMux()), strings.NewReader(`{}`), &strings.Builder{})
	require.ErrorIs(t, err, context.Canceled)
}
