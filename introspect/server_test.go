package introspect_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oklaren/go-implicit/bootstrap"
	"github.com/oklaren/go-implicit/introspect"
	"github.com/oklaren/go-implicit/printer"
	"github.com/oklaren/go-implicit/resolver"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	res := resolver.New()
	reg := bootstrap.NewRegistry(res, nil)
	for _, m := range printer.Modules() {
		require.NoError(t, reg.Apply(m))
	}
	require.NoError(t, reg.Boot())

	ts := httptest.NewServer(introspect.New(res, nil).Router())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string) (int, map[string]any) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestProvidersEndpoint(t *testing.T) {
	ts := testServer(t)

	status, body := getJSON(t, ts.URL+"/providers")
	assert.Equal(t, http.StatusOK, status)

	data, ok := body["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 6)

	first := data[0].(map[string]any)
	assert.Equal(t, "value", first["kind"])
	assert.Equal(t, "Int", first["key"])
}

func TestConstructorsEndpoint(t *testing.T) {
	ts := testServer(t)

	status, body := getJSON(t, ts.URL+"/constructors")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body["data"], "Option/1")
	assert.Contains(t, body["data"], "Int")
}

func TestResolveEndpoint(t *testing.T) {
	ts := testServer(t)

	t.Run("success", func(t *testing.T) {
		status, body := getJSON(t, ts.URL+"/resolve?key=Option[List[Int]]")
		assert.Equal(t, http.StatusOK, status)
		data := body["data"].(map[string]any)
		assert.Equal(t, "Option[List[Int]]", data["resolved"])
	})

	t.Run("partial binding", func(t *testing.T) {
		status, body := getJSON(t, ts.URL+"/resolve?key=Mapper[Int,_]")
		assert.Equal(t, http.StatusOK, status)
		data := body["data"].(map[string]any)
		assert.Equal(t, "Mapper[Int, Boolean]", data["resolved"])
	})

	t.Run("no instance", func(t *testing.T) {
		status, body := getJSON(t, ts.URL+"/resolve?key=Boolean")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Contains(t, body["message"], "Boolean")
	})

	t.Run("bad key", func(t *testing.T) {
		status, _ := getJSON(t, ts.URL+"/resolve?key=Option[")
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("missing key", func(t *testing.T) {
		status, _ := getJSON(t, ts.URL+"/resolve")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCacheEndpoint(t *testing.T) {
	ts := testServer(t)

	status, body := getJSON(t, ts.URL+"/cache")
	assert.Equal(t, http.StatusOK, status)
	before, _ := body["data"].([]any)
	assert.Empty(t, before)

	_, _ = getJSON(t, ts.URL+"/resolve?key=List[Int]")

	_, body = getJSON(t, ts.URL+"/cache")
	after := body["data"].([]any)
	assert.Contains(t, after, "List[Int]")
}
