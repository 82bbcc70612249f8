package registry

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}

func TestClientDo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/subjects":
			_, _ = w.Write([]byte(`["a","b"]`))
		case "/subjects/s/versions":
			body, _ := io.ReadAll(r.Body)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, contentType, r.Header.Get("Content-Type"))
			_, _ = w.Write([]byte(`{"id":1,"echo":` + string(body) + `}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error_code":40401,"message":"Subject not found."}`))
		}
	}))
	defer srv.Close()

	client := NewClient(nil, testLogger())
	ctx := context.Background()

	out, err := client.Do(ctx, Endpoint{http.MethodGet, srv.URL + "/subjects"}, nil)
	require.NoError(t, err)
	assert.True(t, out.OK())
	assert.Equal(t, `["a","b"]`, out.Body)

	body := `"x"`
	out, err = client.Do(ctx, Endpoint{http.MethodPost, srv.URL + "/subjects/s/versions"}, &body)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"echo":"x"}`, out.Body)

	out, err = client.Do(ctx, Endpoint{http.MethodGet, srv.URL + "/subjects/missing/versions"}, nil)
	require.NoError(t, err)
	assert.False(t, out.OK())
	assert.Equal(t, http.StatusNotFound, out.Status)
	assert.Contains(t, out.Body, "Subject not found.")
}

func TestClientDoConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(nil, testLogger()).Do(context.Background(), Endpoint{http.MethodGet, url + "/subjects"}, nil)
	require.Error(t, err)
}
