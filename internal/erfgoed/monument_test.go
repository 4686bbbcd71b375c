package erfgoed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monumenten/internal/sparql"
)

func sparqlTestClient(endpoint string) *sparql.Client {
	return sparql.NewClient(sparql.ClientConfig{
		Endpoint:  endpoint,
		RateLimit: 1000,
		RateBurst: 100,
	})
}

func TestMonumentLookup_Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.FormValue("query"), `"0599010000183527"`)
		assert.Contains(t, r.FormValue("query"), "rijksmonumentnummer")
		w.Write([]byte(`[{"identificatie":"0599010000183527","nummer":"32807"}]`))
	}))
	defer srv.Close()

	res, err := NewMonumentClient(sparqlTestClient(srv.URL)).Lookup(context.Background(), "0599010000183527")
	require.NoError(t, err)
	assert.True(t, res.IsRijksmonument)
	assert.Equal(t, "https://www.monumenten.nl/monument/32807", res.URL)
}

func TestMonumentLookup_Miss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	res, err := NewMonumentClient(sparqlTestClient(srv.URL)).Lookup(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.False(t, res.IsRijksmonument)
	assert.Empty(t, res.URL)
}

func TestMonumentLookup_EndpointFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewMonumentClient(sparqlTestClient(srv.URL)).Lookup(context.Background(), "0599010000183527")
	assert.Error(t, err)
}

func TestMonumentLookup_RowWithoutNummer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"identificatie":"0599010000183527"}]`))
	}))
	defer srv.Close()

	_, err := NewMonumentClient(sparqlTestClient(srv.URL)).Lookup(context.Background(), "0599010000183527")
	assert.Error(t, err)
}
