package bag

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBAGClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:    baseURL,
		APIKey:     "test-key",
		Timeout:    5 * time.Second,
		MaxRetries: 0,
		RateLimit:  1000,
		RateBurst:  100,
	})
}

// registry is a fake BAG individuele bevragingen server with one pand and a
// configurable set of verblijfsobjecten on it.
func registryServer(t *testing.T, pandID string, verblijfsobjecten string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/hal+json", r.Header.Get("Accept"))
		assert.Equal(t, "epsg:28992", r.Header.Get("Accept-Crs"))

		switch r.URL.Path {
		case "/panden":
			fmt.Fprintf(w, `{"_embedded":{"panden":[{"pand":{"identificatie":%q}}]}}`, pandID)
		case "/verblijfsobjecten":
			assert.Equal(t, pandID, r.URL.Query().Get("pandIdentificatie"))
			assert.Equal(t, "true", r.URL.Query().Get("expand"))
			fmt.Fprintf(w, `{"_embedded":{"verblijfsobjecten":[%s]}}`, verblijfsobjecten)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func vobEntry(id, status, postcode string, huisnummer int, huisletter string) string {
	return fmt.Sprintf(`{
		"verblijfsobject":{"identificatie":%q,"status":%q},
		"_embedded":{"heeftAlsHoofdAdres":{"nummeraanduiding":{"postcode":%q,"huisnummer":%d,"huisletter":%q}}}
	}`, id, status, postcode, huisnummer, huisletter)
}

func TestFindSuccessor_MatchingAddress(t *testing.T) {
	srv := registryServer(t, "0599100000000001",
		vobEntry("0599010000486642", "Verblijfsobject ingetrokken", "3016DE", 1, "")+","+
			vobEntry("0599010000999999", "Verblijfsobject in gebruik", "3016DE", 1, ""))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Equal(t, "0599010000999999", successor)
}

func TestFindSuccessor_SkipsDifferentAddress(t *testing.T) {
	srv := registryServer(t, "0599100000000001",
		vobEntry("0599010000486642", "Verblijfsobject ingetrokken", "3016DE", 1, "")+","+
			vobEntry("0599010000111111", "Verblijfsobject in gebruik", "3016DE", 3, "")+","+
			vobEntry("0599010000222222", "Verblijfsobject in gebruik", "3016DE", 1, "a"))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Empty(t, successor, "huisnummer and huisletter must match exactly")
}

func TestFindSuccessor_HuisletterMustAgree(t *testing.T) {
	srv := registryServer(t, "0599100000000001",
		vobEntry("0599010000486642", "Verblijfsobject ingetrokken", "3016DE", 1, "b")+","+
			vobEntry("0599010000333333", "Verblijfsobject in gebruik", "3016DE", 1, "b"))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Equal(t, "0599010000333333", successor)
}

func TestFindSuccessor_OriginalNotOnPand(t *testing.T) {
	srv := registryServer(t, "0599100000000001",
		vobEntry("0599010000444444", "Verblijfsobject in gebruik", "3016DE", 1, ""))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Empty(t, successor, "no address to compare against")
}

func TestFindSuccessor_NoPanden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_embedded":{"panden":[]}}`))
	}))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Empty(t, successor)
}

func TestFindSuccessor_NotFoundIsNoSuccessor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	successor, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Empty(t, successor)
}

func TestFindSuccessor_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testBAGClient(srv.URL).FindSuccessor(context.Background(), "0599010000486642")
	assert.Error(t, err)
}

func TestGetJSON_RetriesRateLimit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("RateLimit-Reset", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"_embedded":{"panden":[]}}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		APIKey:     "test-key",
		MaxRetries: 1,
		RateLimit:  1000,
		RateBurst:  100,
	})
	successor, err := client.FindSuccessor(context.Background(), "0599010000486642")
	require.NoError(t, err)
	assert.Empty(t, successor)
	assert.Equal(t, 2, calls)
}
