package registration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wayfarer-app/wayfarer/internal/models"
)

func sampleTraveller() models.Traveller {
	return models.Traveller{
		ID:           "U1",
		FirstName:    "Ada",
		LastName:     "Voyager",
		Description:  "desc",
		DaysInCity:   7,
		Cities:       []string{"riga"},
		FileURLs:     []string{"https://cdn/a"},
		RegisteredAt: time.Now().Truncate(time.Second),
	}
}

func TestPut_SendsFullReplaceRequest(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotAuth   string
		gotBody   models.Traveller
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPRecordClient(srv.URL, 0)
	traveller := sampleTraveller()

	require.NoError(t, c.Put(context.Background(), "tok-1", traveller))

	require.Equal(t, http.MethodPut, gotMethod)
	require.Equal(t, "/travellers/U1", gotPath)
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, traveller.ID, gotBody.ID)
	require.Equal(t, traveller.FileURLs, gotBody.FileURLs)
}

func TestPut_EscapesUserIDInPath(t *testing.T) {
	var gotEscapedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEscapedPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPRecordClient(srv.URL, 0)
	traveller := sampleTraveller()
	traveller.ID = "user/1?x"

	require.NoError(t, c.Put(context.Background(), "tok-1", traveller))
	require.Equal(t, "/travellers/user%2F1%3Fx", gotEscapedPath)
}

func TestPut_NonSuccessStatus_Fails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	c := NewHTTPRecordClient(srv.URL, 0)
	err := c.Put(context.Background(), "tok-1", sampleTraveller())
	require.Error(t, err)
	require.Contains(t, err.Error(), "403")
}

func TestPut_NetworkError(t *testing.T) {
	c := NewHTTPRecordClient("http://127.0.0.1:1", 0)
	require.Error(t, c.Put(context.Background(), "tok-1", sampleTraveller()))
}
