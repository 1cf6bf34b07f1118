package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-pipeline/internal/config"
	"go-pipeline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(&config.Config{StoreURL: server.URL}, zap.NewNop())
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsMissingURL(t *testing.T) {
	_, err := NewClient(&config.Config{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClientRejectsBadScheme(t *testing.T) {
	_, err := NewClient(&config.Config{StoreURL: "ftp://example.com"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchInitialData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "getInitialData", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {
				"contacts": [{"contactRow": 1, "Lead-no": "L-001", "Key Person": "Jane Doe"}],
				"followUps": [{"Lead-no": "L-001", "Action": "Lead Created", "Timestamp": "2026-03-01T10:00:00Z"}]
			}
		}`))
	})

	snapshot, err := client.FetchInitialData(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Contacts, 1)
	assert.Equal(t, "L-001", snapshot.Contacts[0].LeadNo)
	require.Len(t, snapshot.FollowUpLogs, 1)
	assert.Equal(t, "Lead Created", snapshot.FollowUpLogs[0].Action)
}

func TestFetchInitialDataMissingArrays(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "data": {"contacts": []}}`))
	})

	_, err := client.FetchInitialData(context.Background())
	assert.True(t, IsParse(err))
}

func TestFetchInitialDataNonJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>deployment error</html>`))
	})

	_, err := client.FetchInitialData(context.Background())
	assert.True(t, IsParse(err))
}

func TestFetchInitialDataStoreError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "error", "message": "sheet locked"}`))
	})

	_, err := client.FetchInitialData(context.Background())
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "sheet locked", storeErr.Message)
}

func TestPostUsesTextPlainContentType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "text/plain;charset=utf-8", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	err := client.Authenticate(context.Background(), "Ravi", "secret", "Sales Person")
	assert.NoError(t, err)
}

func TestCreateLeadReturnsAssignedNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "saveContact", payload["action"])
		assert.Equal(t, "new-lead", payload["mode"])
		_, _ = w.Write([]byte(`{"status": "success", "data": {"newLeadNo": "L-200"}}`))
	})

	leadNo, err := client.CreateLead(context.Background(), models.LeadDraft{})
	require.NoError(t, err)
	assert.Equal(t, "L-200", leadNo)
}

func TestCreateLeadMissingLeadNo(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success", "data": {}}`))
	})

	_, err := client.CreateLead(context.Background(), models.LeadDraft{})
	assert.True(t, IsParse(err))
}

func TestUpdateContactNormalizesDate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			ContactData models.Contact `json:"contactData"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "2026-03-20T00:00:00Z", payload.ContactData.NextFollowUpDate)
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	err := client.UpdateContact(context.Background(), models.Contact{
		ID:               1,
		NextFollowUpDate: "2026-03-20",
	})
	assert.NoError(t, err)
}

func TestAppendLogPrefersEchoedRow(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, "logFollowUp", payload["action"])

		logData, ok := payload["logData"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "2026-03-25T00:00:00Z", logData["nextFollowUpDate"])

		_, _ = w.Write([]byte(`{
			"status": "success",
			"data": {"Lead-no": "L-001", "Action": "Call", "Proof URL": "https://files/proof.png", "Timestamp": "2026-03-01T10:00:00Z"}
		}`))
	})

	entry := models.FollowUpLog{
		LeadNo:    "L-001",
		Action:    "Call",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	stored, err := client.AppendLog(context.Background(), entry, AppendLogOptions{
		NextFollowUpDate: "2026-03-25",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://files/proof.png", stored.ProofURL)
}

func TestAppendLogFallsBackToLocalEntry(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "success"}`))
	})

	entry := models.FollowUpLog{LeadNo: "L-001", Action: "Call"}
	stored, err := client.AppendLog(context.Background(), entry, AppendLogOptions{})
	require.NoError(t, err)
	assert.Equal(t, entry, stored)
}

func TestPostTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(&config.Config{StoreURL: server.URL}, zap.NewNop())
	require.NoError(t, err)
	server.Close()

	err = client.Authenticate(context.Background(), "Ravi", "secret", "Sales Person")
	assert.True(t, IsTransport(err))
}
