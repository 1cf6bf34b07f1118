package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-pipeline/internal/config"
	"go-pipeline/internal/models"

	"go.uber.org/zap"
)

// AppendLogOptions carries the extra wire-only fields a log append may ship
// alongside the log itself.
type AppendLogOptions struct {
	NextFollowUpDate string
	ProofFile        string
}

// Client is the typed face of the record store's single action endpoint.
// Every write is a user-initiated submission; the client never retries on
// its own.
type Client interface {
	FetchInitialData(ctx context.Context) (models.Snapshot, error)
	Authenticate(ctx context.Context, name, password, role string) error
	ListUsers(ctx context.Context) ([]models.User, error)
	AddUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, user models.User) error
	DeleteUser(ctx context.Context, userRow int) error
	CreateLead(ctx context.Context, draft models.LeadDraft) (string, error)
	CreatePerson(ctx context.Context, leadNo, companyName string, person models.PersonFields) error
	UpdateContact(ctx context.Context, contact models.Contact) error
	DeletePerson(ctx context.Context, contactRow int) error
	AppendLog(ctx context.Context, entry models.FollowUpLog, opts AppendLogOptions) (models.FollowUpLog, error)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewClient validates the configured endpoint and returns the store client.
// A missing or malformed endpoint is fatal for data operations, so it fails
// here rather than on first use.
func NewClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if cfg.StoreURL == "" {
		return nil, ErrNotConfigured
	}
	parsed, err := url.Parse(cfg.StoreURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrNotConfigured, cfg.StoreURL)
	}
	return &HTTPClient{
		endpoint: cfg.StoreURL,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}, nil
}

// post sends one {action, ...} payload and decodes the response envelope.
func (c *HTTPClient) post(ctx context.Context, payload any) (*envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	// The store only accepts non-preflighted requests, hence text/plain.
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ParseError{Err: err}
	}
	if env.Status != "success" {
		return nil, &StoreError{Message: env.Message}
	}
	return &env, nil
}

func (c *HTTPClient) FetchInitialData(ctx context.Context) (models.Snapshot, error) {
	u, _ := url.Parse(c.endpoint)
	q := u.Query()
	q.Set("action", "getInitialData")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.Snapshot{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Snapshot{}, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Snapshot{}, &TransportError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Snapshot{}, &TransportError{Err: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.Snapshot{}, &ParseError{Err: err}
	}
	if env.Status == "error" {
		return models.Snapshot{}, &StoreError{Message: env.Message}
	}

	var data struct {
		Contacts  []map[string]any `json:"contacts"`
		FollowUps []map[string]any `json:"followUps"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return models.Snapshot{}, &ParseError{Err: err}
	}
	if data.Contacts == nil || data.FollowUps == nil {
		return models.Snapshot{}, &ParseError{Err: fmt.Errorf("missing contacts or followUps arrays")}
	}

	snapshot := models.Snapshot{
		Contacts:     make([]models.Contact, 0, len(data.Contacts)),
		FollowUpLogs: make([]models.FollowUpLog, 0, len(data.FollowUps)),
	}
	for i, item := range data.Contacts {
		snapshot.Contacts = append(snapshot.Contacts, decodeContact(item, i))
	}
	for _, item := range data.FollowUps {
		snapshot.FollowUpLogs = append(snapshot.FollowUpLogs, decodeFollowUpLog(item))
	}
	return snapshot, nil
}

func (c *HTTPClient) Authenticate(ctx context.Context, name, password, role string) error {
	_, err := c.post(ctx, map[string]any{
		"action":   "login",
		"name":     name,
		"password": password,
		"role":     role,
	})
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	env, err := c.post(ctx, map[string]any{"action": "getUsers"})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := json.Unmarshal(env.Data, &users); err != nil {
		return nil, &ParseError{Err: err}
	}
	return users, nil
}

func (c *HTTPClient) AddUser(ctx context.Context, user models.User) error {
	_, err := c.post(ctx, map[string]any{"action": "addUser", "userData": user})
	return err
}

func (c *HTTPClient) UpdateUser(ctx context.Context, user models.User) error {
	_, err := c.post(ctx, map[string]any{"action": "updateUser", "userData": user})
	return err
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userRow int) error {
	_, err := c.post(ctx, map[string]any{"action": "deleteUser", "userRow": userRow})
	return err
}

// CreateLead submits the draft and returns the lead number the store
// assigned. An envelope without a newLeadNo counts as a parse failure: the
// caller cannot proceed without the identity.
func (c *HTTPClient) CreateLead(ctx context.Context, draft models.LeadDraft) (string, error) {
	env, err := c.post(ctx, map[string]any{
		"action":      "saveContact",
		"mode":        "new-lead",
		"contactData": draft,
	})
	if err != nil {
		return "", err
	}
	var data struct {
		NewLeadNo string `json:"newLeadNo"`
	}
	if env.Data != nil {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return "", &ParseError{Err: err}
		}
	}
	if strings.TrimSpace(data.NewLeadNo) == "" {
		return "", &ParseError{Err: fmt.Errorf("no newLeadNo in saveContact response")}
	}
	return data.NewLeadNo, nil
}

func (c *HTTPClient) CreatePerson(ctx context.Context, leadNo, companyName string, person models.PersonFields) error {
	_, err := c.post(ctx, map[string]any{
		"action":      "saveContact",
		"mode":        "new-person",
		"contactData": person,
		"leadNo":      leadNo,
		"companyName": companyName,
	})
	return err
}

func (c *HTTPClient) UpdateContact(ctx context.Context, contact models.Contact) error {
	contact.NextFollowUpDate = normalizeFollowUpDate(contact.NextFollowUpDate)
	_, err := c.post(ctx, map[string]any{
		"action":      "updateContact",
		"contactData": contact,
	})
	return err
}

func (c *HTTPClient) DeletePerson(ctx context.Context, contactRow int) error {
	_, err := c.post(ctx, map[string]any{
		"action":     "deletePerson",
		"contactRow": contactRow,
	})
	return err
}

func (c *HTTPClient) AppendLog(ctx context.Context, entry models.FollowUpLog, opts AppendLogOptions) (models.FollowUpLog, error) {
	logData := map[string]any{
		"leadNo":        entry.LeadNo,
		"company":       entry.Company,
		"keyPerson":     entry.KeyPerson,
		"contactNumber": entry.ContactNumber,
		"salesPerson":   entry.SalesPerson,
		"timestamp":     entry.Timestamp.UTC().Format(time.RFC3339),
		"action":        entry.Action,
		"details":       entry.Details,
		"remarks":       entry.Remarks,
	}
	if entry.ProofURL != "" {
		logData["proofUrl"] = entry.ProofURL
	}
	if opts.NextFollowUpDate != "" {
		logData["nextFollowUpDate"] = normalizeFollowUpDate(opts.NextFollowUpDate)
	}
	if opts.ProofFile != "" {
		logData["proofFile"] = opts.ProofFile
	}

	env, err := c.post(ctx, map[string]any{"action": "logFollowUp", "logData": logData})
	if err != nil {
		return entry, err
	}

	// The store may echo the stored row back (with a proof URL for an
	// uploaded attachment); prefer it over our local copy.
	if len(env.Data) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(env.Data, &raw); err == nil && len(raw) > 0 {
			return decodeFollowUpLog(raw), nil
		}
	}
	return entry, nil
}
