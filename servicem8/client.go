// ABOUTME: ServiceM8 REST API client for jobs and communication notes
// ABOUTME: Fetches job records and note history with API error decoding
package servicem8

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/Vonnie2507/probuild-command/models"
)

const defaultBaseURL = "https://api.servicem8.com/api_1.0"

// serviceM8Time is the timestamp layout ServiceM8 returns.
const serviceM8Time = "2006-01-02 15:04:05"

// Client talks to the ServiceM8 REST API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an authenticated ServiceM8 client. The oauth2 transport
// refreshes the access token automatically.
func NewClient(token *oauth2.Token) (*Client, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	config := NewOAuthConfig()
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: config.Client(context.Background(), token),
	}, nil
}

// APIError is a non-2xx response from ServiceM8.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NeedsReconnect reports whether the error means the stored token is no
// longer usable and the user has to re-run the OAuth flow.
func (e *APIError) NeedsReconnect() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// JobRecord is the wire shape of a ServiceM8 job.
type JobRecord struct {
	UUID           string `json:"uuid"`
	GeneratedJobID string `json:"generated_job_id"`
	CompanyName    string `json:"company_name"`
	JobAddress     string `json:"job_address"`
	JobDescription string `json:"job_description"`
	Status         string `json:"status"`
	TotalAmount    string `json:"total_invoice_amount"`
	QuoteDate      string `json:"quote_date"`
	LastContact    string `json:"last_contact_date"`
	EditDate       string `json:"edit_date"`
}

type noteRecord struct {
	UUID        string `json:"uuid"`
	Note        string `json:"note"`
	Timestamp   string `json:"timestamp"`
	EntryMethod string `json:"entry_method"`
	NoteType    string `json:"note_type"`
	Author      string `json:"author"`
}

// ListJobs fetches jobs, optionally limited to those edited after since.
func (c *Client) ListJobs(ctx context.Context, since *time.Time) ([]JobRecord, error) {
	endpoint := c.BaseURL + "/job.json"
	if since != nil {
		filter := fmt.Sprintf("edit_date gt '%s'", since.Format(serviceM8Time))
		endpoint += "?%24filter=" + url.QueryEscape(filter)
	}

	var records []JobRecord
	if err := c.getJSON(ctx, endpoint, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// GetJob fetches a single job by its ServiceM8 UUID.
func (c *Client) GetJob(ctx context.Context, jobUUID string) (*JobRecord, error) {
	endpoint := fmt.Sprintf("%s/job/%s.json", c.BaseURL, url.PathEscape(jobUUID))

	var record JobRecord
	if err := c.getJSON(ctx, endpoint, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// GetJobNotes fetches the communication history for a job, sorted newest
// first. Each open of the detail view issues a fresh request; there is no
// caching here.
func (c *Client) GetJobNotes(ctx context.Context, jobUUID string) ([]models.JobNote, error) {
	filter := fmt.Sprintf("related_object_uuid eq '%s'", jobUUID)
	endpoint := c.BaseURL + "/note.json?%24filter=" + url.QueryEscape(filter)

	var records []noteRecord
	if err := c.getJSON(ctx, endpoint, &records); err != nil {
		return nil, err
	}

	notes := make([]models.JobNote, 0, len(records))
	for _, record := range records {
		notes = append(notes, models.JobNote{
			UUID:        record.UUID,
			Note:        record.Note,
			Timestamp:   parseTimestamp(record.Timestamp),
			EntryMethod: record.EntryMethod,
			NoteType:    record.NoteType,
			Author:      record.Author,
		})
	}

	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Timestamp.After(notes[j].Timestamp)
	})

	return notes, nil
}

// JobPageURL returns the ServiceM8 job page for opening in a browser.
func JobPageURL(jobUUID string) string {
	return "https://go.servicem8.com/job/" + url.PathEscape(jobUUID)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// decodeAPIError extracts the error message from a failed response body.
// ServiceM8 sends {"error": "..."}; anything else falls back to a generic
// message carrying the status code.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = fmt.Sprintf("Error %d", resp.StatusCode)
	}

	return apiErr
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	if ts, err := time.Parse(serviceM8Time, raw); err == nil {
		return ts
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts
	}
	return time.Time{}
}

// ParseDate parses a ServiceM8 date or timestamp field. Zero value when the
// field is empty or the sentinel "0000-00-00 00:00:00".
func ParseDate(raw string) time.Time {
	if strings.HasPrefix(raw, "0000-") {
		return time.Time{}
	}
	if ts := parseTimestamp(raw); !ts.IsZero() {
		return ts
	}
	if ts, err := time.Parse("2006-01-02", strings.TrimSpace(raw)); err == nil {
		return ts
	}
	return time.Time{}
}
