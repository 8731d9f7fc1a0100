// Package client talks to the notes API over HTTP and keeps optimistic local state for
// interactive front ends.
package client

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

	"openkeep/models"

	"github.com/tidwall/gjson"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client is a typed HTTP client for the notes API. BaseURL includes the /api prefix.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// ListParams selects the notes view fetched by ListNotes.
type ListParams struct {
	Archived bool
	Trashed  bool
	LabelID  string
	Query    string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Archived {
		v.Set("archived", "true")
	}
	if p.Trashed {
		v.Set("trashed", "true")
	}
	if p.LabelID != "" {
		v.Set("labelId", p.LabelID)
	}
	if p.Query != "" {
		v.Set("q", p.Query)
	}
	return v
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := gjson.GetBytes(raw, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

func noteURL(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func labelURL(id string) string {
	return "/labels/" + url.PathEscape(id)
}

func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) ListNotes(ctx context.Context, p ListParams) ([]models.Note, error) {
	path := "/notes"
	if q := p.values().Encode(); q != "" {
		path += "?" + q
	}
	var notes []models.Note
	err := c.do(ctx, http.MethodGet, path, nil, &notes)
	return notes, err
}

func (c *Client) GetNote(ctx context.Context, id string) (models.Note, error) {
	var note models.Note
	err := c.do(ctx, http.MethodGet, noteURL(id), nil, &note)
	return note, err
}

func (c *Client) CreateNote(ctx context.Context, in models.CreateNoteInput) (models.Note, error) {
	var note models.Note
	err := c.do(ctx, http.MethodPost, "/notes", in, &note)
	return note, err
}

func (c *Client) UpdateNote(ctx context.Context, id string, in models.UpdateNoteInput) (models.Note, error) {
	var note models.Note
	err := c.do(ctx, http.MethodPatch, noteURL(id), in, &note)
	return note, err
}

func (c *Client) DeleteNote(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, noteURL(id), nil, nil)
}

func (c *Client) ReorderNotes(ctx context.Context, noteIDs []string) error {
	if noteIDs == nil {
		noteIDs = []string{}
	}
	return c.do(ctx, http.MethodPut, "/notes", models.ReorderNotesRequest{NoteIDs: noteIDs}, nil)
}

func (c *Client) EmptyTrash(ctx context.Context) (int64, error) {
	var out models.EmptyTrashResponse
	err := c.do(ctx, http.MethodDelete, "/notes/trash", nil, &out)
	return out.Deleted, err
}

func (c *Client) ListLabels(ctx context.Context) ([]models.Label, error) {
	var labels []models.Label
	err := c.do(ctx, http.MethodGet, "/labels", nil, &labels)
	return labels, err
}

func (c *Client) CreateLabel(ctx context.Context, name string) (models.Label, error) {
	var label models.Label
	err := c.do(ctx, http.MethodPost, "/labels", models.LabelPayload{Name: name}, &label)
	return label, err
}

func (c *Client) RenameLabel(ctx context.Context, id, name string) (models.Label, error) {
	var label models.Label
	err := c.do(ctx, http.MethodPatch, labelURL(id), models.LabelPayload{Name: name}, &label)
	return label, err
}

func (c *Client) DeleteLabel(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, labelURL(id), nil, nil)
}
