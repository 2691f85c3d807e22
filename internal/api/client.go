// Package api is a client for the notes REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/carevo/internal/catalog"
)

// ErrStatus is wrapped by every StatusError.
var ErrStatus = errors.New("unexpected status")

// StatusError reports a response with a 4xx or 5xx status.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("notes API error: %s (%s)", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Options configures a Client.
type Options struct {
	BaseURL    string
	UserID     string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the notes API.
type Client struct {
	baseURL string
	userID  string
	client  *http.Client
	logger  *zap.Logger
}

// New builds a client. A nil HTTPClient gets one with the configured timeout.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		userID:  opts.UserID,
		client:  httpClient,
		logger:  logger,
	}
}

type createRequest struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	Author    string `json:"author"`
	Image     string `json:"image"`
	Tag       string `json:"tag"`
	DriveLink string `json:"drive_link"`
	Category  string `json:"category"`
	Likes     int    `json:"likes"`
	Starred   bool   `json:"starred"`
}

// CreateNote posts a new note and returns it with its assigned id.
func (c *Client) CreateNote(ctx context.Context, note catalog.Item) (catalog.Item, error) {
	if strings.TrimSpace(note.Title) == "" || strings.TrimSpace(note.Link) == "" {
		return catalog.Item{}, errors.New("title and drive link are required")
	}
	category := note.Category
	if category == "" {
		category = catalog.Recent
	}
	payload := createRequest{
		Title:     note.Title,
		Subtitle:  note.Subtitle,
		Author:    note.Author,
		Image:     note.Image,
		Tag:       note.Tag,
		DriveLink: note.Link,
		Category:  string(category),
	}
	var created catalog.Item
	if err := c.do(ctx, http.MethodPost, "/api/notes", nil, payload, &created); err != nil {
		return catalog.Item{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

// LikeResponse is the like state after a toggle.
type LikeResponse struct {
	ID    int  `json:"id"`
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

// ToggleLike toggles the configured user's like on a note.
func (c *Client) ToggleLike(ctx context.Context, id int) (LikeResponse, error) {
	header := http.Header{}
	header.Set("User-ID", c.userID)
	var out LikeResponse
	if err := c.do(ctx, http.MethodPost, notePath(id)+"/like", header, nil, &out); err != nil {
		return LikeResponse{}, fmt.Errorf("toggle like on note %d: %w", id, err)
	}
	return out, nil
}

// ToggleStar flips the starred flag of a note and returns the server's value.
func (c *Client) ToggleStar(ctx context.Context, id int) (bool, error) {
	var out struct {
		ID      int  `json:"id"`
		Starred bool `json:"starred"`
	}
	if err := c.do(ctx, http.MethodPost, notePath(id)+"/star", nil, nil, &out); err != nil {
		return false, fmt.Errorf("toggle star on note %d: %w", id, err)
	}
	return out.Starred, nil
}

// Search returns the server's matches for query in server order.
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Item, error) {
	path := "/api/search?q=" + url.QueryEscape(query)
	var out []catalog.Item
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return out, nil
}

// GetNote fetches one note.
func (c *Client) GetNote(ctx context.Context, id int) (catalog.Item, error) {
	var out catalog.Item
	if err := c.do(ctx, http.MethodGet, notePath(id), nil, nil, &out); err != nil {
		return catalog.Item{}, fmt.Errorf("get note %d: %w", id, err)
	}
	return out, nil
}

// ListNotes returns every note, or the notes of the given categories fetched
// concurrently and concatenated in argument order.
func (c *Client) ListNotes(ctx context.Context, categories ...catalog.Category) ([]catalog.Item, error) {
	if len(categories) == 0 {
		var out []catalog.Item
		if err := c.do(ctx, http.MethodGet, "/api/notes", nil, nil, &out); err != nil {
			return nil, fmt.Errorf("list notes: %w", err)
		}
		return out, nil
	}

	pages := make([][]catalog.Item, len(categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range categories {
		i, category := i, category
		g.Go(func() error {
			var out []catalog.Item
			path := "/api/notes?category=" + url.QueryEscape(string(category))
			if err := c.do(gctx, http.MethodGet, path, nil, nil, &out); err != nil {
				return fmt.Errorf("list %s notes: %w", category, err)
			}
			pages[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	var all []catalog.Item
	for _, page := range pages {
		all = append(all, page...)
	}
	return all, nil
}

func notePath(id int) string {
	return "/api/notes/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, path string, header http.Header, payload, out any) error {
	var body io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("notes API request failed",
			zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("notes API request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: strings.TrimSpace(string(snippet))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
