// Package client is a typed HTTP client for the Pickteum API.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pickteum-api/internal/models"
)

// APIError is a non-2xx response from the API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to a Pickteum API server
type Client struct {
	http      *resty.Client
	cronToken string
}

// New creates a Client for baseURL, e.g. "http://localhost:8080"
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(30 * time.Second).
			SetRetryCount(3).
			SetRetryWaitTime(2 * time.Second).
			SetRetryMaxWaitTime(10 * time.Second).
			SetHeader("Accept", "application/json"),
	}
}

// SetToken authenticates later requests with an admin session token
func (c *Client) SetToken(token string) *Client {
	c.http.SetAuthToken(token)
	return c
}

// SetCronToken sets the scheduler trigger token sent by PublishScheduled
func (c *Client) SetCronToken(token string) *Client {
	c.cronToken = token
	return c
}

// SetRetryCount overrides the number of retries on transport errors
func (c *Client) SetRetryCount(n int) *Client {
	c.http.SetRetryCount(n)
	return c
}

// Login opens an admin session and uses its token for later requests
func (c *Client) Login(ctx context.Context, username, password string) (*models.Session, error) {
	var session models.Session
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.LoginRequest{Username: username, Password: password}).
		SetResult(&session).
		SetError(&errorBody{}).
		Post("/api/admin/login")
	if err := check(resp, err); err != nil {
		return nil, err
	}

	c.SetToken(session.Token)
	return &session, nil
}

// FeedPage fetches one page of the public feed
func (c *Client) FeedPage(ctx context.Context, category string, page, limit int) (*models.FeedPage, error) {
	var result models.FeedPage
	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetQueryParam("limit", strconv.Itoa(limit)).
		SetResult(&result).
		SetError(&errorBody{})
	if category != "" {
		req.SetQueryParam("category", category)
	}

	resp, err := req.Get("/api/articles")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Categories lists every category in display order
func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var result struct {
		Categories []models.Category `json:"categories"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&errorBody{}).
		Get("/api/categories")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return result.Categories, nil
}

// PublishScheduled triggers one scheduled-publish pass.
// The cron token is sent when set, otherwise the session token authorizes the call.
func (c *Client) PublishScheduled(ctx context.Context) (*models.SweepResult, error) {
	var result models.SweepResult
	req := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&errorBody{})
	if c.cronToken != "" {
		req.SetHeader("X-Cron-Token", c.cronToken)
	}

	resp, err := req.Post("/api/posts/publish-scheduled")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
			msg = body.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return nil
}
