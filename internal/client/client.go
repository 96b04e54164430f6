package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	types "github.com/yungbote/mathstep-backend/internal/domain"
	"github.com/yungbote/mathstep-backend/internal/domain/content"
)

// APIError is the decoded error payload. Detail is a message, or a list of
// field problems for validation failures.
type APIError struct {
	Status int         `json:"-"`
	Detail interface{} `json:"detail"`
	Code   string      `json:"code,omitempty"`
}

func (e *APIError) Error() string {
	switch d := e.Detail.(type) {
	case string:
		return d
	case nil:
		return http.StatusText(e.Status)
	default:
		b, _ := json.Marshal(d)
		return string(b)
	}
}

// NotFound reports whether the server answered 404.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *types.User `json:"user"`
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

type Client struct {
	http *resty.Client
}

// New builds a client for the API rooted at baseURL.
func New(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: rc}
}

// SetToken authenticates later requests with a bearer token.
func (c *Client) SetToken(token string) *Client {
	c.http.SetAuthToken(token)
	return c
}

func (c *Client) ListCourses(ctx context.Context, term string, tags ...string) ([]*types.Course, error) {
	var out []*types.Course
	req := c.http.R().SetContext(ctx)
	if term != "" {
		req.SetQueryParam("q", term)
	}
	if len(tags) > 0 {
		req.SetQueryParamsFromValues(map[string][]string{"tag": tags})
	}
	if err := do(req.SetResult(&out), http.MethodGet, "/courses/"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (*types.Course, error) {
	var out types.Course
	req := c.http.R().SetContext(ctx).SetPathParam("id", courseID).SetResult(&out)
	if err := do(req, http.MethodGet, "/courses/{id}"); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListChapters(ctx context.Context, courseID string) ([]*types.Chapter, error) {
	var out []*types.Chapter
	req := c.http.R().SetContext(ctx).SetPathParam("id", courseID).SetResult(&out)
	if err := do(req, http.MethodGet, "/courses/{id}/chapters/"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListLessons(ctx context.Context, chapterID string) ([]*types.Lesson, error) {
	var out []*types.Lesson
	req := c.http.R().SetContext(ctx).SetPathParam("id", chapterID).SetResult(&out)
	if err := do(req, http.MethodGet, "/chapters/{id}/lessons/"); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetLessonContent(ctx context.Context, lessonID string) ([]content.Item, error) {
	var out []content.Item
	req := c.http.R().SetContext(ctx).SetPathParam("id", lessonID).SetResult(&out)
	if err := do(req, http.MethodGet, "/lessons/{id}/content/"); err != nil {
		return nil, err
	}
	return out, nil
}

// Login stores the returned access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	req := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out)
	if err := do(req, http.MethodPost, "/login"); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

// Register stores the returned access token on the client.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*TokenResponse, error) {
	var out TokenResponse
	req := c.http.R().SetContext(ctx).SetBody(in).SetResult(&out)
	if err := do(req, http.MethodPost, "/register"); err != nil {
		return nil, err
	}
	c.SetToken(out.AccessToken)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*types.User, error) {
	var out types.User
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if err := do(req, http.MethodGet, "/user"); err != nil {
		return nil, err
	}
	return &out, nil
}

func do(req *resty.Request, method, path string) error {
	req.SetError(&APIError{})
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !resp.IsError() {
		return nil
	}
	if ae, ok := resp.Error().(*APIError); ok && ae != nil && ae.Detail != nil {
		ae.Status = resp.StatusCode()
		return ae
	}
	return &APIError{Status: resp.StatusCode(), Detail: strings.TrimSpace(resp.String())}
}
