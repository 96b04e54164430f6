package sendgrid

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yungbote/mathstep-backend/internal/platform/envutil"
	"github.com/yungbote/mathstep-backend/internal/platform/logger"
)

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error)
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           envutil.String("SENDGRID_API_KEY", ""),
		BaseURL:          envutil.String("SENDGRID_BASE_URL", ""),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", ""),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "MathStep"),
		Timeout:          envutil.Seconds("SENDGRID_TIMEOUT_SECONDS", 10*time.Second),
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 2),
	}
}

type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type SendEmailRequest struct {
	From    EmailAddress
	To      []EmailAddress
	Subject string
	Text    string
	HTML    string
}

type SendEmailResult struct {
	StatusCode int
	MessageID  string
}

type mailSendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             EmailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []mailContent     `json:"content"`
}

type personalization struct {
	To []EmailAddress `json:"to"`
}

type mailContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type errorResponse struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("sendgrid http %d: %s", e.StatusCode, e.Message)
}

type client struct {
	log  *logger.Logger
	cfg  Config
	http *resty.Client
}

// New returns a SendGrid mail client. 429 and 5xx answers are retried with
// backoff up to MaxRetries times.
func New(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	c := &client{log: log.With("client", "SendGridClient"), cfg: cfg}
	c.http = resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			code := r.StatusCode()
			return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
		}).
		AddRetryHook(func(r *resty.Response, err error) {
			c.log.Warn("Sendgrid request retrying", "status", r.StatusCode(), "attempt", r.Request.Attempt, "error", err)
		})
	return c, nil
}

func (c *client) Send(ctx context.Context, req SendEmailRequest) (*SendEmailResult, error) {
	if strings.TrimSpace(req.From.Email) == "" {
		req.From = EmailAddress{Email: c.cfg.DefaultFromEmail, Name: c.cfg.DefaultFromName}
	}
	if strings.TrimSpace(req.From.Email) == "" {
		return nil, fmt.Errorf("sendgrid: From.Email required (or set SENDGRID_FROM_EMAIL)")
	}
	if len(req.To) == 0 {
		return nil, fmt.Errorf("sendgrid: To required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return nil, fmt.Errorf("sendgrid: Subject required")
	}
	var contents []mailContent
	if t := strings.TrimSpace(req.Text); t != "" {
		contents = append(contents, mailContent{Type: "text/plain", Value: t})
	}
	if h := strings.TrimSpace(req.HTML); h != "" {
		contents = append(contents, mailContent{Type: "text/html", Value: h})
	}
	if len(contents) == 0 {
		return nil, fmt.Errorf("sendgrid: Text or HTML content required")
	}

	wire := mailSendRequest{
		Personalizations: []personalization{{To: req.To}},
		From:             req.From,
		Subject:          strings.TrimSpace(req.Subject),
		Content:          contents,
	}
	var apiErr errorResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(wire).
		SetError(&apiErr).
		Post("/v3/mail/send")
	if err != nil {
		return nil, fmt.Errorf("sendgrid: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(resp.String())
		if len(apiErr.Errors) > 0 && apiErr.Errors[0].Message != "" {
			msg = apiErr.Errors[0].Message
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode(), Message: msg}
	}
	return &SendEmailResult{
		StatusCode: resp.StatusCode(),
		MessageID:  strings.TrimSpace(resp.Header().Get("X-Message-Id")),
	}, nil
}
