// Package client talks to a running SAKTI API on behalf of the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/sakti/internal/approval"
	"github.com/frahmantamala/sakti/internal/auth"
	"github.com/frahmantamala/sakti/internal/changerequest"
	"github.com/frahmantamala/sakti/internal/core/user"
	"github.com/frahmantamala/sakti/internal/dashboard"
	"github.com/frahmantamala/sakti/internal/notification"
	"github.com/frahmantamala/sakti/internal/session"
)

// ErrNotLoggedIn is returned before any request that needs a session when
// the store holds none.
var ErrNotLoggedIn = errors.New("not logged in, run `sakti login`")

// APIError is a non-success envelope or an unexpected status.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%d %s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

type Client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
	logger  *slog.Logger
}

func New(baseURL string, timeout time.Duration, store *session.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		store:   store,
		logger:  logger,
	}
}

func (c *Client) Store() *session.Store {
	return c.store
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.store.GetToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "malformed response"}
	}
	if !env.Success || resp.StatusCode >= http.StatusBadRequest {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Code: env.Code, Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) requireSession() error {
	if !c.store.IsAuthenticated() {
		return ErrNotLoggedIn
	}
	return nil
}

// Login stores the session on success. On failure the store is untouched.
func (c *Client) Login(ctx context.Context, username, password string) (*session.Session, error) {
	var result auth.LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, auth.LoginDTO{Username: username, Password: password}, &result); err != nil {
		return nil, err
	}
	sess := session.Session{Token: result.Token, User: result.User}
	if err := c.store.Save(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout revokes the token server side when possible and always clears the
// local session.
func (c *Client) Logout(ctx context.Context) error {
	if c.store.GetToken() != "" {
		if err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil); err != nil {
			c.logger.Warn("server logout failed", "error", err)
		}
	}
	return c.store.Logout()
}

// Profile asks the server for the current user and falls back to the stored
// one on any failure.
func (c *Client) Profile(ctx context.Context) (*user.User, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var u user.User
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, nil, &u); err != nil {
		c.logger.Debug("profile fetch failed, using stored user", "error", err)
		return c.store.GetUser(), nil
	}
	return &u, nil
}

func (c *Client) Notifications(ctx context.Context) ([]notification.Notification, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	items := []notification.Notification{}
	err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &items)
	return items, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if err := c.requireSession(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/notifications/"+url.PathEscape(id)+"/read", nil, nil, nil)
}

func (c *Client) DashboardSummary(ctx context.Context) (*dashboard.Summary, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var s dashboard.Summary
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary", nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) WeeklyTrend(ctx context.Context, weekStart string) (*dashboard.WeeklyTrend, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	q := url.Values{}
	if weekStart != "" {
		q.Set("week_start", weekStart)
	}
	var t dashboard.WeeklyTrend
	if err := c.do(ctx, http.MethodGet, "/dashboard/weekly-trend", q, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func listValues(search, status, typ, expr string) url.Values {
	q := url.Values{}
	for k, v := range map[string]string{"search": search, "status": status, "type": typ, "expr": expr} {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}

func (c *Client) ChangeRequests(ctx context.Context, lq changerequest.ListQuery) ([]changerequest.ChangeRequest, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	items := []changerequest.ChangeRequest{}
	err := c.do(ctx, http.MethodGet, "/change-requests", listValues(lq.Search, lq.Status, lq.Type, lq.Expr), nil, &items)
	return items, err
}

func (c *Client) ChangeRequest(ctx context.Context, id string) (*changerequest.Detail, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var d changerequest.Detail
	if err := c.do(ctx, http.MethodGet, "/change-requests/"+url.PathEscape(id), nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) CreateChangeRequest(ctx context.Context, dto changerequest.CreateDTO) (*changerequest.Detail, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var d changerequest.Detail
	if err := c.do(ctx, http.MethodPost, "/change-requests", nil, dto, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) Approvals(ctx context.Context, lq approval.ListQuery) ([]approval.Approval, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	items := []approval.Approval{}
	err := c.do(ctx, http.MethodGet, "/approvals", listValues(lq.Search, lq.Status, lq.Type, lq.Expr), nil, &items)
	return items, err
}

func (c *Client) Approve(ctx context.Context, id int64) (*approval.Approval, error) {
	return c.decide(ctx, id, "approve", nil)
}

func (c *Client) Reject(ctx context.Context, id int64, reason string) (*approval.Approval, error) {
	return c.decide(ctx, id, "reject", approval.RejectDTO{Reason: reason})
}

func (c *Client) decide(ctx context.Context, id int64, action string, body interface{}) (*approval.Approval, error) {
	if err := c.requireSession(); err != nil {
		return nil, err
	}
	var a approval.Approval
	path := "/approvals/" + strconv.FormatInt(id, 10) + "/" + action
	if err := c.do(ctx, http.MethodPost, path, nil, body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
