package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"realtime_chat_service/internal/chat/domain"

	errprocess "realtime_chat_service/pkg/err"
)

// MemberDirectory read-only view of the member service
type MemberDirectory interface {
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	SearchUsers(ctx context.Context, query string) ([]domain.User, error)
}

type httpMemberDirectory struct {
	baseURL string
	client  *http.Client
}

// NewHTTPMemberDirectory create a member directory backed by the member
// service REST API
func NewHTTPMemberDirectory(baseURL string) MemberDirectory {
	return &httpMemberDirectory{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

// GetUser fetch one user by id
func (d *httpMemberDirectory) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := d.get(ctx, fmt.Sprintf("%s/member/users/%s", d.baseURL, url.PathEscape(userID)), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchUsers match users by name, email or mobile
func (d *httpMemberDirectory) SearchUsers(ctx context.Context, query string) ([]domain.User, error) {
	var users []domain.User
	u := fmt.Sprintf("%s/member/users?q=%s", d.baseURL, url.QueryEscape(query))
	if err := d.get(ctx, u, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (d *httpMemberDirectory) get(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errprocess.Transientf("member service unreachable: %v", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return errprocess.NotFoundf("member service: %s", rawURL)
	default:
		return errprocess.Transientf("member service status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
