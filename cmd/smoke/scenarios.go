package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type client struct {
	base string
	http *http.Client
}

func newClient(base string) *client {
	return &client{base: strings.TrimRight(base, "/"), http: &http.Client{}}
}

func (c *client) do(ctx context.Context, method, path, bearer string, body any) (int, map[string]any, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+"/"+strings.TrimLeft(path, "/"), rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return resp.StatusCode, nil, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, out, nil
}

type scenario struct {
	Name string
	Run  func(ctx context.Context, c *client) error
}

func buildUniqueUser() map[string]string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
	password := "ValidPass123!"
	return map[string]string{
		"first_name":       "Test" + suffix[:4],
		"last_name":        "User" + suffix[4:8],
		"email":            "test.user." + suffix + "@example.com",
		"username":         "user_" + suffix,
		"password":         password,
		"confirm_password": password,
	}
}

func expect(code, want int, body map[string]any, msg string) error {
	if code != want {
		return fmt.Errorf("expected status %d, got %d (%v)", want, code, body["msg"])
	}
	if msg != "" {
		got, _ := body["msg"].(string)
		if !strings.Contains(got, msg) {
			return fmt.Errorf("expected message %q, got %q", msg, got)
		}
	}
	return nil
}

func registerAndLogin(ctx context.Context, c *client) (map[string]string, string, error) {
	user := buildUniqueUser()
	code, body, err := c.do(ctx, http.MethodPost, "/auth/register", "", user)
	if err != nil {
		return nil, "", err
	}
	if err := expect(code, http.StatusCreated, body, ""); err != nil {
		return nil, "", fmt.Errorf("register: %w", err)
	}
	code, body, err = c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"username": user["username"], "password": user["password"],
	})
	if err != nil {
		return nil, "", err
	}
	if err := expect(code, http.StatusOK, body, "Login successful"); err != nil {
		return nil, "", fmt.Errorf("login: %w", err)
	}
	tok, _ := body["access_token"].(string)
	if tok == "" {
		return nil, "", fmt.Errorf("login: no access token returned")
	}
	return user, tok, nil
}

func scenarios() []scenario {
	return []scenario{
		{"register_success", func(ctx context.Context, c *client) error {
			code, body, err := c.do(ctx, http.MethodPost, "/auth/register", "", buildUniqueUser())
			if err != nil {
				return err
			}
			return expect(code, http.StatusCreated, body, "Registration successful")
		}},
		{"register_short_password", func(ctx context.Context, c *client) error {
			user := buildUniqueUser()
			user["password"], user["confirm_password"] = "Ab1", "Ab1"
			code, body, err := c.do(ctx, http.MethodPost, "/auth/register", "", user)
			if err != nil {
				return err
			}
			return expect(code, http.StatusBadRequest, body, "Password must be at least 8 characters long")
		}},
		{"login_success", func(ctx context.Context, c *client) error {
			_, tok, err := registerAndLogin(ctx, c)
			if err != nil {
				return err
			}
			code, body, err := c.do(ctx, http.MethodGet, "/profile", tok, nil)
			if err != nil {
				return err
			}
			return expect(code, http.StatusOK, body, "")
		}},
		{"login_invalid_password", func(ctx context.Context, c *client) error {
			user := buildUniqueUser()
			code, body, err := c.do(ctx, http.MethodPost, "/auth/register", "", user)
			if err != nil {
				return err
			}
			if err := expect(code, http.StatusCreated, body, ""); err != nil {
				return err
			}
			code, body, err = c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
				"username": user["username"], "password": "WrongPass123!",
			})
			if err != nil {
				return err
			}
			return expect(code, http.StatusUnauthorized, body, "Invalid username or password")
		}},
		{"logout_revokes_token", func(ctx context.Context, c *client) error {
			_, tok, err := registerAndLogin(ctx, c)
			if err != nil {
				return err
			}
			code, body, err := c.do(ctx, http.MethodPost, "/auth/logout", tok, nil)
			if err != nil {
				return err
			}
			if err := expect(code, http.StatusOK, body, ""); err != nil {
				return err
			}
			code, body, err = c.do(ctx, http.MethodGet, "/profile", tok, nil)
			if err != nil {
				return err
			}
			return expect(code, http.StatusUnauthorized, body, "revoked")
		}},
		{"refresh_rotates_token", func(ctx context.Context, c *client) error {
			_, tok, err := registerAndLogin(ctx, c)
			if err != nil {
				return err
			}
			code, body, err := c.do(ctx, http.MethodPost, "/auth/refresh", tok, nil)
			if err != nil {
				return err
			}
			if err := expect(code, http.StatusOK, body, ""); err != nil {
				return err
			}
			code, body, err = c.do(ctx, http.MethodGet, "/profile", tok, nil)
			if err != nil {
				return err
			}
			return expect(code, http.StatusUnauthorized, body, "revoked")
		}},
	}
}
