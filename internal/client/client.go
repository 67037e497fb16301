package client

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// CVP REST endpoints used by this tool
const (
	LoginPath        = "/web/login/authenticate.do"
	DevicesPath      = "/cvpservice/inventory/devices"
	DeviceConfigPath = "/cvpservice/inventory/device/config"
)

// SessionCookie is the cookie CVP issues on a successful login.
const SessionCookie = "access_token"

type CVPClient struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	Host     string // hostname or IP, optionally with scheme and port
	Username string
	Password string

	// InsecureSkipVerify disables certificate checks; CVP usually runs with a self-signed cert.
	InsecureSkipVerify bool
	// LoginTimeout bounds the authentication call only.
	LoginTimeout time.Duration

	// RetryCount > 0 enables retries of transport failures.
	RetryCount int
	RetryWait  time.Duration
}

// LoginPayload matches the JSON body required by POST /web/login/authenticate.do
type LoginPayload struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

func New(cfg ClientConfig) *CVPClient {
	if cfg.LoginTimeout <= 0 {
		cfg.LoginTimeout = 5 * time.Second
	}

	r := resty.New()
	r.SetBaseURL(BaseURL(cfg.Host))
	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")
	r.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify})

	// Session cookies are attached explicitly after login.
	r.SetCookieJar(nil)

	if cfg.RetryCount > 0 {
		wait := cfg.RetryWait
		if wait <= 0 {
			wait = time.Second
		}
		r.SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(wait).
			SetRetryMaxWaitTime(wait)
	}

	return &CVPClient{
		HTTP:   r,
		Config: cfg,
	}
}

// BaseURL turns a bare CVP host into an https URL.
func BaseURL(host string) string {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

// Login authenticates with CVP, attaches the session cookies to the client
// and returns the session token.
func (c *CVPClient) Login(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Config.LoginTimeout)
	defer cancel()

	payload := LoginPayload{
		UserID:   c.Config.Username,
		Password: c.Config.Password,
	}

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetBody(payload).
		Post(LoginPath)
	if err != nil {
		return "", &TransportError{Host: c.Config.Host, Endpoint: LoginPath, Err: err}
	}

	if resp.StatusCode() != http.StatusOK {
		return "", &StatusError{Host: c.Config.Host, Endpoint: LoginPath, StatusCode: resp.StatusCode()}
	}

	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return "", ErrNoSession
	}

	// Replace, not append: a relogin must drop the expired session.
	c.HTTP.Cookies = nil
	c.HTTP.SetCookies(cookies)

	token := cookies[0].Value
	for _, ck := range cookies {
		if ck.Name == SessionCookie {
			token = ck.Value
			break
		}
	}
	return token, nil
}
