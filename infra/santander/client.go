// Package santander fetches the account statement from the Santander
// statement API over mutual TLS.
package santander

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/radhian/pix-reconciliation/config"
	"github.com/radhian/pix-reconciliation/entity"
)

// alternate certificate name looked up when the configured one is absent
const fallbackCertFile = "santander.pem"

const maxBodyBytes = 10 << 20

// Client implements reconciliation.StatementSource.
type Client struct {
	cfg     config.StatementConfig
	rootCAs *x509.CertPool
}

type Option func(*Client)

// WithRootCAs overrides the system trust store used to verify the bank.
func WithRootCAs(pool *x509.CertPool) Option {
	return func(c *Client) { c.rootCAs = pool }
}

func NewClient(cfg config.StatementConfig, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	c := &Client{cfg: cfg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CertificatePaths returns the certificate and key file to present to the
// bank. The key must exist; the certificate falls back to santander.pem.
func (c *Client) CertificatePaths() (certPath, keyPath string, err error) {
	keyPath = c.cfg.KeyPath()
	if !fileExists(keyPath) {
		return "", "", fmt.Errorf("%w: private key not found at %s", entity.ErrCredentialNotProvisioned, keyPath)
	}

	certPath = c.cfg.CertPath()
	if fileExists(certPath) {
		return certPath, keyPath, nil
	}
	alt := filepath.Join(c.cfg.CertDir, fallbackCertFile)
	if fileExists(alt) {
		return alt, keyPath, nil
	}
	return "", "", fmt.Errorf("%w: certificate not found at %s (or %s)", entity.ErrCredentialNotProvisioned, certPath, alt)
}

// CheckCredentials reports ErrCredentialNotProvisioned when the certificate
// pair is missing on disk. It touches only the filesystem.
func (c *Client) CheckCredentials() error {
	_, _, err := c.CertificatePaths()
	return err
}

// FetchEntries downloads and normalizes the statement of the last lookbackDays.
// The certificate pair is loaded on every call, so a missing pair is reported
// before any connection is attempted and a newly provisioned one is picked up
// without a restart.
func (c *Client) FetchEntries(ctx context.Context, lookbackDays int) ([]entity.StatementEntry, error) {
	httpClient, err := c.httpClient()
	if err != nil {
		return nil, err
	}
	defer httpClient.CloseIdleConnections()

	endpoint, err := c.statementURL(lookbackDays)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build statement request: %v", entity.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	log.Infof("[StatementClient] Fetching statement (days=%d)", lookbackDays)
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: statement request: %v", entity.ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read statement body: %v", entity.ErrUpstream, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: statement API returned status %d", entity.ErrUpstream, resp.StatusCode)
	}

	var payload interface{}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode statement: %v", entity.ErrUpstream, err)
	}

	entries := NormalizeStatement(payload)
	log.Infof("[StatementClient] Received %d statement entries", len(entries))
	return entries, nil
}

func (c *Client) httpClient() (*http.Client, error) {
	certPath, keyPath, err := c.CertificatePaths()
	if err != nil {
		return nil, err
	}
	pair, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load certificate pair: %v", entity.ErrCredentialNotProvisioned, err)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			Certificates: []tls.Certificate{pair},
			RootCAs:      c.rootCAs,
			MinVersion:   tls.VersionTLS12,
		},
		IdleConnTimeout: 90 * time.Second,
	}
	return &http.Client{Transport: transport, Timeout: c.cfg.Timeout}, nil
}

func (c *Client) statementURL(lookbackDays int) (string, error) {
	base := c.cfg.BaseURL
	if c.cfg.Account != "" {
		base += "/contas/" + url.PathEscape(c.cfg.Account) + "/extrato"
	} else {
		base += "/extrato"
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: invalid statement URL: %v", entity.ErrUpstream, err)
	}
	q := u.Query()
	q.Set("dias", strconv.Itoa(lookbackDays))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
