// Package spoolman looks up spool records from a Spoolman inventory server.
package spoolman

import (
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
)

// ErrRetrieval is returned when a spool record cannot be fetched.
var ErrRetrieval = errors.New("could not retrieve spool")

type Vendor struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Filament struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Material string  `json:"material,omitempty"`
	Vendor   *Vendor `json:"vendor,omitempty"`
}

type Spool struct {
	ID       int      `json:"id"`
	Filament Filament `json:"filament"`
}

// VendorName returns the filament vendor's name, or "" if the filament has none.
func (s *Spool) VendorName() string {
	if s.Filament.Vendor == nil {
		return ""
	}
	return s.Filament.Vendor.Name
}

type Client struct {
	base *url.URL
	http *http.Client
}

// NewClient returns a client for the Spoolman server at base, e.g.
// "http://spoolman.local:7912".
func NewClient(base string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid spoolman address %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid spoolman address %q: scheme must be http or https", base)
	}
	return &Client{
		base: u,
		http: &http.Client{Timeout: timeout},
	}, nil
}

// Spool fetches GET {base}/api/v1/spool/{id}. Any non-2xx response is an
// ErrRetrieval; requests are not retried.
func (c *Client) Spool(ctx context.Context, id int) (*Spool, error) {
	u := c.base.JoinPath("api", "v1", "spool", strconv.Itoa(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrRetrieval, id, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w %d: %w", ErrRetrieval, id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s: %s", ErrRetrieval, id, resp.Status, strings.TrimSpace(string(detail)))
	}

	var spool Spool
	if err := json.NewDecoder(resp.Body).Decode(&spool); err != nil {
		return nil, fmt.Errorf("%w %d: could not decode response: %w", ErrRetrieval, id, err)
	}
	return &spool, nil
}
