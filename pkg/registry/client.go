package registry

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const contentType = "application/vnd.schemaregistry.v1+json"

// Outcome is the status and raw body of a registry response.
type Outcome struct {
	Status int
	Body   string
}

// OK reports whether the registry answered with 200.
func (o Outcome) OK() bool {
	return o.Status == http.StatusOK
}

// Client performs single requests against the schema registry.
type Client struct {
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient returns a client with its own http.Client. Connections are not
// shared between clients. tlsConfig may be nil.
func NewClient(tlsConfig *tls.Config, log logrus.FieldLogger) *Client {
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		TLSClientConfig: tlsConfig,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		log:        log,
	}
}

// Do sends the request and returns the response regardless of its status.
// Only failures to talk to the registry at all are returned as errors.
func (c *Client) Do(ctx context.Context, ep Endpoint, body *string) (Outcome, error) {
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(*body)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, ep.URL, reader)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "cannot create registry request")
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	c.log.Debugf("%s %s", ep.Method, ep.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "registry request failed")
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, errors.Wrap(err, "cannot read registry response")
	}

	c.log.Debugf("registry answered %d (%d bytes)", resp.StatusCode, len(out))

	return Outcome{Status: resp.StatusCode, Body: string(out)}, nil
}
