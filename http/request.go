package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"

	// RequestIDHeader carries the per-request identifier.
	RequestIDHeader = "X-Request-Id"
)

// responseMode says how a response body is expected to arrive.
type responseMode int

const (
	// responseStructured asks for JSON and decodes it when possible.
	responseStructured responseMode = iota
	// responseText keeps the body as text; decoding is best effort only.
	responseText
)

// descriptor is everything needed to issue one request. It is built
// synchronously from validated input and never touches the network.
type descriptor struct {
	id     string
	method string
	rawURL string
	target *url.URL

	body        []byte
	hasBody     bool
	contentType string

	timeout   time.Duration
	family    int
	timing    bool
	mode      responseMode
	agent     *agent
	resolver  Resolver
	validator ResponseValidator
}

// newDescriptor validates the URL and the per-call options shared by all
// verbs and attaches the pooled agent, resolver and family constraint.
func (c *Client) newDescriptor(method, rawURL string, opts []CallOption) (*descriptor, error) {
	target, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	var cs callSettings
	for _, opt := range opts {
		if opt != nil {
			opt(&cs)
		}
	}

	timeout, err := c.effectiveTimeout(cs)
	if err != nil {
		return nil, err
	}

	validator := c.validator
	if cs.validator != nil {
		validator = cs.validator
	}

	return &descriptor{
		id:        uuid.NewString(),
		method:    method,
		rawURL:    rawURL,
		target:    target,
		timeout:   timeout,
		family:    FamilyIPv4,
		timing:    c.timing,
		mode:      responseStructured,
		agent:     c.pool.agentFor(target),
		resolver:  c.resolver,
		validator: validator,
	}, nil
}

func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, validationErrorf("url", "%v", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return nil, validationErrorf("url", "scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, validationErrorf("url", "missing host in %q", rawURL)
	}
	return u, nil
}

func (c *Client) effectiveTimeout(cs callSettings) (time.Duration, error) {
	if !cs.overridden {
		return c.timeout, nil
	}
	d, err := ValidateTimeout(cs.timeout, "timeoutMsecs")
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return c.timeout, nil
	}
	return d, nil
}

// buildGet assembles a GET. Non-empty params become the query string.
func (c *Client) buildGet(rawURL string, params any, opts []CallOption) (*descriptor, error) {
	p, err := ParamsFrom(params)
	if err != nil {
		return nil, err
	}
	d, err := c.newDescriptor(http.MethodGet, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if err := d.setQuery(p); err != nil {
		return nil, err
	}
	return d, nil
}

// buildPostForm assembles a form POST. Non-empty params become a
// form-encoded body and the response is kept as text.
func (c *Client) buildPostForm(rawURL string, params any, opts []CallOption) (*descriptor, error) {
	p, err := ParamsFrom(params)
	if err != nil {
		return nil, err
	}
	d, err := c.newDescriptor(http.MethodPost, rawURL, opts)
	if err != nil {
		return nil, err
	}
	d.mode = responseText
	if p != nil {
		encoded, err := p.Encode()
		if err != nil {
			return nil, err
		}
		d.setBody([]byte(encoded), contentTypeForm)
	}
	return d, nil
}

// buildPostJSON assembles a JSON POST. The body is mandatory.
func (c *Client) buildPostJSON(rawURL string, body Body, opts []CallOption) (*descriptor, error) {
	encoded, err := encodeJSONBody(body)
	if err != nil {
		return nil, err
	}
	d, err := c.newDescriptor(http.MethodPost, rawURL, opts)
	if err != nil {
		return nil, err
	}
	d.setBody(encoded, contentTypeJSON)
	return d, nil
}

// buildDelete assembles a DELETE with optional query params and an optional
// JSON body. A supplied body is sent verbatim, including an explicit null.
func (c *Client) buildDelete(rawURL string, params any, body Body, opts []CallOption) (*descriptor, error) {
	p, err := ParamsFrom(params)
	if err != nil {
		return nil, err
	}
	var encoded []byte
	if body.Supplied() {
		if encoded, err = encodeJSONBody(body); err != nil {
			return nil, err
		}
	}
	d, err := c.newDescriptor(http.MethodDelete, rawURL, opts)
	if err != nil {
		return nil, err
	}
	if err := d.setQuery(p); err != nil {
		return nil, err
	}
	if body.Supplied() {
		d.setBody(encoded, contentTypeJSON)
	}
	return d, nil
}

func encodeJSONBody(body Body) ([]byte, error) {
	if err := ValidateSerializable(body); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(body.Value())
	if err != nil {
		return nil, validationErrorf("body", "%v", err)
	}
	return encoded, nil
}

// setQuery appends p to any query already present in the URL.
func (d *descriptor) setQuery(p *Params) error {
	encoded, err := p.Encode()
	if err != nil {
		return err
	}
	if encoded == "" {
		return nil
	}
	if d.target.RawQuery != "" {
		d.target.RawQuery += "&" + encoded
	} else {
		d.target.RawQuery = encoded
	}
	return nil
}

func (d *descriptor) setBody(body []byte, contentType string) {
	d.body = body
	d.hasBody = true
	d.contentType = contentType
}

// httpRequest builds the *http.Request for ctx.
func (d *descriptor) httpRequest(ctx context.Context) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if d.hasBody {
		bodyReader = bytes.NewReader(d.body)
	}

	var req *http.Request
	var err error
	if bodyReader != nil {
		req, err = http.NewRequestWithContext(ctx, d.method, d.target.String(), bodyReader)
	} else {
		req, err = http.NewRequestWithContext(ctx, d.method, d.target.String(), nil)
	}
	if err != nil {
		return nil, err
	}

	if d.hasBody {
		req.Header.Set("Content-Type", d.contentType)
	}
	if d.mode == responseStructured {
		req.Header.Set("Accept", contentTypeJSON)
	}
	req.Header.Set(RequestIDHeader, d.id)
	return req, nil
}
