package artifactory

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Client represents an Artifactory REST API client
type Client struct {
	settings *settingsManager
	logger   zerolog.Logger
	out      io.Writer

	Artifacts    *ArtifactsService
	Builds       *BuildsService
	Repositories *RepositoriesService
	Searches     *SearchesService
	Security     *SecurityService
	Support      *SupportService
	System       *SystemService
}

// service is shared by every method category.
type service struct {
	client   *Client
	prefix   string
	category string
}

func (s *service) do(ctx context.Context, cl *call, opts []CallOption) (*Result, error) {
	return s.client.do(ctx, cl, opts)
}

// label returns the operation label used in diagnostics and errors.
func (s *service) label(name string) string {
	return s.category + name
}

// New creates a new client from settings. The settings are validated; a
// nil Session is replaced by a fresh *http.Client.
func New(settings Settings, opts ...Option) (*Client, error) {
	c := &Client{
		settings: newSettingsManager(settings.clone()),
		logger:   zerolog.Nop(),
		out:      os.Stdout,
	}
	if err := c.settings.Validate(); err != nil {
		return nil, err
	}
	c.settings.original = c.settings.current.clone()

	for _, opt := range opts {
		opt(c)
	}

	c.Artifacts = &ArtifactsService{service{c, "storage/", "[ARTIFACTS & STORAGE] : "}}
	c.Builds = &BuildsService{service{c, "build/", "[BUILDS] : "}}
	c.Repositories = &RepositoriesService{service{c, "repositories/", "[REPOSITORIES] : "}}
	c.Searches = &SearchesService{service{c, "search/", "[SEARCHES] : "}}
	c.Security = &SecurityService{service{c, "security/", "[SECURITY] : "}}
	c.Support = &SupportService{service{c, "support/", "[SUPPORT] : "}}
	c.System = &SystemService{service{c, "system/", "[SYSTEM & CONFIGURATION] : "}}

	return c, nil
}

// NewFromMap creates a new client from a settings map using the recognized
// keys (af_url, api_key, username, password, raw_response, verbose_level,
// session). Unrecognized keys are rejected.
func NewFromMap(provided map[string]any, opts ...Option) (*Client, error) {
	settings, err := ParseSettings(provided)
	if err != nil {
		return nil, err
	}
	return New(settings, opts...)
}

// Settings returns a copy of the client's current settings.
func (c *Client) Settings() Settings {
	return c.settings.current.clone()
}

// Call verifies connectivity with a system health ping.
func (c *Client) Call(ctx context.Context, opts ...CallOption) (*Result, error) {
	return c.System.Ping(ctx, opts...)
}

// do runs a call through build, dispatch and classification. A per-call
// settings override is undone on every exit path.
func (c *Client) do(ctx context.Context, cl *call, opts []CallOption) (*Result, error) {
	o := newCallOptions(opts)

	if o.settings != nil {
		if err := c.settings.Configure(o.settings); err != nil {
			return nil, err
		}
		defer c.settings.Restore()
		if err := c.settings.Validate(); err != nil {
			return nil, err
		}
	}

	s := c.settings.current
	cl.target = appendOptions(cl.target, o.options)
	url := cl.requestURL(s)

	req, err := buildRequest(ctx, s, cl)
	if err != nil {
		return nil, err
	}

	resp, err := c.dispatch(s, cl, url, req)
	if err != nil {
		return nil, err
	}

	return classify(s, cl, url, resp)
}
