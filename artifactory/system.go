package artifactory

import (
	"context"
	"fmt"
	"net/http"
)

// SystemService groups the system and configuration operations.
type SystemService struct {
	service
}

// SystemInfo gets general system information.
func (s *SystemService) SystemInfo(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix,
		operation: s.label("System Info"),
	}, opts)
}

// Ping gets a simple status response about the state of the service.
func (s *SystemService) Ping(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "ping",
		operation: s.label("System Health Ping"),
	}, opts)
}

// GeneralConfiguration gets the general configuration (artifactory.config.xml).
func (s *SystemService) GeneralConfiguration(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "configuration",
		operation: s.label("General Configuration"),
	}, opts)
}

// SaveGeneralConfiguration posts the XML file at xmlPath as the new general configuration.
func (s *SystemService) SaveGeneralConfiguration(ctx context.Context, xmlPath string, opts ...CallOption) (*Result, error) {
	f, body, size, err := openUpload(xmlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer f.Close()

	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + "configuration",
		operation: s.label("Save General Configuration"),
		params:    Params{HeaderContentType: "application/xml"},
		body:      body,
		size:      size,
	}, opts)
}

// LicenseInformation retrieves information about the currently installed license.
func (s *SystemService) LicenseInformation(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "license",
		operation: s.label("Licence Information"),
	}, opts)
}

// InstallLicense installs a new license key or changes the current one.
//
// The service does not answer license errors with the standard error JSON,
// so failures here usually surface as a MalformedError.
func (s *SystemService) InstallLicense(ctx context.Context, params Params, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodPost,
		target:    s.prefix + "license",
		operation: s.label("Install License"),
		params:    params,
	}, opts)
}

// VersionAndAddons retrieves the service version, revision and installed add-ons.
func (s *SystemService) VersionAndAddons(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "version",
		operation: s.label("Versions and Add-ons Information"),
	}, opts)
}

// ReverseProxyConfiguration retrieves the reverse proxy configuration.
func (s *SystemService) ReverseProxyConfiguration(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "configuration/webServer",
		operation: s.label("Get Reverse Proxy Configuration"),
	}, opts)
}

// ReverseProxySnippet gets the nginx reverse proxy snippet in text format.
func (s *SystemService) ReverseProxySnippet(ctx context.Context, opts ...CallOption) (*Result, error) {
	return s.do(ctx, &call{
		verb:      http.MethodGet,
		target:    s.prefix + "configuration/reverseProxy/nginx",
		operation: s.label("Get Reverse Proxy Snippet"),
	}, opts)
}
