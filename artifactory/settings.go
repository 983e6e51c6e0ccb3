package artifactory

import (
	"fmt"
	"math"
	"net/http"
	"slices"
	"sort"
	"strings"
)

// Recognized setting keys. These are the only keys accepted by NewFromMap,
// ParseSettings and WithSettings.
const (
	KeyURL          = "af_url"
	KeyAPIKey       = "api_key"
	KeyUsername     = "username"
	KeyPassword     = "password"
	KeyRawResponse  = "raw_response"
	KeyVerboseLevel = "verbose_level"
	KeySession      = "session"
)

// apiPath is appended to the service URL to form the management endpoint root.
const apiPath = "/api/"

var settingKeys = []string{
	KeyURL,
	KeyAPIKey,
	KeyUsername,
	KeyPassword,
	KeyRawResponse,
	KeyVerboseLevel,
	KeySession,
}

var verboseLevels = []int{0, 1}

// BasicAuth holds the username/password pair used when no API key is set.
type BasicAuth struct {
	Username string
	Password string
}

// Settings is the connection configuration of a Client.
type Settings struct {
	// URL is the service base URL, e.g. "https://host/artifactory"
	URL      string
	APIKey   string
	Username string
	Password string
	// RawResponse returns the unprocessed *http.Response from every call
	RawResponse bool
	// VerboseLevel is 0 (silent) or 1 (print operation, verb, URL and status)
	VerboseLevel int
	// Session is shared by every call for connection pooling
	Session *http.Client

	auth        *BasicAuth
	apiEndpoint string
}

// Auth returns the derived basic auth pair, or nil in API key mode.
func (s Settings) Auth() *BasicAuth {
	if s.auth == nil {
		return nil
	}
	a := *s.auth
	return &a
}

// APIEndpoint returns the derived management endpoint root.
func (s Settings) APIEndpoint() string {
	return s.apiEndpoint
}

// clone returns a copy that shares only the session.
func (s Settings) clone() Settings {
	c := s
	if s.auth != nil {
		a := *s.auth
		c.auth = &a
	}
	return c
}

func defaultSettings() Settings {
	return Settings{
		Session: &http.Client{},
	}
}

// ParseSettings converts a settings map into Settings, applying it over the
// defaults and validating the result.
func ParseSettings(provided map[string]any) (Settings, error) {
	m := newSettingsManager(defaultSettings())
	if err := m.Configure(provided); err != nil {
		return Settings{}, err
	}
	if err := m.Validate(); err != nil {
		return Settings{}, err
	}
	return m.current.clone(), nil
}

// settingsManager owns the current settings and the snapshot taken by the
// last Configure call.
type settingsManager struct {
	current  Settings
	original Settings
}

func newSettingsManager(initial Settings) *settingsManager {
	if initial.Session == nil {
		initial.Session = &http.Client{}
	}
	initial.URL = strings.TrimRight(initial.URL, "/")
	return &settingsManager{
		current:  initial,
		original: initial.clone(),
	}
}

// Configure snapshots the current settings and applies provided over them.
// Either every key is applied or none is.
func (m *settingsManager) Configure(provided map[string]any) error {
	if err := checkSettingKeys(provided); err != nil {
		return err
	}

	staged := m.current.clone()
	for key, value := range provided {
		if err := applySetting(&staged, key, value); err != nil {
			return err
		}
	}

	m.original = m.current.clone()
	m.current = staged
	return nil
}

// Validate checks authentication and flag values, then derives the auth pair
// and the endpoint root.
func (m *settingsManager) Validate() error {
	s := &m.current

	if s.URL == "" || (s.APIKey == "" && (s.Username == "" || s.Password == "")) {
		return &ConfigurationError{
			Message: fmt.Sprintf("an %s, and %s or %s and %s must be provided to set the user settings",
				KeyURL, KeyAPIKey, KeyUsername, KeyPassword),
		}
	}

	if s.APIKey != "" && (s.Username != "" || s.Password != "") {
		return &ConfigurationError{
			Message: fmt.Sprintf("an %s and %s and %s can't be provided at the same time",
				KeyAPIKey, KeyUsername, KeyPassword),
		}
	}

	s.auth = nil
	if s.Username != "" && s.Password != "" {
		s.auth = &BasicAuth{Username: s.Username, Password: s.Password}
	}
	s.apiEndpoint = s.URL + apiPath

	if !slices.Contains(verboseLevels, s.VerboseLevel) {
		return &ConfigurationError{
			Message: fmt.Sprintf("%s must be %v", KeyVerboseLevel, verboseLevels),
			Keys:    []string{KeyVerboseLevel},
		}
	}
	if s.Session == nil {
		return &ConfigurationError{
			Message: KeySession + " must be a non-nil *http.Client",
			Keys:    []string{KeySession},
		}
	}

	return nil
}

// Restore replaces the current settings with the snapshot taken by Configure.
func (m *settingsManager) Restore() {
	m.current = m.original.clone()
}

// checkSettingKeys rejects any key that is not a recognized setting.
func checkSettingKeys(provided map[string]any) error {
	var offending []string
	for key := range provided {
		if !slices.Contains(settingKeys, key) {
			offending = append(offending, key)
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)

	quoted := make([]string, len(settingKeys))
	for i, key := range settingKeys {
		quoted[i] = fmt.Sprintf("%q", key)
	}
	bad := make([]string, len(offending))
	for i, key := range offending {
		bad[i] = fmt.Sprintf("%q", key)
	}

	return &ConfigurationError{
		Message: fmt.Sprintf("%s are the only settings that can be provided, offending key(s) supplied: %s",
			strings.Join(quoted, " "), strings.Join(bad, " ")),
		Keys: offending,
	}
}

func applySetting(s *Settings, key string, value any) error {
	switch key {
	case KeyURL, KeyAPIKey, KeyUsername, KeyPassword:
		str, err := settingString(key, value)
		if err != nil {
			return err
		}
		switch key {
		case KeyURL:
			s.URL = strings.TrimRight(str, "/")
		case KeyAPIKey:
			s.APIKey = str
		case KeyUsername:
			s.Username = str
		case KeyPassword:
			s.Password = str
		}
	case KeyRawResponse:
		b, ok := value.(bool)
		if !ok {
			return &ConfigurationError{
				Message: fmt.Sprintf("%s must be [false true], got %v", KeyRawResponse, value),
				Keys:    []string{key},
			}
		}
		s.RawResponse = b
	case KeyVerboseLevel:
		level, ok := settingInt(value)
		if !ok || !slices.Contains(verboseLevels, level) {
			return &ConfigurationError{
				Message: fmt.Sprintf("%s must be %v, got %v", KeyVerboseLevel, verboseLevels, value),
				Keys:    []string{key},
			}
		}
		s.VerboseLevel = level
	case KeySession:
		session, ok := value.(*http.Client)
		if !ok || session == nil {
			return &ConfigurationError{
				Message: KeySession + " must be a non-nil *http.Client",
				Keys:    []string{key},
			}
		}
		s.Session = session
	}
	return nil
}

// settingString accepts a string or nil (which clears the setting).
func settingString(key string, value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", &ConfigurationError{
			Message: fmt.Sprintf("%s must be a string, got %T", key, value),
			Keys:    []string{key},
		}
	}
}

// settingInt accepts the integer shapes produced by Go code, YAML and JSON decoders.
func settingInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return int(v), true
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	case float32:
		if float64(v) == math.Trunc(float64(v)) {
			return int(v), true
		}
	}
	return 0, false
}
