package artifactory

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSettings(t *testing.T) {
	tests := []struct {
		name     string
		provided map[string]any
		wantErr  bool
		errMsg   string
	}{
		{
			name:     "api key",
			provided: map[string]any{KeyURL: "http://localhost:8081/artifactory", KeyAPIKey: "key"},
		},
		{
			name:     "username and password",
			provided: map[string]any{KeyURL: "http://localhost:8081/artifactory", KeyUsername: "admin", KeyPassword: "secret"},
		},
		{
			name:     "missing URL",
			provided: map[string]any{KeyAPIKey: "key"},
			wantErr:  true,
			errMsg:   "must be provided",
		},
		{
			name:     "missing auth",
			provided: map[string]any{KeyURL: "http://localhost:8081/artifactory"},
			wantErr:  true,
			errMsg:   "must be provided",
		},
		{
			name:     "username without password",
			provided: map[string]any{KeyURL: "http://localhost:8081/artifactory", KeyUsername: "admin"},
			wantErr:  true,
			errMsg:   "must be provided",
		},
		{
			name:     "api key and username",
			provided: map[string]any{KeyURL: "http://localhost:8081/artifactory", KeyAPIKey: "key", KeyUsername: "admin"},
			wantErr:  true,
			errMsg:   "can't be provided at the same time",
		},
		{
			name:     "unrecognized keys",
			provided: map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key", "timeout": 5, "proxy": "x"},
			wantErr:  true,
			errMsg:   `offending key(s) supplied: "proxy" "timeout"`,
		},
		{
			name:     "raw_response not a bool",
			provided: map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key", KeyRawResponse: "yes"},
			wantErr:  true,
			errMsg:   KeyRawResponse,
		},
		{
			name:     "verbose level out of range",
			provided: map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key", KeyVerboseLevel: 2},
			wantErr:  true,
			errMsg:   KeyVerboseLevel,
		},
		{
			name:     "verbose level bool",
			provided: map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key", KeyVerboseLevel: true},
			wantErr:  true,
			errMsg:   KeyVerboseLevel,
		},
		{
			name:     "nil session",
			provided: map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key", KeySession: (*http.Client)(nil)},
			wantErr:  true,
			errMsg:   KeySession,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSettings(tt.provided)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidSettings))
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestParseSettingsDerivedValues(t *testing.T) {
	t.Run("api key mode", func(t *testing.T) {
		s, err := ParseSettings(map[string]any{
			KeyURL:    "http://localhost:8081/artifactory/",
			KeyAPIKey: "key",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8081/artifactory", s.URL)
		assert.Equal(t, "http://localhost:8081/artifactory/api/", s.APIEndpoint())
		assert.Nil(t, s.Auth())
		assert.NotNil(t, s.Session)
	})

	t.Run("basic auth mode", func(t *testing.T) {
		s, err := ParseSettings(map[string]any{
			KeyURL:      "http://localhost:8081/artifactory",
			KeyUsername: "admin",
			KeyPassword: "secret",
		})
		require.NoError(t, err)
		require.NotNil(t, s.Auth())
		assert.Equal(t, BasicAuth{Username: "admin", Password: "secret"}, *s.Auth())
	})

	t.Run("numeric verbose level from decoders", func(t *testing.T) {
		s, err := ParseSettings(map[string]any{
			KeyURL:          "http://localhost",
			KeyAPIKey:       "key",
			KeyVerboseLevel: float64(1),
		})
		require.NoError(t, err)
		assert.Equal(t, 1, s.VerboseLevel)
	})
}

func TestSettingsManagerConfigure(t *testing.T) {
	base, err := ParseSettings(map[string]any{KeyURL: "http://localhost", KeyAPIKey: "key"})
	require.NoError(t, err)

	t.Run("configure then restore", func(t *testing.T) {
		m := newSettingsManager(base)
		require.NoError(t, m.Configure(map[string]any{KeyRawResponse: true, KeyVerboseLevel: 1}))
		assert.True(t, m.current.RawResponse)
		assert.Equal(t, 1, m.current.VerboseLevel)

		m.Restore()
		assert.False(t, m.current.RawResponse)
		assert.Equal(t, 0, m.current.VerboseLevel)
	})

	t.Run("rejected configure changes nothing", func(t *testing.T) {
		m := newSettingsManager(base)
		err := m.Configure(map[string]any{KeyRawResponse: true, KeyVerboseLevel: 7})
		require.Error(t, err)
		assert.False(t, m.current.RawResponse)

		var cfgErr *ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, []string{KeyVerboseLevel}, cfgErr.Keys)
	})

	t.Run("unrecognized key changes nothing", func(t *testing.T) {
		m := newSettingsManager(base)
		err := m.Configure(map[string]any{KeyAPIKey: "other", "bogus": 1})
		require.Error(t, err)
		assert.Equal(t, "key", m.current.APIKey)
	})

	t.Run("nil clears a string setting", func(t *testing.T) {
		m := newSettingsManager(base)
		require.NoError(t, m.Configure(map[string]any{
			KeyAPIKey:   nil,
			KeyUsername: "admin",
			KeyPassword: "secret",
		}))
		require.NoError(t, m.Validate())
		assert.Empty(t, m.current.APIKey)
		require.NotNil(t, m.current.Auth())
		assert.Equal(t, "admin", m.current.Auth().Username)
	})

	t.Run("session is shared", func(t *testing.T) {
		session := &http.Client{}
		m := newSettingsManager(base)
		require.NoError(t, m.Configure(map[string]any{KeySession: session}))
		assert.Same(t, session, m.current.Session)
	})
}
