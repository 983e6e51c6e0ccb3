// Package artifactory provides a client for the Artifactory REST API.
//
// Every endpoint method builds a request, dispatches it over the configured
// *http.Client and classifies the response. Methods are grouped by category
// on the Client: Artifacts, Builds, Repositories, Searches, Security,
// Support and System.
//
// # Usage
//
// Create a client with either an API key or a username and password:
//
//	client, err := artifactory.NewFromMap(map[string]any{
//		"af_url":  "https://artifactory.example.com/artifactory",
//		"api_key": "your-api-key",
//	}, artifactory.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := client.System.VersionAndAddons(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(result.Data)
//
// # Results
//
// A successful call returns a *Result whose Kind tells how to read it:
//
//   - KindJSON: Data holds the decoded payload
//   - KindText: Text holds the body when it is not JSON
//   - KindBinary: downloads; read with Bytes or WriteTo
//   - KindRaw: the untouched *http.Response when "raw_response" is set
//
// # Per-call settings
//
// WithSettings overrides settings for a single call and restores them
// afterwards, whatever the outcome:
//
//	client.System.Ping(ctx, artifactory.WithSettings(map[string]any{
//		"verbose_level": 1,
//	}))
//
// Overrides mutate the shared client for the duration of the call, so a
// client receiving overrides must not be used concurrently.
//
// # Error Handling
//
// The package defines several error types:
//
//   - ConfigurationError: invalid settings (wraps ErrInvalidSettings)
//   - PreconditionError: rejected arguments (wraps ErrPrecondition)
//   - APIError: standard error responses with status and message
//   - MalformedError: error responses without the standard error JSON
//
// API errors include helper methods for classification:
//
//	var apiErr *artifactory.APIError
//	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
//		// Handle missing item
//	}
package artifactory
