package artifactory

import (
	"fmt"
	"net/http"
)

// dispatch performs a single attempt over the shared session. Transport
// errors are returned as-is.
func (c *Client) dispatch(s Settings, cl *call, url string, req *http.Request) (*http.Response, error) {
	if s.VerboseLevel >= 1 {
		fmt.Fprintf(c.out, "\n\nPerforming Artifactory REST API operation : %s\nVerb : %s\nURL : %s",
			cl.operation, cl.verb, url)
	}

	c.logger.Debug().
		Str("operation", cl.operation).
		Str("method", cl.verb).
		Str("url", url).
		Msg("Making Artifactory API request")

	resp, err := s.Session.Do(req)
	if err != nil {
		return nil, err
	}

	if s.VerboseLevel >= 1 {
		fmt.Fprintf(c.out, "\nStatus Code : %d\n", resp.StatusCode)
	}

	c.logger.Debug().
		Str("operation", cl.operation).
		Int("status", resp.StatusCode).
		Msg("Artifactory API response")

	return resp, nil
}
