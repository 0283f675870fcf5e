package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/slack-go/slack"
)

// readVerifiedBody reads the request body and checks its Slack signature
func readVerifiedBody(r *http.Request, signingSecret string) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, signingSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid secret verifier: %w", err)
	}

	if _, err := verifier.Write(body); err != nil {
		return nil, fmt.Errorf("failed to hash body: %w", err)
	}

	if err := verifier.Ensure(); err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	return body, nil
}
