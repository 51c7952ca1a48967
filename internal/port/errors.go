package port

import "errors"

// Sentinel errors used across ports.
var (
	// ErrUserNotFound maps a 404 from the GitHub profile endpoint. The text is
	// surfaced verbatim to the chat agent, so keep it human-readable.
	ErrUserNotFound = errors.New("User not found")

	// ErrRateLimited maps a 403 from the GitHub API.
	ErrRateLimited = errors.New("GitHub API rate limit exceeded")

	// ErrNoResults is returned when a web search yields nothing to research.
	ErrNoResults = errors.New("no search results found")

	// ErrNoCandidates is returned when every profile in a ranking request failed.
	ErrNoCandidates = errors.New("no candidates could be scored")
)
