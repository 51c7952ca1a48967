package port

import (
	"context"
	"time"

	"github.com/hireloop/devscout/internal/domain"
)

// Profile is a raw GitHub user as returned by the REST API.
type Profile struct {
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Bio         string    `json:"bio"`
	Location    string    `json:"location"`
	Company     string    `json:"company"`
	Blog        string    `json:"blog"`
	Email       string    `json:"email"`
	AvatarURL   string    `json:"avatar_url"`
	Hireable    bool      `json:"hireable"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// Repository is a raw GitHub repository as returned by the REST API.
type Repository struct {
	Name        string    `json:"name"`
	FullName    string    `json:"full_name"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Fork        bool      `json:"fork"`
	Topics      []string  `json:"topics"`
	HTMLURL     string    `json:"html_url"`
	PushedAt    time.Time `json:"pushed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Event is a raw GitHub public event. Only the type and timestamp matter
// for activity classification.
type Event struct {
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Contributor is one entry from a repository's contributor list.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	Contributions int    `json:"contributions"`
}

// GitHubProvider abstracts the GitHub REST and GraphQL APIs.
type GitHubProvider interface {
	// Profile fetches a single user. Returns ErrUserNotFound on 404 and
	// ErrRateLimited on 403.
	Profile(ctx context.Context, username string) (*Profile, error)

	// Repositories lists a user's public repositories.
	Repositories(ctx context.Context, username string) ([]Repository, error)

	// Events lists a user's recent public events.
	Events(ctx context.Context, username string) ([]Event, error)

	// SearchUsers returns usernames matching a search query.
	SearchUsers(ctx context.Context, query string, limit int) ([]string, error)

	// Contributors lists contributors to a repository.
	Contributors(ctx context.Context, owner, repo string) ([]Contributor, error)

	// Collaboration fetches a user's collaboration graph (organizations,
	// co-contributors, follow relationships) in a single GraphQL round trip.
	Collaboration(ctx context.Context, username string) (*domain.CollaborationGraph, error)
}
