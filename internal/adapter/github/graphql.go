package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
)

// collaborationQuery pulls organizations, top-repo co-contributors, and
// follow relationships for one user in a single round trip.
const collaborationQuery = `
query($login: String!) {
  user(login: $login) {
    login
    avatarUrl
    organizations(first: 5) {
      nodes { login avatarUrl }
    }
    following(first: 10) {
      nodes { login avatarUrl }
    }
    repositories(first: 5, isFork: false, orderBy: {field: STARGAZERS, direction: DESC}) {
      nodes {
        name
        mentionableUsers(first: 5) {
          nodes { login avatarUrl }
        }
      }
    }
  }
}`

type collabUser struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatarUrl"`
}

type collaborationResponse struct {
	Data struct {
		User *struct {
			Login         string `json:"login"`
			AvatarURL     string `json:"avatarUrl"`
			Organizations struct {
				Nodes []collabUser `json:"nodes"`
			} `json:"organizations"`
			Following struct {
				Nodes []collabUser `json:"nodes"`
			} `json:"following"`
			Repositories struct {
				Nodes []struct {
					Name             string `json:"name"`
					MentionableUsers struct {
						Nodes []collabUser `json:"nodes"`
					} `json:"mentionableUsers"`
				} `json:"nodes"`
			} `json:"repositories"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Collaboration fetches a user's collaboration graph via the GraphQL API.
// GraphQL requires authentication, so tokenless clients fall back to a
// REST-only graph built from top-repo contributor lists.
func (c *Client) Collaboration(ctx context.Context, username string) (*domain.CollaborationGraph, error) {
	if c.token == "" {
		return c.restCollaboration(ctx, username)
	}

	payload := map[string]interface{}{
		"query":     collaborationQuery,
		"variables": map[string]string{"login": username},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var decoded collaborationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return nil, fmt.Errorf("GitHub GraphQL error: %s", decoded.Errors[0].Message)
	}
	if decoded.Data.User == nil {
		// GraphQL reports missing users as a null node with HTTP 200.
		return nil, port.ErrUserNotFound
	}

	return buildGraph(decoded), nil
}

const restCollabRepoLimit = 3

// restCollaboration approximates the collaboration graph from REST data
// alone: contributors to the user's most-starred non-fork repositories.
// Organization and follow edges need GraphQL and are omitted here.
func (c *Client) restCollaboration(ctx context.Context, username string) (*domain.CollaborationGraph, error) {
	profile, err := c.Profile(ctx, username)
	if err != nil {
		return nil, err
	}

	repos, err := c.Repositories(ctx, username)
	if err != nil {
		return nil, err
	}

	var source []port.Repository
	for _, r := range repos {
		if !r.Fork {
			source = append(source, r)
		}
	}
	sort.SliceStable(source, func(i, j int) bool {
		return source[i].Stars > source[j].Stars
	})
	if len(source) > restCollabRepoLimit {
		source = source[:restCollabRepoLimit]
	}

	graph := &domain.CollaborationGraph{Root: profile.Login}
	seen := map[string]bool{profile.Login: true}
	graph.Nodes = append(graph.Nodes, domain.CollabNode{
		Username:  profile.Login,
		AvatarURL: profile.AvatarURL,
	})

	for _, repo := range source {
		contributors, err := c.Contributors(ctx, profile.Login, repo.Name)
		if err != nil {
			// One repo's contributor list failing should not sink the graph.
			continue
		}
		for _, contrib := range contributors {
			if contrib.Login == "" || contrib.Login == profile.Login {
				continue
			}
			if !seen[contrib.Login] {
				seen[contrib.Login] = true
				graph.Nodes = append(graph.Nodes, domain.CollabNode{
					Username:  contrib.Login,
					AvatarURL: contrib.AvatarURL,
				})
			}
			graph.Edges = append(graph.Edges, domain.CollabEdge{
				From:     profile.Login,
				To:       contrib.Login,
				Relation: "contributor",
			})
		}
	}

	return graph, nil
}

// buildGraph merges the three relationship kinds into one deduplicated graph.
func buildGraph(resp collaborationResponse) *domain.CollaborationGraph {
	user := resp.Data.User
	graph := &domain.CollaborationGraph{Root: user.Login}

	seen := map[string]bool{user.Login: true}
	graph.Nodes = append(graph.Nodes, domain.CollabNode{
		Username:  user.Login,
		AvatarURL: user.AvatarURL,
	})

	addNode := func(u collabUser, relation string) {
		if u.Login == "" || u.Login == user.Login {
			return
		}
		if !seen[u.Login] {
			seen[u.Login] = true
			graph.Nodes = append(graph.Nodes, domain.CollabNode{
				Username:  u.Login,
				AvatarURL: u.AvatarURL,
			})
		}
		graph.Edges = append(graph.Edges, domain.CollabEdge{
			From:     user.Login,
			To:       u.Login,
			Relation: relation,
		})
	}

	for _, org := range user.Organizations.Nodes {
		addNode(org, "organization")
	}
	for _, repo := range user.Repositories.Nodes {
		for _, contributor := range repo.MentionableUsers.Nodes {
			addNode(contributor, "contributor")
		}
	}
	for _, followed := range user.Following.Nodes {
		addNode(followed, "following")
	}

	return graph
}
