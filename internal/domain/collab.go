package domain

// CollabNode is one user in a collaboration graph.
type CollabNode struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// CollabEdge connects the root user to a collaborator, labeled by how
// they are connected: "organization", "contributor", or "following".
type CollabEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// CollaborationGraph is the merged view of a user's organizations,
// repository co-contributors, and follow relationships.
type CollaborationGraph struct {
	Root  string       `json:"root"`
	Nodes []CollabNode `json:"nodes"`
	Edges []CollabEdge `json:"edges"`
}
