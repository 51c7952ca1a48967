package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hireloop/devscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatService(aiProvider *scriptedAI, gh *fakeGitHub) *ChatService {
	ranking := NewRankingService(gh, nil, 5, 10)
	return NewChatService(aiProvider, ranking, nil, nil)
}

func TestChatPlainReply(t *testing.T) {
	aiProvider := &scriptedAI{responses: []string{
		`{"reply": "You can paste GitHub usernames or describe the role."}`,
	}}
	svc := newChatService(aiProvider, newFakeGitHub())

	reply, err := svc.Respond(context.Background(), "how does this work?", nil)

	require.NoError(t, err)
	assert.Equal(t, "You can paste GitHub usernames or describe the role.", reply.Reply)
	assert.Empty(t, reply.Tool)
	assert.Nil(t, reply.ToolResult)
}

func TestChatUnstructuredResponseFallsBackToRawText(t *testing.T) {
	aiProvider := &scriptedAI{responses: []string{
		`Sure! Just tell me what kind of developer you are looking for.`,
	}}
	svc := newChatService(aiProvider, newFakeGitHub())

	reply, err := svc.Respond(context.Background(), "hi", nil)

	require.NoError(t, err)
	assert.Contains(t, reply.Reply, "what kind of developer")
	assert.Empty(t, reply.Tool)
}

func TestChatDispatchesFindCandidates(t *testing.T) {
	aiProvider := &scriptedAI{responses: []string{
		`{"tool": "find_candidates", "args": {"usernames": ["alice"], "required_skills": ["go"]}}`,
	}}
	svc := newChatService(aiProvider, newFakeGitHub("alice"))

	reply, err := svc.Respond(context.Background(), "rank alice for a go role", nil)

	require.NoError(t, err)
	assert.Equal(t, "find_candidates", reply.Tool)

	var result domain.RankResult
	require.NoError(t, json.Unmarshal(reply.ToolResult, &result))
	require.Len(t, result.Candidates, 1)
	assert.Equal(t, "alice", result.Candidates[0].Username)
}

func TestChatToolFailureReturnedAsPayload(t *testing.T) {
	aiProvider := &scriptedAI{responses: []string{
		`{"tool": "find_candidates", "args": {"usernames": ["ghost"]}}`,
	}}
	svc := newChatService(aiProvider, newFakeGitHub())

	reply, err := svc.Respond(context.Background(), "rank ghost", nil)

	require.NoError(t, err)
	assert.Equal(t, "find_candidates", reply.Tool)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(reply.ToolResult, &payload))
	assert.Contains(t, payload["error"], "ghost")
}

func TestChatUnknownTool(t *testing.T) {
	aiProvider := &scriptedAI{responses: []string{
		`{"tool": "launch_rockets", "args": {}}`,
	}}
	svc := newChatService(aiProvider, newFakeGitHub())

	reply, err := svc.Respond(context.Background(), "do something odd", nil)

	require.NoError(t, err)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(reply.ToolResult, &payload))
	assert.Contains(t, payload["error"], "unknown tool")
}

func TestBuildChatPromptIncludesHistory(t *testing.T) {
	history := []ChatMessage{
		{Role: "user", Content: "find me go developers"},
		{Role: "assistant", Content: "Here are five candidates."},
	}

	prompt := buildChatPrompt("tell me about the first one", history)

	assert.Contains(t, prompt, "[user]: find me go developers")
	assert.Contains(t, prompt, "[assistant]: Here are five candidates.")
	assert.Contains(t, prompt, "New message: tell me about the first one")
}
