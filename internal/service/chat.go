package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hireloop/devscout/internal/adapter/ai"
	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/progress"
)

// ChatMessage is one turn of conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is the assistant's answer: plain text, optionally accompanied by
// the result of a tool the model chose to invoke.
type ChatReply struct {
	Reply      string          `json:"reply"`
	Tool       string          `json:"tool,omitempty"`
	ToolResult json.RawMessage `json:"tool_result,omitempty"`
}

// ChatService drives the LLM-orchestrated conversation, dispatching the
// model's tool choices to the ranking, analysis, and research services.
type ChatService struct {
	ai       port.AIProvider
	ranking  *RankingService
	analysis *AnalysisService
	research *ResearchService
}

// NewChatService creates a chat service.
func NewChatService(aiProvider port.AIProvider, ranking *RankingService, analysis *AnalysisService, research *ResearchService) *ChatService {
	return &ChatService{
		ai:       aiProvider,
		ranking:  ranking,
		analysis: analysis,
		research: research,
	}
}

const chatSystemPrompt = `You are DevScout AI, an assistant that helps hiring managers source developers from GitHub.
You can answer directly, or invoke one of these tools by responding with a single JSON object and nothing else:
  {"tool": "find_candidates", "args": {"query": "...", "usernames": ["..."], "required_skills": ["..."], "location": "...", "project_type": "..."}}
  {"tool": "analyze_repository", "args": {"repo_url": "https://github.com/owner/repo"}}
  {"tool": "research_web", "args": {"query": "..."}}
To answer without a tool, respond with {"reply": "your answer"}.
Pick at most one tool per turn.`

// toolCall is the model's structured decision for one chat turn.
type toolCall struct {
	Tool  string `json:"tool"`
	Reply string `json:"reply"`
	Args  struct {
		Query          string   `json:"query"`
		Usernames      []string `json:"usernames"`
		RequiredSkills []string `json:"required_skills"`
		Location       string   `json:"location"`
		ProjectType    string   `json:"project_type"`
		RepoURL        string   `json:"repo_url"`
	} `json:"args"`
}

// Respond handles one chat turn. An unparseable model response falls back to
// treating the raw text as a plain conversational answer.
func (s *ChatService) Respond(ctx context.Context, message string, history []ChatMessage) (*ChatReply, error) {
	prompt := buildChatPrompt(message, history)

	raw, err := s.ai.Complete(ctx, chatSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}

	var call toolCall
	if err := ai.DecodeJSON(raw, &call); err != nil {
		slog.Debug("chat response was not structured, treating as plain reply")
		return &ChatReply{Reply: raw}, nil
	}

	if call.Tool == "" {
		return &ChatReply{Reply: call.Reply}, nil
	}

	result, err := s.dispatch(ctx, &call)
	if err != nil {
		// The agent needs a textual error to reason about, not a failure.
		errPayload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return &ChatReply{Tool: call.Tool, ToolResult: errPayload}, nil
	}

	return &ChatReply{Tool: call.Tool, ToolResult: result}, nil
}

func (s *ChatService) dispatch(ctx context.Context, call *toolCall) (json.RawMessage, error) {
	switch call.Tool {
	case "find_candidates":
		brief := domain.Brief{
			RequiredSkills: call.Args.RequiredSkills,
			Location:       call.Args.Location,
			ProjectType:    call.Args.ProjectType,
		}
		result, err := s.ranking.FindCandidates(ctx, call.Args.Query, call.Args.Usernames, brief)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)

	case "analyze_repository":
		return finalResult(s.analysis.Analyze(ctx, call.Args.RepoURL))

	case "research_web":
		return finalResult(s.research.Research(ctx, call.Args.Query))

	default:
		return nil, fmt.Errorf("unknown tool: %s", call.Tool)
	}
}

// finalResult drains a progress stream and returns the terminal payload;
// the chat surface only wants the final value, not the intermediate events.
func finalResult(stream *progress.Stream) (json.RawMessage, error) {
	final := stream.Wait()
	if final.Status == progress.StatusError {
		return nil, fmt.Errorf("%s", final.Error)
	}
	return final.Result, nil
}

func buildChatPrompt(message string, history []ChatMessage) string {
	if len(history) == 0 {
		return message
	}

	prompt := "Conversation so far:\n"
	for _, m := range history {
		prompt += fmt.Sprintf("[%s]: %s\n", m.Role, m.Content)
	}
	return prompt + "\nNew message: " + message
}
