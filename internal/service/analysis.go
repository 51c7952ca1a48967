package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/hireloop/devscout/internal/adapter/ai"
	"github.com/hireloop/devscout/internal/domain"
	"github.com/hireloop/devscout/internal/port"
	"github.com/hireloop/devscout/internal/progress"
)

const maxOutputChars = 4000

// AnalysisService performs sandboxed deep-analysis of a repository's source,
// driven by an LLM agent that decides which commands to run.
type AnalysisService struct {
	sandbox   port.SandboxProvider
	ai        port.AIProvider
	timeout   time.Duration
	stepLimit int
}

// NewAnalysisService creates an analysis service.
func NewAnalysisService(sandbox port.SandboxProvider, aiProvider port.AIProvider, timeout time.Duration, stepLimit int) *AnalysisService {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if stepLimit <= 0 {
		stepLimit = 12
	}
	return &AnalysisService{
		sandbox:   sandbox,
		ai:        aiProvider,
		timeout:   timeout,
		stepLimit: stepLimit,
	}
}

// Analyze clones the repository into a sandbox, lets the model inspect it
// under a fixed step budget, and yields progress events ending in a report.
func (s *AnalysisService) Analyze(ctx context.Context, repoURL string) *progress.Stream {
	return progress.Run(ctx, func(ctx context.Context, em *progress.Emitter) (progress.Event, error) {
		if err := em.Emit(progress.Event{
			Status:  progress.StatusValidating,
			Message: "Validating repository URL",
		}); err != nil {
			return progress.Event{}, err
		}

		repoName, err := validateRepoURL(repoURL)
		if err != nil {
			return progress.Event{}, err
		}

		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := em.Emit(progress.Event{
			Status:  progress.StatusSpinningUpSandbox,
			Message: "Provisioning analysis sandbox",
		}); err != nil {
			return progress.Event{}, err
		}

		sb, err := s.sandbox.Create(ctx, s.timeout)
		if err != nil {
			return progress.Event{}, fmt.Errorf("sandbox unavailable: %w", err)
		}
		// Teardown must fire on early abandonment too, so use a fresh context.
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer stopCancel()
			if stopErr := sb.Stop(stopCtx); stopErr != nil {
				slog.Warn("sandbox stop failed", "sandbox_id", sb.ID(), "error", stopErr)
			}
		}()

		if err := em.Emit(progress.Event{
			Status:  progress.StatusCloningRepository,
			Message: "Cloning " + repoName,
		}); err != nil {
			return progress.Event{}, err
		}

		cloneCmd := fmt.Sprintf("git clone --depth 1 %s repo", repoURL)
		cloneResult, err := sb.Exec(ctx, cloneCmd)
		if err != nil {
			return progress.Event{}, fmt.Errorf("clone failed: %w", err)
		}
		if cloneResult.ExitCode != 0 {
			return progress.Event{}, fmt.Errorf("clone failed: %s", truncate(cloneResult.Stderr, 300))
		}

		notes, err := s.inspectLoop(ctx, em, sb, repoName)
		if err != nil {
			return progress.Event{}, err
		}

		if err := em.Emit(progress.Event{
			Status:  progress.StatusGeneratingReport,
			Message: "Generating analysis report",
		}); err != nil {
			return progress.Event{}, err
		}

		report := s.buildReport(ctx, repoName, notes)
		payload, err := json.Marshal(report)
		if err != nil {
			return progress.Event{}, fmt.Errorf("encode report: %w", err)
		}

		return progress.Complete("Analysis complete", payload), nil
	})
}

// agentStep is the model's structured decision for one inspection step.
type agentStep struct {
	Action  string `json:"action"` // "run" or "report"
	Command string `json:"command,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

const agentSystemPrompt = `You are a code-analysis agent inspecting a cloned repository at ./repo inside a Linux sandbox.
Each turn, respond with a single JSON object and nothing else:
  {"action": "run", "command": "<shell command>", "notes": "<what you learned so far>"}
to run one read-only inspection command (ls, cat, head, grep, wc, find), or
  {"action": "report", "notes": "<your accumulated findings>"}
when you have seen enough to assess code quality, structure, and test coverage.
Never run commands that modify files or access the network.`

// inspectLoop alternates executing_command/analyzing events, one pair per
// model tool invocation, until the model reports or the step budget runs out.
func (s *AnalysisService) inspectLoop(ctx context.Context, em *progress.Emitter, sb port.Sandbox, repoName string) (string, error) {
	transcript := fmt.Sprintf("Repository: %s\nCloned at ./repo. Begin your inspection.", repoName)
	var notes string

	for step := 0; step < s.stepLimit; step++ {
		raw, err := s.ai.Complete(ctx, agentSystemPrompt, transcript)
		if err != nil {
			return "", fmt.Errorf("agent step failed: %w", err)
		}

		var decision agentStep
		if err := ai.DecodeJSON(raw, &decision); err != nil {
			// Unparseable decision: keep whatever prose the model produced
			// as notes and stop inspecting.
			notes = raw
			break
		}

		if decision.Notes != "" {
			notes = decision.Notes
		}
		if decision.Action != "run" || decision.Command == "" {
			break
		}

		if err := em.Emit(progress.Event{
			Status:  progress.StatusExecutingCommand,
			Message: "Running inspection command",
			Command: decision.Command,
		}); err != nil {
			return "", err
		}

		result, err := sb.Exec(ctx, decision.Command)
		if err != nil {
			return "", fmt.Errorf("command failed: %w", err)
		}

		output := truncate(result.Stdout, maxOutputChars)
		if result.ExitCode != 0 {
			output = fmt.Sprintf("exit %d\n%s", result.ExitCode, truncate(result.Stderr, maxOutputChars))
		}

		if err := em.Emit(progress.Event{
			Status:  progress.StatusAnalyzing,
			Message: "Analyzing command output",
			Command: decision.Command,
			Output:  output,
		}); err != nil {
			return "", err
		}

		transcript = fmt.Sprintf("Previous notes: %s\n\nOutput of `%s`:\n%s\n\nContinue.", notes, decision.Command, output)
	}

	return notes, nil
}

const reportSystemPrompt = `You are writing the final assessment of a repository for a hiring manager evaluating its author.
Respond with a single JSON object and nothing else:
{"repository": "...", "summary": "...", "strengths": ["..."], "concerns": ["..."], "quality_score": <0-100>}`

// buildReport asks the model for a structured report and falls back to a
// degraded-but-valid report built from the raw notes when parsing fails.
func (s *AnalysisService) buildReport(ctx context.Context, repoName, notes string) domain.RepoReport {
	prompt := fmt.Sprintf("Repository: %s\n\nInspection notes:\n%s", repoName, notes)

	raw, err := s.ai.Complete(ctx, reportSystemPrompt, prompt)
	if err != nil {
		slog.Warn("report generation failed, falling back to notes", "repo", repoName, "error", err)
		return fallbackReport(repoName, notes)
	}

	var report domain.RepoReport
	if err := ai.DecodeJSON(raw, &report); err != nil {
		slog.Warn("report parse failed, falling back to raw text", "repo", repoName, "error", err)
		return fallbackReport(repoName, raw)
	}
	if report.Repository == "" {
		report.Repository = repoName
	}
	return report
}

func fallbackReport(repoName, text string) domain.RepoReport {
	return domain.RepoReport{
		Repository: repoName,
		Summary:    strings.TrimSpace(text),
		Fallback:   true,
	}
}

// validateRepoURL accepts only https GitHub repository URLs and returns the
// owner/name part.
func validateRepoURL(repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.Scheme != "https" || parsed.Host != "github.com" {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}
	name := strings.Trim(strings.TrimSuffix(parsed.Path, ".git"), "/")
	if name == "" || len(strings.Split(name, "/")) != 2 {
		return "", fmt.Errorf("invalid repository URL: %s", repoURL)
	}
	return name, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
