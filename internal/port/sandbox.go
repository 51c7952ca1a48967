package port

import (
	"context"
	"time"
)

// ExecResult is the output of one command run inside a sandbox.
type ExecResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exit_code"`
}

// Sandbox is a vendor-provided ephemeral execution environment.
type Sandbox interface {
	// ID returns the vendor-assigned sandbox identifier.
	ID() string

	// Exec runs a shell command inside the sandbox.
	Exec(ctx context.Context, command string) (*ExecResult, error)

	// Stop tears the sandbox down. Safe to call from deferred cleanup with a
	// fresh context, even after the operation's context is cancelled.
	Stop(ctx context.Context) error
}

// SandboxProvider creates sandboxes. The vendor enforces the TTL as a hard
// wall-clock limit regardless of what the sandbox is doing.
type SandboxProvider interface {
	Create(ctx context.Context, ttl time.Duration) (Sandbox, error)
}
