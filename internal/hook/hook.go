// Package hook adapts the command guard to the PreToolUse hook protocol:
// one JSON payload on stdin, an optional block response on stdout, and an
// exit code carrying the verdict.
package hook

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xonecas/cmdguard/internal/guard"
)

// Exit codes returned by Run. The caller passes them to os.Exit.
const (
	ExitAllow = 0
	ExitBlock = 1
)

// maxEchoedCommand is the longest command echoed back in a block response;
// longer commands are truncated with a trailing ellipsis marker.
const maxEchoedCommand = 100

// payload is the hook input shape: {"tool_name": ..., "tool_input": {"command": ...}}.
type payload struct {
	ToolName  string          `json:"tool_name"`
	ToolInput json.RawMessage `json:"tool_input"`
}

// blockResponse is the JSON written to stdout when a command is blocked.
type blockResponse struct {
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Command string `json:"command"`
}

// Runner wires a Guard to the hook's stdin/stdout contract.
type Runner struct {
	Guard *guard.Guard

	// LogAllowed promotes allowed-command diagnostics from debug to info.
	LogAllowed bool
}

// Run reads one payload from r, classifies the command, and reports the
// verdict: no output and ExitAllow when the command is allowed (or there is
// nothing to validate), a JSON block response on w and ExitBlock otherwise.
func (rn *Runner) Run(r io.Reader, w io.Writer) int {
	raw, err := io.ReadAll(r)
	if err != nil {
		// Nothing readable means nothing to validate.
		log.Error().Err(err).Msg("failed to read hook payload")
		return ExitAllow
	}

	input := strings.TrimSpace(string(raw))
	if input == "" {
		return ExitAllow
	}

	command := extractCommand(input)
	if command == "" {
		return ExitAllow
	}

	res := rn.Guard.Classify(command)
	if res.Verdict == guard.Allowed {
		ev := log.Debug()
		if rn.LogAllowed {
			ev = log.Info()
		}
		ev.Str("command", truncateCommand(command)).Msg("command allowed")
		return ExitAllow
	}

	log.Warn().
		Str("rule", res.Rule).
		Str("reason", res.Reason).
		Str("command", truncateCommand(command)).
		Msg("command blocked")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(blockResponse{
		Status:  "blocked",
		Reason:  res.Reason,
		Command: truncateCommand(command),
	}); err != nil {
		log.Error().Err(err).Msg("failed to write block response")
	}
	return ExitBlock
}

// extractCommand pulls the command text out of a hook payload. Input that is
// not valid JSON is treated as the literal command (fallback mode); a
// tool_input that is not an object is treated as the command itself.
func extractCommand(input string) string {
	var p payload
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		return input
	}
	if len(p.ToolInput) == 0 {
		return ""
	}

	var toolInput struct {
		Command string `json:"command"`
	}
	if err := json.Unmarshal(p.ToolInput, &toolInput); err == nil {
		return toolInput.Command
	}

	// Not an object: a JSON string is the command verbatim, anything else is
	// taken as its literal text.
	var s string
	if err := json.Unmarshal(p.ToolInput, &s); err == nil {
		return s
	}
	return string(p.ToolInput)
}

// truncateCommand caps a command at maxEchoedCommand characters, appending
// "..." when it was longer. Counts runes, not bytes.
func truncateCommand(command string) string {
	runes := []rune(command)
	if len(runes) <= maxEchoedCommand {
		return command
	}
	return string(runes[:maxEchoedCommand]) + "..."
}
