// Package guard classifies shell commands against a catalog of known-dangerous
// command shapes before an agent is allowed to run them.
//
// Classification is a heuristic denylist filter, not a shell parser: the
// catalog is an ordered list of regular-expression signatures, followed by a
// pipeline check that splits only on '|' and a base64-obfuscation heuristic.
package guard

import (
	"fmt"
	"regexp"
	"strings"
)

// Verdict is the binary outcome of classification.
type Verdict int

const (
	// Blocked indicates the command must not run. It is the zero value, so an
	// uninitialized Result defaults to the safest verdict.
	Blocked Verdict = iota

	// Allowed indicates the command may run.
	Allowed
)

// String returns the string representation of a Verdict.
func (v Verdict) String() string {
	switch v {
	case Blocked:
		return "blocked"
	case Allowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Result holds the outcome of classifying a single command.
type Result struct {
	// Verdict is the classification decision.
	Verdict Verdict

	// Rule is the identifier of the signature or check that fired, if any.
	Rule string

	// Reason is a human-readable explanation of the verdict.
	Reason string
}

// Signature is one known-dangerous command shape: a stable identifier, a
// compiled case-insensitive pattern, and a human-readable description
// reported as the block reason.
type Signature struct {
	ID      string
	Pattern *regexp.Regexp
	Reason  string
}

// CompileSignature builds a Signature from a raw pattern. Matching is always
// case-insensitive; the pattern must not set its own flags.
func CompileSignature(id, pattern, reason string) (Signature, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Signature{}, fmt.Errorf("signature %q: %w", id, err)
	}
	return Signature{ID: id, Pattern: re, Reason: reason}, nil
}

// Guard classifies commands. It is immutable after construction and safe for
// concurrent use.
type Guard struct {
	signatures   []Signature
	safePrefixes []string
}

// Option configures a Guard at construction time.
type Option func(*Guard)

// WithSignatures appends extra signatures after the built-in catalog.
// Built-in signatures keep priority, so their reasons win when both match.
func WithSignatures(sigs ...Signature) Option {
	return func(g *Guard) {
		g.signatures = append(g.signatures, sigs...)
	}
}

// WithSafePrefixes appends extra entries to the safe-prefix reference data.
// Like DefaultSafePrefixes, these are not consulted by Classify.
func WithSafePrefixes(prefixes ...string) Option {
	return func(g *Guard) {
		g.safePrefixes = append(g.safePrefixes, prefixes...)
	}
}

// New creates a Guard with the built-in signature catalog plus any options.
func New(opts ...Option) *Guard {
	g := &Guard{
		signatures:   builtinSignatures(),
		safePrefixes: append([]string(nil), DefaultSafePrefixes...),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SafePrefixes returns the safe-prefix reference data carried by this Guard.
// It is an auxiliary signal for callers; Classify does not consult it.
func (g *Guard) SafePrefixes() []string {
	return g.safePrefixes
}

// Fixed reasons for verdicts not tied to a catalog signature.
const (
	reasonEmpty      = "empty command"
	reasonAllowed    = "command allowed"
	reasonPipeShell  = "piping to shell interpreter is blocked"
	reasonBase64Pipe = "base64 decode in pipeline is suspicious"
)

// Classify inspects a single shell command string and returns a verdict with
// a reason. It is a pure function of its input: no side effects, total over
// all text inputs, and deterministic.
func (g *Guard) Classify(command string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Verdict: Allowed, Reason: reasonEmpty}
	}

	// Ordered denylist scan; the first matching signature decides the reason.
	for _, s := range g.signatures {
		if s.Pattern.MatchString(command) {
			return Result{Verdict: Blocked, Rule: s.ID, Reason: s.Reason}
		}
	}

	// Pipeline stages feeding an interpreter catch constructs the signatures
	// don't literally match, e.g. `echo <payload> | python`.
	if pipesToInterpreter(command) {
		return Result{Verdict: Blocked, Rule: "pipe-to-interpreter", Reason: reasonPipeShell}
	}

	if base64DecodeInPipeline(command) {
		return Result{Verdict: Blocked, Rule: "base64-pipeline", Reason: reasonBase64Pipe}
	}

	return Result{Verdict: Allowed, Reason: reasonAllowed}
}

// pipeInterpreters are matched as string prefixes of a pipeline stage.
// Prefix matching is deliberately coarse: "python3" matches via "python",
// and no attempt is made to tell "shasum" apart from "sh". Stages are split
// on '|' only; there is no shell-grammar parsing.
var pipeInterpreters = []string{"bash", "sh", "python", "perl", "ruby"}

// pipesToInterpreter reports whether any pipeline stage after the first
// begins with a shell or scripting interpreter.
func pipesToInterpreter(command string) bool {
	if !strings.Contains(command, "|") {
		return false
	}
	stages := strings.Split(command, "|")
	for _, stage := range stages[1:] {
		stage = strings.TrimSpace(stage)
		for _, name := range pipeInterpreters {
			if strings.HasPrefix(stage, name) {
				return true
			}
		}
	}
	return false
}

// base64DecodeInPipeline reports whether the command combines a base64
// decode ("base64" with "decode" or "-d", case-insensitively) with a pipe.
func base64DecodeInPipeline(command string) bool {
	lower := strings.ToLower(command)
	if !strings.Contains(lower, "base64") {
		return false
	}
	if !strings.Contains(lower, "decode") && !strings.Contains(lower, "-d") {
		return false
	}
	return strings.Contains(command, "|")
}
