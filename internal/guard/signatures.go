package guard

import "regexp"

// sig builds a catalog entry with case-insensitive matching.
func sig(id, pattern, reason string) Signature {
	return Signature{
		ID:      id,
		Pattern: regexp.MustCompile("(?i)" + pattern),
		Reason:  reason,
	}
}

// builtinSignatures returns the built-in danger catalog in priority order.
// Order decides only which reason is reported when several shapes match;
// any match blocks.
func builtinSignatures() []Signature {
	return []Signature{
		// Network exfiltration / remote execution
		sig("curl-pipe-bash", `\bcurl\s+.*\|\s*bash`, "remote script piped to shell"),
		sig("wget-pipe-bash", `\bwget\s+.*\|\s*bash`, "remote script piped to shell"),
		sig("curl-pipe-sh", `\bcurl\s+.*-o\s*-\s*\|\s*sh`, "remote script piped to shell"),
		sig("nc-exec", `\bnc\s+-e`, "netcat with command execution"),
		sig("netcat-exec", `\bnetcat\s+-e`, "netcat with command execution"),

		// Destructive filesystem operations
		sig("rm-rf-root", `\brm\s+-rf\s+/`, "recursive force delete of root"),
		sig("rm-rf-wildcard", `\brm\s+-rf\s+\*`, "recursive force delete with wildcard"),
		sig("dd-block-device", `\bdd\s+if=.*of=/dev/`, "raw write to a block device"),
		sig("mkfs", `\bmkfs\.`, "filesystem format command"),

		// Privilege escalation
		sig("sudo", `\bsudo\s+`, "privilege escalation via sudo"),
		sig("su-login", `\bsu\s+-`, "privilege escalation via su"),
		sig("chmod-777-root", `\bchmod\s+777\s+/`, "broad permission grant on a root path"),
		sig("chown-root", `\bchown\s+.*:.*\s+/`, "ownership change on a root path"),

		// Credential disclosure
		sig("read-ssh-key", `cat\s+.*\.ssh/id_`, "reads an SSH private key"),
		sig("read-passwd", `cat\s+.*/etc/passwd`, "reads the system password database"),
		sig("read-shadow", `cat\s+.*/etc/shadow`, "reads the system shadow database"),
		sig("read-aws-credentials", `cat\s+.*\.aws/credentials`, "reads cloud credentials"),
		sig("read-dotenv", `cat\s+.*\.env`, "reads an environment file"),

		// Remote code execution via evaluation
		sig("eval-curl", `eval\s+"\$\(curl`, "evaluates the output of a network fetch"),
		sig("python-urllib", `python\s+-c\s+.*urllib`, "inline python fetching remote code"),
		sig("python-requests", `python\s+-c\s+.*requests\.get`, "inline python fetching remote code"),

		// History / audit-log tampering
		sig("history-clear", `history\s+-c`, "clears shell history"),
		sig("history-overwrite", `>\s+~/.bash_history`, "overwrites the shell history file"),
		sig("history-shred", `shred\s+.*history`, "shreds history files"),

		// Reverse shells
		sig("bash-reverse-shell", `bash\s+-i\s+>&\s+/dev/tcp/`, "reverse shell via file descriptor redirection"),
		sig("dev-tcp", `/dev/tcp/`, "raw /dev/tcp socket access"),
		sig("dev-udp", `/dev/udp/`, "raw /dev/udp socket access"),
		sig("python-socket", `python\s+-c.*socket`, "inline python opening sockets"),
		sig("perl-socket", `perl\s+-e.*socket`, "inline perl opening sockets"),
		sig("ruby-socket", `ruby\s+-rsocket`, "inline ruby opening sockets"),

		// Persistence
		sig("crontab-edit", `crontab\s+-e`, "edits the scheduled-task table"),
		sig("cron-append", `echo\s+.*>>\s*/etc/cron`, "appends to cron configuration"),

		// Supply-chain bypass
		sig("pip-custom-index", `pip\s+install\s+--index-url`, "pip install from a custom index"),
		sig("npm-custom-registry", `npm\s+install\s+--registry`, "npm install from a custom registry"),
	}
}

// DefaultSafePrefixes lists command prefixes generally considered safe:
// version control, package-manager test/build subcommands, and common
// read-only filesystem utilities. It is reference data for callers that
// want an allowlist signal. Classify does not consult it, so a command
// starting with one of these prefixes can still be blocked.
var DefaultSafePrefixes = []string{
	"git ", "npm test", "npm run", "npm install",
	"cargo test", "cargo build", "cargo check",
	"uv ", "python ", "pytest ", "ls ", "mkdir ",
	"cat ", "grep ", "jq ", "echo ", "pwd", "cd ",
	"head ", "tail ", "wc ", "sort ", "uniq ",
}
