package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/maxvaer/keycrack/internal/logging"
	"github.com/maxvaer/keycrack/internal/scanner"
)

const timeout = 30 * time.Second

// matchJSON is the JSON payload sent to the hook command via stdin.
type matchJSON struct {
	Target    string `json:"target"`
	Algorithm string `json:"algorithm"`
	Plaintext string `json:"plaintext"`
	Digest    string `json:"digest"`
	Ordinal   uint64 `json:"ordinal"`
	Explored  uint64 `json:"explored"`
}

// Runner executes a shell command for each recovered plaintext.
type Runner struct {
	cmd   string
	quiet bool
}

// NewRunner creates a hook runner. cmd is the shell command to execute.
func NewRunner(cmd string, quiet bool) *Runner {
	return &Runner{cmd: cmd, quiet: quiet}
}

// Run executes the hook once per match in result, with the match as JSON
// on stdin. Each command runs with a 30-second timeout. Errors are logged
// but do not halt the scan.
func (r *Runner) Run(result *scanner.TargetResult) {
	for _, m := range result.Matches {
		r.runOne(result, m)
	}
}

func (r *Runner) runOne(result *scanner.TargetResult, m scanner.MatchRecord) {
	data, err := json.Marshal(matchJSON{
		Target:    result.Target,
		Algorithm: result.Algorithm,
		Plaintext: m.Candidate,
		Digest:    m.Digest,
		Ordinal:   m.Ordinal,
		Explored:  result.Explored,
	})
	if err != nil {
		logging.Errorf("hook: marshal: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shell, args := shellCommand()
	cmd := exec.CommandContext(ctx, shell, append(args, r.expand(result, m))...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		if !r.quiet {
			logging.Warnf("hook: %v", err)
		}
		return
	}
	if len(out) > 0 && !r.quiet {
		logging.Infof("hook: %s", strings.TrimRight(string(out), "\n"))
	}
}

// expand replaces {target}, {plaintext}, {digest}, {ordinal} and
// {algorithm} in the command.
func (r *Runner) expand(result *scanner.TargetResult, m scanner.MatchRecord) string {
	return strings.NewReplacer(
		"{target}", result.Target,
		"{plaintext}", m.Candidate,
		"{digest}", m.Digest,
		"{ordinal}", strconv.FormatUint(m.Ordinal, 10),
		"{algorithm}", result.Algorithm,
	).Replace(r.cmd)
}

func shellCommand() (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C"}
	}
	return "sh", []string{"-c"}
}
