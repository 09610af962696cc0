package pipeline

import (
	"context"
	"os/exec"
	"strings"

	xerrors "xliffmerge/core/errors"
	"xliffmerge/internal/logging"
)

// OutPlaceholder in a CommandExtractor argument is replaced with the
// extraction output path.
const OutPlaceholder = "{out}"

// CommandExtractor invokes the platform's native extraction tool as an
// external command.
type CommandExtractor struct {
	// Command is the executable to run.
	Command string

	// Args are the command arguments; every occurrence of OutPlaceholder is
	// replaced with the output path.
	Args []string
}

// Extract runs the configured command, honoring ctx cancellation.
func (e *CommandExtractor) Extract(ctx context.Context, outPath string) error {
	if e.Command == "" {
		return xerrors.NewUnsupported("extraction", "no extract command configured")
	}

	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = strings.ReplaceAll(a, OutPlaceholder, outPath)
	}

	logging.InfoContext(ctx, "running extractor", "command", e.Command, "args", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, e.Command, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return xerrors.Wrapf(err, "extractor %s failed: %s", e.Command, strings.TrimSpace(string(output)))
	}
	return nil
}
