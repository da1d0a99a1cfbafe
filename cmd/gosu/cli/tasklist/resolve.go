package tasklist

import (
	"errors"
	"slices"

	"github.com/gosu-code/claude-plugin/cmd/gosu/cli/paths"
)

// ErrNoTaskFile means no file was given and none could be picked from the
// ledger.
var ErrNoTaskFile = errors.New("no task file")

const provideFileHint = "Please provide a valid file path to a tasks.md file."

// ResolveFile returns file when it is set. Otherwise it picks the file the
// ledger saw most recently; auto is true in that case.
func ResolveFile(file string, lg *Ledger) (resolved string, auto bool, err error) {
	if file != "" {
		return file, false, nil
	}
	switch {
	case !lg.found:
		return "", false, newError(ErrNoTaskFile, paths.TasksLedgerFileName+" file not found. "+provideFileHint)
	case len(lg.Files) == 0:
		return "", false, newError(ErrNoTaskFile, paths.TasksLedgerFileName+" is empty. "+provideFileHint)
	}
	recent, ok := lg.MostRecent()
	if !ok {
		return "", false, newError(ErrNoTaskFile, "No valid task files found in "+paths.TasksLedgerFileName+". "+provideFileHint)
	}
	return recent, true, nil
}

// FileArgs separates the optional leading task-file argument from the
// operands of a command.
type FileArgs struct {
	// MinOperands is how many operands the command needs; a leading file is
	// only considered when there are more arguments than that.
	MinOperands int
	// IsOperand reports whether an argument is an operand rather than a path.
	IsOperand func(string) bool
}

// Split returns the file argument (or "") and the operands. An argument
// naming a file known to the ledger is taken as the file wherever it
// appears; detected is true when that happened away from the first slot.
func (fa FileArgs) Split(args []string, lg *Ledger) (file string, operands []string, detected bool) {
	for i, a := range args {
		if lg.IsKnown(a) {
			return a, slices.Delete(slices.Clone(args), i, i+1), i > 0
		}
	}
	if len(args) > fa.MinOperands && (fa.IsOperand == nil || !fa.IsOperand(args[0])) {
		return args[0], args[1:], false
	}
	return "", args, false
}
