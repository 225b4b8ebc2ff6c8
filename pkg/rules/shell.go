package rules

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arthur-debert/rebackup/pkg/errors"
	"github.com/arthur-debert/rebackup/pkg/types"
)

// ShellFilterRule is the name of shell filter rules
const ShellFilterRule = "shell-filter"

// ItemEnvVar holds the absolute path of the item a shell filter runs on
const ItemEnvVar = "REBACKUP_ITEM"

// ShellOptions configures how shell filters run their command
type ShellOptions struct {
	// Path is the shell binary. When empty, commands run in-process.
	Path string

	// HeadArgs are passed to the shell before the command
	HeadArgs []string

	// TailArgs are passed to the shell after the command
	TailArgs []string

	// DisplayOutput forwards the command's output to Output instead of discarding it
	DisplayOutput bool

	// Output receives both output streams of the command when DisplayOutput
	// is set. Defaults to os.Stderr, as stdout carries the manifest.
	Output io.Writer
}

// shellFilter keeps the items a shell command succeeds on
type shellFilter struct {
	command string
	opts    ShellOptions
	prog    *syntax.File
}

// NewShellFilter creates a rule running command on every item
func NewShellFilter(command string, opts ShellOptions) (types.Rule, error) {
	if strings.TrimSpace(command) == "" {
		return nil, errors.New(errors.ErrConfigValid, "shell filter command is empty")
	}
	if opts.Path == "" && (len(opts.HeadArgs) > 0 || len(opts.TailArgs) > 0) {
		return nil, errors.New(errors.ErrConfigValid, "shell arguments require a shell path")
	}
	if opts.Output == nil {
		opts.Output = os.Stderr
	}

	filter := &shellFilter{command: command, opts: opts}

	if opts.Path == "" {
		prog, err := syntax.NewParser().Parse(strings.NewReader(command), "filter")
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "invalid shell filter command: %s", command).
				WithDetail("command", command)
		}
		filter.prog = prog
	}

	return filter, nil
}

func (f *shellFilter) Name() string {
	return ShellFilterRule
}

func (f *shellFilter) Description() string {
	return "Command: " + f.command
}

func (f *shellFilter) OnlyFor() (types.ItemType, bool) {
	return types.ItemFile, false
}

func (f *shellFilter) Matches(string, *types.WalkerConfig, string) bool {
	return true
}

func (f *shellFilter) Action(itemPath string, _ *types.WalkerConfig, _ string) (types.RuleResult, error) {
	var ok bool
	var err error
	if f.prog != nil {
		ok, err = f.runInProcess(itemPath)
	} else {
		ok, err = f.runExternal(itemPath)
	}
	if err != nil {
		return types.RuleResult{}, err
	}
	if ok {
		return types.IncludeItem(), nil
	}
	return types.ExcludeItem(), nil
}

func (f *shellFilter) output() io.Writer {
	if f.opts.DisplayOutput {
		return f.opts.Output
	}
	return io.Discard
}

func (f *shellFilter) environ(itemPath string) []string {
	return append(os.Environ(), ItemEnvVar+"="+itemPath)
}

// runInProcess interprets the command with mvdan.cc/sh. A non-zero exit
// status reports false; any other failure is an error.
func (f *shellFilter) runInProcess(itemPath string) (bool, error) {
	out := f.output()
	runner, err := interp.New(
		interp.Env(expand.ListEnviron(f.environ(itemPath)...)),
		interp.StdIO(nil, out, out),
	)
	if err != nil {
		return false, err
	}

	err = runner.Run(context.Background(), f.prog)
	if err == nil {
		return true, nil
	}

	var exitStatus interp.ExitStatus
	if stderrors.As(err, &exitStatus) {
		return false, nil
	}
	return false, err
}

// runExternal runs <shell> <head args...> <command> <tail args...>.
// A non-zero exit status reports false; failing to start is an error.
func (f *shellFilter) runExternal(itemPath string) (bool, error) {
	args := make([]string, 0, len(f.opts.HeadArgs)+len(f.opts.TailArgs)+1)
	args = append(args, f.opts.HeadArgs...)
	args = append(args, f.command)
	args = append(args, f.opts.TailArgs...)

	out := f.output()
	cmd := exec.Command(f.opts.Path, args...)
	cmd.Env = f.environ(itemPath)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if err == nil {
		return true, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}
