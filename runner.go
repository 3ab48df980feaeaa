package renderq

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/imagvfx/renderq/log"
)

// outputTail is the maximum length of output kept in a ProcessError.
const outputTail = 2048

// Executor runs a command and waits for it to exit.
type Executor interface {
	// Exec runs cmd with env, writing it's combined output to out.
	// It returns the process exit code. The exit code is -1
	// when the process couldn't start or was killed.
	Exec(ctx context.Context, env []string, cmd Command, out io.Writer) (int, error)
}

// OSExecutor executes commands as OS processes, without a shell.
type OSExecutor struct{}

// Exec implements Executor.
func (OSExecutor) Exec(ctx context.Context, env []string, cmd Command, out io.Writer) (int, error) {
	if len(cmd) == 0 {
		return -1, fmt.Errorf("empty command")
	}
	c := exec.CommandContext(ctx, lookPath(cmd[0], env), cmd[1:]...)
	c.Env = env
	c.Stdout = out
	c.Stderr = out
	err := c.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), err
		}
		return -1, err
	}
	return 0, nil
}

// lookPath finds the executable from PATH of env, instead of the process's one.
// It returns name as is when it couldn't find.
func lookPath(name string, env []string) string {
	if strings.ContainsRune(name, filepath.Separator) || strings.ContainsRune(name, '/') {
		return name
	}
	var list string
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		if envKeyEqual(k, pathEnv) {
			list = v
		}
	}
	exts := []string{""}
	if runtime.GOOS == "windows" {
		exts = []string{".exe", ".bat", ".cmd", ""}
	}
	for _, dir := range filepath.SplitList(list) {
		if dir == "" {
			continue
		}
		for _, ext := range exts {
			p := filepath.Join(dir, name+ext)
			fi, err := os.Stat(p)
			if err != nil || fi.IsDir() {
				continue
			}
			if runtime.GOOS != "windows" && fi.Mode()&0111 == 0 {
				continue
			}
			return p
		}
	}
	return name
}

// CommandResult is the result of one command of a job.
type CommandResult struct {
	Command  Command
	ExitCode int
	Output   string `json:",omitempty"`
	Started  time.Time
	Finished time.Time
}

// JobResult is the result of a job.
type JobResult struct {
	Job      Job
	Commands []CommandResult

	// Err is nil when every command of the job succeeded.
	Err error `json:"-"`
}

// ExitCode returns the exit code of the job's last command.
// It is -1 when no command has run.
func (r *JobResult) ExitCode() int {
	if len(r.Commands) == 0 {
		return -1
	}
	return r.Commands[len(r.Commands)-1].ExitCode
}

// Runner renders jobs by running their commands one by one.
// A Runner isn't safe for concurrent use.
type Runner struct {
	Renderer Renderer

	// Env is the environment of the renderer processes.
	// See Settings.Environ.
	Env []string

	Executor Executor

	// Output receives outputs of the renderer processes as they run.
	// It can be nil.
	Output io.Writer

	// KeepOutput makes the results keep whole output of each command.
	KeepOutput bool

	Logger log.Logger
}

// NewRunner creates a Runner that runs the default renderer
// with the settings applied to the process environment.
func NewRunner(s Settings, logger log.Logger) *Runner {
	r := &Runner{
		Renderer: DefaultRenderer,
		Executor: OSExecutor{},
		Logger:   logger,
	}
	r.Apply(s)
	return r
}

// Apply applies settings to the runner's environment.
// It should be called whenever the settings are saved.
func (r *Runner) Apply(s Settings) {
	r.Env = s.Environ(os.Environ())
}

// Render builds commands for the job and runs them in order.
// It stops at the first failing command, and returns a *ProcessError for it.
// The returned result is never nil and holds the commands that have run.
func (r *Runner) Render(ctx context.Context, j Job) (*JobResult, error) {
	res := &JobResult{Job: j}
	cmds := r.Renderer.Commands(j)
	if j.Mode == FastPreview {
		r.Logger.Noticef("=== fast preview (fml) render of %v: frames %v ===", j.Scene, PreviewFrames(j.Start, j.End))
	} else {
		r.Logger.Noticef("=== full render of %v: frames %d-%d ===", j.Scene, j.Start, j.End)
	}
	for _, cmd := range cmds {
		if err := ctx.Err(); err != nil {
			res.Err = err
			return res, err
		}
		r.Logger.Noticef("render command: %v", cmd)
		cr, err := r.run(ctx, cmd)
		res.Commands = append(res.Commands, cr)
		if err != nil {
			r.Logger.Error(err)
			res.Err = err
			return res, err
		}
		r.Logger.Infof("render command done in %v", cr.Finished.Sub(cr.Started).Round(time.Millisecond))
	}
	r.Logger.Noticef("=== render of %v finished ===", j.Scene)
	return res, nil
}

// run runs a command, and converts its failure to a *ProcessError.
func (r *Runner) run(ctx context.Context, cmd Command) (CommandResult, error) {
	out := &tailBuffer{max: outputTail, keep: r.KeepOutput}
	var w io.Writer = out
	if r.Output != nil {
		w = io.MultiWriter(out, r.Output)
	}
	cr := CommandResult{
		Command: cmd,
		Started: time.Now(),
	}
	code, err := r.Executor.Exec(ctx, r.Env, cmd, w)
	cr.Finished = time.Now()
	cr.ExitCode = code
	if r.KeepOutput {
		cr.Output = out.String()
	}
	if err == nil && code != 0 {
		err = fmt.Errorf("exit status %d", code)
	}
	if err != nil {
		if code == 0 {
			cr.ExitCode = -1
		}
		return cr, &ProcessError{
			Command:  cmd,
			ExitCode: cr.ExitCode,
			Output:   out.Tail(),
			Err:      err,
		}
	}
	return cr, nil
}

// tailBuffer keeps the last max bytes written to it,
// or everything when keep is true.
type tailBuffer struct {
	buf  bytes.Buffer
	max  int
	keep bool
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n, err := b.buf.Write(p)
	if !b.keep && b.buf.Len() > 2*b.max {
		tail := append([]byte(nil), b.buf.Bytes()[b.buf.Len()-b.max:]...)
		b.buf.Reset()
		b.buf.Write(tail)
	}
	return n, err
}

func (b *tailBuffer) String() string {
	return b.buf.String()
}

// Tail returns the last max bytes written.
func (b *tailBuffer) Tail() string {
	s := b.buf.String()
	if len(s) > b.max {
		s = s[len(s)-b.max:]
	}
	return strings.TrimSpace(s)
}
