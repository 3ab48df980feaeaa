package renderq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/imagvfx/renderq/log"
	"github.com/imagvfx/renderq/service"
	"github.com/rs/xid"
)

// RunStatus is the outcome of a job run.
type RunStatus string

const (
	RunDone   = RunStatus("done")
	RunFailed = RunStatus("failed")
)

// Run is a recorded render of a job.
type Run struct {
	Order    int
	JobID    string
	Scene    string
	Mode     Mode
	Start    int
	End      int
	Status   RunStatus
	ExitCode int
	Message  string
	Commands Commands
	Started  time.Time
	Finished time.Time
}

// History renders jobs with Renderer and records each render to a RunService.
type History struct {
	Renderer JobRenderer
	svc      service.RunService
	logger   log.Logger
}

// NewHistory creates a History.
func NewHistory(svc service.RunService, r JobRenderer, logger log.Logger) *History {
	return &History{
		Renderer: r,
		svc:      svc,
		logger:   logger,
	}
}

// Render implements JobRenderer.
// A job without ID gets one, so it's runs can be found later.
// Failing to record doesn't fail the render, it is logged instead.
func (h *History) Render(ctx context.Context, j Job) (*JobResult, error) {
	if j.ID == "" {
		j.ID = xid.New().String()
	}
	started := time.Now()
	res, err := h.Renderer.Render(ctx, j)
	r := newRun(j, res, err, started, time.Now())
	if _, rerr := h.svc.AddRun(runToService(r)); rerr != nil {
		h.logger.Warningf("couldn't record the run of job %v: %v", j.ID, rerr)
	}
	return res, err
}

// Runs finds recorded runs, the newest first.
func (h *History) Runs(f service.RunFilter) ([]Run, error) {
	srs, err := h.svc.FindRuns(f)
	if err != nil {
		return nil, err
	}
	runs := make([]Run, 0, len(srs))
	for _, sr := range srs {
		runs = append(runs, h.runFromService(sr))
	}
	return runs, nil
}

func newRun(j Job, res *JobResult, err error, started, finished time.Time) Run {
	r := Run{
		JobID:    j.ID,
		Scene:    j.Scene,
		Mode:     j.Mode,
		Start:    j.Start,
		End:      j.End,
		Status:   RunDone,
		Started:  started,
		Finished: finished,
	}
	if res != nil {
		for _, c := range res.Commands {
			r.Commands = append(r.Commands, c.Command)
		}
		r.ExitCode = res.ExitCode()
	}
	if err != nil {
		r.Status = RunFailed
		r.Message = err.Error()
		var perr *ProcessError
		if errors.As(err, &perr) {
			r.ExitCode = perr.ExitCode
		}
	}
	return r
}

func runToService(r Run) *service.Run {
	cmds, err := json.Marshal(r.Commands)
	if err != nil {
		// Commands are string slices, it shouldn't happen.
		cmds = []byte("null")
	}
	return &service.Run{
		JobID:    r.JobID,
		Scene:    r.Scene,
		Mode:     int(r.Mode),
		Start:    r.Start,
		End:      r.End,
		Status:   string(r.Status),
		ExitCode: r.ExitCode,
		Message:  r.Message,
		Commands: string(cmds),
		Started:  r.Started,
		Finished: r.Finished,
	}
}

// runFromService converts a service run.
// Malformed commands are left empty, they are informational.
func (h *History) runFromService(sr *service.Run) Run {
	r := Run{
		Order:    sr.Order,
		JobID:    sr.JobID,
		Scene:    sr.Scene,
		Mode:     Mode(sr.Mode),
		Start:    sr.Start,
		End:      sr.End,
		Status:   RunStatus(sr.Status),
		ExitCode: sr.ExitCode,
		Message:  sr.Message,
		Started:  sr.Started,
		Finished: sr.Finished,
	}
	if err := r.Commands.Scan(sr.Commands); err != nil {
		r.Commands = nil
		h.logger.Debugf("malformed commands of run %d (job %v): %v", sr.Order, sr.JobID, err)
	}
	return r
}
