package renderq

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode is how much of a job's frame range gets rendered.
type Mode int

const (
	// FullRender renders every frame in the range.
	FullRender = Mode(iota)

	// FastPreview renders only the first, middle and last frames,
	// to get the look of a sequence quickly.
	FastPreview
)

// DefaultResolution is the resolution percent used when it isn't given.
const DefaultResolution = 100

// String represents Mode as string.
func (m Mode) String() string {
	s, ok := map[Mode]string{
		FullRender:  "full",
		FastPreview: "fml",
	}[m]
	if !ok {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return s
}

// ParseMode parses a mode from it's string form.
// "preview" is accepted as an alias of "fml".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return FullRender, nil
	case "fml", "preview":
		return FastPreview, nil
	}
	return FullRender, fmt.Errorf("unknown render mode: %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if m != FullRender && m != FastPreview {
		return nil, fmt.Errorf("unknown render mode: %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Job is a render job.
//
// A Job is a value. Builders and runners never change it,
// so it is safe to keep and pass around after it has been rendered.
type Job struct {
	// ID lets a queued Job distinguishes from others.
	// It is empty until the job is added to a queue.
	ID string

	// Scene is the path of the scene file to render.
	Scene string

	// Start and End are the inclusive frame range.
	// End is never less than Start.
	Start int
	End   int

	// OutputDir is the directory rendered images will be written to.
	OutputDir string

	// Layer is the render layer to render.
	// Empty Layer renders the scene's default layers.
	Layer string

	// Resolution is the resolution percent of the scene's output resolution.
	// Zero means it is not set, and is filled with DefaultResolution
	// by ParseJob and Validate. Negative values are invalid.
	Resolution int

	Mode Mode
}

// Validate checks a Job that wasn't made by ParseJob,
// for example one decoded from a request.
// It fills Resolution with DefaultResolution when it is zero.
func (j *Job) Validate() error {
	verr := &ValidationError{}
	j.Scene = strings.TrimSpace(j.Scene)
	j.OutputDir = strings.TrimSpace(j.OutputDir)
	j.Layer = strings.TrimSpace(j.Layer)
	if j.Scene == "" {
		verr.add("scene", "scene path is required")
	}
	if j.OutputDir == "" {
		verr.add("out", "output directory is required")
	}
	if j.End < j.Start {
		verr.add("end", fmt.Sprintf("end frame %d is before start frame %d", j.End, j.Start))
	}
	if j.Resolution == 0 {
		j.Resolution = DefaultResolution
	}
	if j.Resolution < 0 {
		verr.add("res", fmt.Sprintf("resolution percent should be positive, got %d", j.Resolution))
	}
	if j.Mode != FullRender && j.Mode != FastPreview {
		verr.add("mode", fmt.Sprintf("unknown render mode: %d", int(j.Mode)))
	}
	if len(verr.Fields) != 0 {
		return verr
	}
	return nil
}

// Label returns a one line description of the job for listing.
func (j Job) Label() string {
	s := fmt.Sprintf("%s [%d-%d] %s", j.Scene, j.Start, j.End, j.Mode)
	if j.Layer != "" {
		s += " layer:" + j.Layer
	}
	return s
}

// JobForm has the text of each job field as user typed.
type JobForm struct {
	Scene      string
	Start      string
	End        string
	OutputDir  string
	Layer      string
	Resolution string
	Mode       string
}

// ParseJob validates a form and makes a Job from it.
// All the problems of the form are reported at once with a *ValidationError.
func ParseJob(f JobForm) (Job, error) {
	verr := &ValidationError{}
	j := Job{
		Scene:      strings.TrimSpace(f.Scene),
		OutputDir:  strings.TrimSpace(f.OutputDir),
		Layer:      strings.TrimSpace(f.Layer),
		Resolution: DefaultResolution,
	}
	if j.Scene == "" {
		verr.add("scene", "scene path is required")
	}
	startOK := parseFrame(verr, "start", "start frame", f.Start, &j.Start)
	endOK := parseFrame(verr, "end", "end frame", f.End, &j.End)
	if j.OutputDir == "" {
		verr.add("out", "output directory is required")
	}
	if startOK && endOK && j.End < j.Start {
		verr.add("end", fmt.Sprintf("end frame %d is before start frame %d", j.End, j.Start))
	}
	if res := strings.TrimSpace(f.Resolution); res != "" {
		n, err := strconv.Atoi(res)
		if err != nil {
			verr.add("res", fmt.Sprintf("resolution percent should be a number, got %q", res))
		} else if n < 0 {
			verr.add("res", fmt.Sprintf("resolution percent should be positive, got %d", n))
		} else if n > 0 {
			j.Resolution = n
		}
	}
	mode, err := ParseMode(f.Mode)
	if err != nil {
		verr.add("mode", err.Error())
	}
	j.Mode = mode
	if len(verr.Fields) != 0 {
		return Job{}, verr
	}
	return j, nil
}

// parseFrame parses a required frame number field into dst.
func parseFrame(verr *ValidationError, field, name, s string, dst *int) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		verr.add(field, name+" is required")
		return false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		verr.add(field, fmt.Sprintf("%s should be a number, got %q", name, s))
		return false
	}
	*dst = n
	return true
}
