package renderq

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Command is a command to be run for a job.
// First string is the executable and others are arguments.
type Command []string

// String formats the command as it would be typed in a shell.
// The last argument of a render command is the scene file,
// so it is always quoted. Other arguments are quoted only when they need to.
func (c Command) String() string {
	parts := make([]string, len(c))
	for i, arg := range c {
		if i != 0 && i == len(c)-1 || needsQuote(arg) {
			arg = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
		}
		parts[i] = arg
	}
	return strings.Join(parts, " ")
}

func needsQuote(s string) bool {
	return s == "" || strings.ContainsAny(s, " \t\n\"'")
}

// Commands are commands run for a job, in their order.
type Commands []Command

// Value implements driver.Valuer.
func (cs Commands) Value() (driver.Value, error) {
	v, err := json.Marshal(cs)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Scan implements sql.Scanner.
func (cs *Commands) Scan(v interface{}) error {
	if v == nil {
		return fmt.Errorf("scan commands: nil")
	}
	var b []byte
	switch v := v.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan commands: unsupported type %T", v)
	}
	return json.Unmarshal(b, cs)
}

// Renderer has the renderer specific parts of a render command.
type Renderer struct {
	// Program is the renderer executable.
	// It is looked up from PATH of the runner's environment.
	Program string

	// Name is passed to -r.
	Name string

	// FileNameConvention is passed to -fnc.
	FileNameConvention string
}

// DefaultRenderer renders with Maya's batch renderer and Arnold.
var DefaultRenderer = Renderer{
	Program:            "render",
	Name:               "arnold",
	FileNameConvention: "name_#.ext",
}

// PreviewFrames returns frames to be rendered for a fast preview
// of the frame range [start, end].
// They are the start, the middle and the end of the range. The middle frame is
// start + floor(n/2) where n is the number of frames in the range,
// so it leans to the end frame for even length ranges.
// Each frame is returned once, so a range shorter than 3 frames
// returns less than 3 frames.
func PreviewFrames(start, end int) []int {
	// d is end - start, which fits in uint even when it overflows int.
	d := uint(end) - uint(start)
	mid := int(uint(start) + d/2 + d%2)
	frames := make([]int, 0, 3)
	for _, f := range []int{start, mid, end} {
		if len(frames) != 0 && frames[len(frames)-1] == f {
			continue
		}
		frames = append(frames, f)
	}
	return frames
}

// frameCommand builds a command that renders [start, end] of the job.
func (r Renderer) frameCommand(j Job, start, end int) Command {
	c := Command{
		r.Program,
		"-r", r.Name,
		"-s", strconv.Itoa(start),
		"-e", strconv.Itoa(end),
		"-rd", j.OutputDir,
		"-fnc", r.FileNameConvention,
		"-percentRes", strconv.Itoa(j.Resolution),
	}
	if j.Layer != "" {
		c = append(c, "-rl", j.Layer)
	}
	c = append(c, j.Scene)
	return c
}

// FullRenderCommand builds a command rendering the whole frame range of the job.
func (r Renderer) FullRenderCommand(j Job) Command {
	return r.frameCommand(j, j.Start, j.End)
}

// FastPreviewCommands builds a single frame command for each PreviewFrames
// of the job.
func (r Renderer) FastPreviewCommands(j Job) Commands {
	frames := PreviewFrames(j.Start, j.End)
	cmds := make(Commands, 0, len(frames))
	for _, f := range frames {
		cmds = append(cmds, r.frameCommand(j, f, f))
	}
	return cmds
}

// Commands builds the commands for the job's mode.
func (r Renderer) Commands(j Job) Commands {
	if j.Mode == FastPreview {
		return r.FastPreviewCommands(j)
	}
	return Commands{r.FullRenderCommand(j)}
}
