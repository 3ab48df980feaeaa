package renderq

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestPreviewFrames(t *testing.T) {
	cases := []struct {
		start int
		end   int
		want  []int
	}{
		{start: 1, end: 10, want: []int{1, 6, 10}},
		{start: 1, end: 9, want: []int{1, 5, 9}},
		{start: 0, end: 2, want: []int{0, 1, 2}},
		{start: 101, end: 200, want: []int{101, 151, 200}},
		{start: -4, end: 4, want: []int{-4, 0, 4}},
		{start: 1, end: 2, want: []int{1, 2}},
		{start: 7, end: 7, want: []int{7}},
		{start: math.MinInt, end: math.MaxInt, want: []int{math.MinInt, 0, math.MaxInt}},
		{start: math.MinInt, end: math.MinInt + 2, want: []int{math.MinInt, math.MinInt + 1, math.MinInt + 2}},
		{start: math.MaxInt - 1, end: math.MaxInt, want: []int{math.MaxInt - 1, math.MaxInt}},
	}
	for _, c := range cases {
		got := PreviewFrames(c.start, c.end)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("PreviewFrames(%v, %v): got %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestPreviewFramesUnique(t *testing.T) {
	for start := -3; start < 3; start++ {
		for end := start; end < start+20; end++ {
			frames := PreviewFrames(start, end)
			if frames[0] != start || frames[len(frames)-1] != end {
				t.Fatalf("PreviewFrames(%v, %v): should start and end with the range, got %v", start, end, frames)
			}
			if end-start+1 >= 3 && len(frames) != 3 {
				t.Fatalf("PreviewFrames(%v, %v): want 3 frames, got %v", start, end, frames)
			}
			for i := 1; i < len(frames); i++ {
				if frames[i] <= frames[i-1] {
					t.Fatalf("PreviewFrames(%v, %v): frames should be unique and ascending, got %v", start, end, frames)
				}
			}
		}
	}
}

func TestFullRenderCommand(t *testing.T) {
	j := Job{Scene: "/s.ma", Start: 1, End: 1, OutputDir: "/out", Resolution: 100, Mode: FullRender}
	got := DefaultRenderer.FullRenderCommand(j)
	want := Command{
		"render", "-r", "arnold",
		"-s", "1", "-e", "1",
		"-rd", "/out",
		"-fnc", "name_#.ext",
		"-percentRes", "100",
		"/s.ma",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	wantStr := `render -r arnold -s 1 -e 1 -rd /out -fnc name_#.ext -percentRes 100 "/s.ma"`
	if got.String() != wantStr {
		t.Fatalf("got %q, want %q", got.String(), wantStr)
	}
	if strings.Contains(got.String(), "-rl") {
		t.Fatalf("command without a layer shouldn't have -rl: %v", got)
	}
}

func TestFullRenderCommandLayer(t *testing.T) {
	j := Job{Scene: `C:\shots\sh010 v2.mb`, Start: 1001, End: 1100, OutputDir: `D:\renders\sh010`, Layer: "beauty", Resolution: 50}
	got := DefaultRenderer.FullRenderCommand(j).String()
	want := `render -r arnold -s 1001 -e 1100 -rd D:\renders\sh010 -fnc name_#.ext -percentRes 50 -rl beauty "C:\shots\sh010 v2.mb"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFastPreviewCommands(t *testing.T) {
	j := Job{Scene: "/s.ma", Start: 1, End: 10, OutputDir: "/out", Resolution: 25, Mode: FastPreview}
	cmds := DefaultRenderer.Commands(j)
	want := []string{
		`render -r arnold -s 1 -e 1 -rd /out -fnc name_#.ext -percentRes 25 "/s.ma"`,
		`render -r arnold -s 6 -e 6 -rd /out -fnc name_#.ext -percentRes 25 "/s.ma"`,
		`render -r arnold -s 10 -e 10 -rd /out -fnc name_#.ext -percentRes 25 "/s.ma"`,
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %v commands, want %v", len(cmds), len(want))
	}
	for i := range cmds {
		if cmds[i].String() != want[i] {
			t.Fatalf("command %v: got %q, want %q", i, cmds[i], want[i])
		}
	}

	j.Start, j.End = 5, 5
	cmds = DefaultRenderer.Commands(j)
	if len(cmds) != 1 {
		t.Fatalf("single frame preview should have 1 command, got %v", cmds)
	}
}

func TestCommandsFullMode(t *testing.T) {
	j := Job{Scene: "/s.ma", Start: 1, End: 10, OutputDir: "/out", Resolution: 100}
	cmds := DefaultRenderer.Commands(j)
	if len(cmds) != 1 {
		t.Fatalf("full render should have 1 command, got %v", cmds)
	}
}

func TestCommandsSQL(t *testing.T) {
	cmds := Commands{{"render", "-s", "1", "/s.ma"}, {"render", "-s", "2", "/s.ma"}}
	v, err := cmds.Value()
	if err != nil {
		t.Fatal(err)
	}
	var got Commands
	if err := got.Scan(v); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, cmds) {
		t.Fatalf("got %v, want %v", got, cmds)
	}
	if err := got.Scan(nil); err == nil {
		t.Fatalf("scanning nil should fail")
	}
}
