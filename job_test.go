package renderq

import (
	"encoding/json"
	"errors"
	"reflect"
	"strconv"
	"testing"
)

func TestParseJob(t *testing.T) {
	cases := []struct {
		label string
		form  JobForm
		want  Job
	}{
		{
			label: "full",
			form: JobForm{
				Scene:      " /s.ma ",
				Start:      "1",
				End:        "10",
				OutputDir:  "/out",
				Layer:      "beauty",
				Resolution: "50",
				Mode:       "full",
			},
			want: Job{Scene: "/s.ma", Start: 1, End: 10, OutputDir: "/out", Layer: "beauty", Resolution: 50, Mode: FullRender},
		},
		{
			label: "blank resolution and mode",
			form:  JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out"},
			want:  Job{Scene: "/s.ma", Start: 1, End: 1, OutputDir: "/out", Resolution: 100, Mode: FullRender},
		},
		{
			label: "fml",
			form:  JobForm{Scene: "/s.ma", Start: "-5", End: "5", OutputDir: "/out", Resolution: " ", Mode: "FML"},
			want:  Job{Scene: "/s.ma", Start: -5, End: 5, OutputDir: "/out", Resolution: 100, Mode: FastPreview},
		},
		{
			label: "zero resolution",
			form:  JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out", Resolution: "0"},
			want:  Job{Scene: "/s.ma", Start: 1, End: 1, OutputDir: "/out", Resolution: 100, Mode: FullRender},
		},
	}
	for _, c := range cases {
		got, err := ParseJob(c.form)
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", c.label, err)
		}
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("%v: got %+v, want %+v", c.label, got, c.want)
		}
	}
}

func TestParseJobInvalid(t *testing.T) {
	cases := []struct {
		label  string
		form   JobForm
		fields []string
	}{
		{
			label:  "empty",
			form:   JobForm{},
			fields: []string{"scene", "start", "end", "out"},
		},
		{
			label:  "non numeric frames",
			form:   JobForm{Scene: "/s.ma", Start: "one", End: "10.5", OutputDir: "/out"},
			fields: []string{"start", "end"},
		},
		{
			label:  "end before start",
			form:   JobForm{Scene: "/s.ma", Start: "10", End: "1", OutputDir: "/out"},
			fields: []string{"end"},
		},
		{
			label:  "bad resolution",
			form:   JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out", Resolution: "half"},
			fields: []string{"res"},
		},
		{
			label:  "negative resolution",
			form:   JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out", Resolution: "-50"},
			fields: []string{"res"},
		},
		{
			label:  "unknown mode",
			form:   JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out", Mode: "draft"},
			fields: []string{"mode"},
		},
	}
	for _, c := range cases {
		_, err := ParseJob(c.form)
		if err == nil {
			t.Fatalf("%v: should fail", c.label)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%v: want *ValidationError, got %T", c.label, err)
		}
		if !reflect.DeepEqual(verr.Fields, c.fields) {
			t.Fatalf("%v: fields: got %v, want %v", c.label, verr.Fields, c.fields)
		}
	}
}

func TestJobValidate(t *testing.T) {
	j := Job{Scene: "/s.ma", Start: 3, End: 3, OutputDir: "/out"}
	if err := j.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.Resolution != DefaultResolution {
		t.Fatalf("resolution: got %v, want %v", j.Resolution, DefaultResolution)
	}
	bad := Job{Scene: "/s.ma", Start: 3, End: 2, OutputDir: "/out", Resolution: -1, Mode: Mode(7)}
	err := bad.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	want := []string{"end", "res", "mode"}
	if !reflect.DeepEqual(verr.Fields, want) {
		t.Fatalf("fields: got %v, want %v", verr.Fields, want)
	}
}

func TestJobJSON(t *testing.T) {
	j := Job{ID: "c1", Scene: "/s.ma", Start: 1, End: 3, OutputDir: "/out", Resolution: 100, Mode: FastPreview}
	b, err := json.Marshal(j)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if m["Mode"] != "fml" {
		t.Fatalf("mode should be encoded as text, got %v", m["Mode"])
	}
	var got Job
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got != j {
		t.Fatalf("got %+v, want %+v", got, j)
	}
}

func TestResolutionSameForFormAndJob(t *testing.T) {
	for _, res := range []int{0, 1, 50, 100, -1} {
		form := JobForm{Scene: "/s.ma", Start: "1", End: "1", OutputDir: "/out", Resolution: strconv.Itoa(res)}
		parsed, perr := ParseJob(form)
		j := Job{Scene: "/s.ma", Start: 1, End: 1, OutputDir: "/out", Resolution: res}
		verr := j.Validate()
		if (perr == nil) != (verr == nil) {
			t.Fatalf("resolution %d: ParseJob error %v, Validate error %v", res, perr, verr)
		}
		if perr == nil && parsed.Resolution != j.Resolution {
			t.Fatalf("resolution %d: ParseJob gives %d, Validate gives %d", res, parsed.Resolution, j.Resolution)
		}
	}
}
