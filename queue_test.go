package renderq

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/imagvfx/renderq/service/nop"
)

func newTestQueue(t *testing.T, jobs ...Job) *Queue {
	q, err := NewQueue(&nop.QueueService{})
	if err != nil {
		t.Fatalf("new queue: %v", err)
	}
	for _, j := range jobs {
		if _, err := q.Enqueue(j); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}
	return q
}

func scenes(jobs []Job) []string {
	s := make([]string, 0, len(jobs))
	for _, j := range jobs {
		s = append(s, j.Scene)
	}
	return s
}

func testJobs() []Job {
	return []Job{
		{Scene: "/a.ma", Start: 1, End: 10, OutputDir: "/out"},
		{Scene: "/b.ma", Start: 1, End: 10, OutputDir: "/out", Mode: FastPreview},
		{Scene: "/c.ma", Start: 5, End: 5, OutputDir: "/out", Layer: "fg"},
	}
}

func TestQueueEnqueue(t *testing.T) {
	q := newTestQueue(t, testJobs()...)
	jobs := q.Jobs()
	if !reflect.DeepEqual(scenes(jobs), []string{"/a.ma", "/b.ma", "/c.ma"}) {
		t.Fatalf("got %v", scenes(jobs))
	}
	ids := make(map[string]bool)
	for _, j := range jobs {
		if j.ID == "" || ids[j.ID] {
			t.Fatalf("jobs should have unique ids: %v", jobs)
		}
		ids[j.ID] = true
		if j.Resolution != DefaultResolution {
			t.Fatalf("resolution should be defaulted, got %v", j.Resolution)
		}
	}

	_, err := q.Enqueue(Job{Scene: "/d.ma", Start: 2, End: 1, OutputDir: "/out"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if q.Len() != 3 {
		t.Fatalf("invalid job shouldn't be queued, len %v", q.Len())
	}
}

func TestQueueRemoveAt(t *testing.T) {
	q := newTestQueue(t, testJobs()...)
	for _, i := range []int{-1, 3, 100} {
		_, ok, err := q.RemoveAt(i)
		if ok || err != nil {
			t.Fatalf("RemoveAt(%v): got (%v, %v), want (false, nil)", i, ok, err)
		}
	}
	if !reflect.DeepEqual(scenes(q.Jobs()), []string{"/a.ma", "/b.ma", "/c.ma"}) {
		t.Fatalf("out of range remove should leave the queue unchanged, got %v", scenes(q.Jobs()))
	}
	j, ok, err := q.RemoveAt(1)
	if !ok || err != nil {
		t.Fatalf("RemoveAt(1): got (%v, %v)", ok, err)
	}
	if j.Scene != "/b.ma" {
		t.Fatalf("removed: got %v, want /b.ma", j.Scene)
	}
	if !reflect.DeepEqual(scenes(q.Jobs()), []string{"/a.ma", "/c.ma"}) {
		t.Fatalf("got %v", scenes(q.Jobs()))
	}
}

func TestQueueDrainAndExecuteAll(t *testing.T) {
	q := newTestQueue(t, testJobs()...)
	// the second job fails at it's middle frame.
	e := &fakeExecutor{exits: map[string]int{"6": 1}}
	results, err := q.DrainAndExecuteAll(context.Background(), newTestRunner(e))
	if err != nil {
		t.Fatalf("drain: %v", err)
	}
	if q.Len() != 0 {
		t.Fatalf("queue should be empty after a run, got %v", scenes(q.Jobs()))
	}
	got := make([]string, 0)
	for _, c := range e.ran {
		got = append(got, c[len(c)-1]+"@"+startFrame(c))
	}
	want := []string{"/a.ma@1", "/b.ma@1", "/b.ma@6", "/c.ma@5"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ran: got %v, want %v", got, want)
	}
	if len(results) != 3 {
		t.Fatalf("got %v results, want 3", len(results))
	}
	for i, res := range results {
		failed := res.Err != nil
		if failed != (i == 1) {
			t.Fatalf("result %v: unexpected error: %v", i, res.Err)
		}
	}
}

func TestQueueDrainCanceled(t *testing.T) {
	q := newTestQueue(t, testJobs()...)
	ctx, cancel := context.WithCancel(context.Background())
	e := &fakeExecutor{onExec: func(Command) { cancel() }}
	results, err := q.DrainAndExecuteAll(ctx, newTestRunner(e))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %v results, want 1", len(results))
	}
	if !reflect.DeepEqual(scenes(q.Jobs()), []string{"/b.ma", "/c.ma"}) {
		t.Fatalf("jobs those haven't started should be kept, got %v", scenes(q.Jobs()))
	}
}
