package service

import "time"

// Services is a set of services that a renderq program uses.
type Services interface {
	QueueService() QueueService
	RunService() RunService
}

// QueueService is an interface which let us use sqlite.QueueService.
type QueueService interface {
	// AddQueueItem adds an item at the back of the queue.
	// It returns the order number of the item.
	AddQueueItem(*QueueItem) (int, error)

	// FindQueueItems returns all items in queue order.
	FindQueueItems() ([]*QueueItem, error)

	// RemoveQueueItem removes the item having the id.
	RemoveQueueItem(id string) error

	// ClearQueue removes the items having the ids.
	ClearQueue(ids []string) error
}

// RunService is an interface which let us use sqlite.RunService.
type RunService interface {
	// AddRun records a run. It returns the run's order number.
	AddRun(*Run) (int, error)

	// FindRuns finds runs those matched with given filter, the newest first.
	FindRuns(RunFilter) ([]*Run, error)
}

// QueueItem is a queued job information for database service.
type QueueItem struct {
	Order      int
	ID         string
	Scene      string
	Start      int
	End        int
	OutputDir  string
	Layer      string
	Resolution int
	Mode       int
}

// Run is a job run information for database service.
type Run struct {
	Order    int
	JobID    string
	Scene    string
	Mode     int
	Start    int
	End      int
	Status   string
	ExitCode int
	Message  string
	Commands string
	Started  time.Time
	Finished time.Time
}

// RunFilter is a run filter for searching runs.
// Empty fields match everything.
type RunFilter struct {
	JobID  string
	Status string

	// Limit limits number of runs. Zero means no limit.
	Limit int
}
