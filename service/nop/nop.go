package nop

import "github.com/imagvfx/renderq/service"

// Services returns nop services.
// We need this for testing, and for running without a database.
type Services struct{}

func (Services) QueueService() service.QueueService {
	return &QueueService{}
}

func (Services) RunService() service.RunService {
	return &RunService{}
}

// QueueService is a QueueService which does nothing.
type QueueService struct{}

// AddQueueItem returns (0, nil) always.
func (s *QueueService) AddQueueItem(it *service.QueueItem) (int, error) {
	return 0, nil
}

// FindQueueItems returns (nil, nil).
func (s *QueueService) FindQueueItems() ([]*service.QueueItem, error) {
	return nil, nil
}

// RemoveQueueItem returns nil.
func (s *QueueService) RemoveQueueItem(id string) error {
	return nil
}

// ClearQueue returns nil.
func (s *QueueService) ClearQueue(ids []string) error {
	return nil
}

// RunService is a RunService which does nothing.
type RunService struct{}

// AddRun returns (0, nil) always.
func (s *RunService) AddRun(r *service.Run) (int, error) {
	return 0, nil
}

// FindRuns returns (nil, nil).
func (s *RunService) FindRuns(f service.RunFilter) ([]*service.Run, error) {
	return nil, nil
}
