package sqlite

import (
	"database/sql"

	"github.com/imagvfx/renderq/service"
)

type Services struct {
	qs *QueueService
	rs *RunService
}

func NewServices(db *sql.DB) *Services {
	return &Services{
		qs: NewQueueService(db),
		rs: NewRunService(db),
	}
}

func (s *Services) QueueService() service.QueueService {
	return s.qs
}

func (s *Services) RunService() service.RunService {
	return s.rs
}
