package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Repositories struct {
	User         UserRepository
	Client       ClientRepository
	Project      ProjectRepository
	Task         TaskRepository
	Delivery     DeliveryRepository
	Comment      CommentRepository
	Notification NotificationRepository
	AuditLog     AuditLogRepository
	Session      SessionRepository
	Stats        StatsRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Client:       NewClientRepository(db),
		Project:      NewProjectRepository(db),
		Task:         NewTaskRepository(db),
		Delivery:     NewDeliveryRepository(db),
		Comment:      NewCommentRepository(db),
		Notification: NewNotificationRepository(db),
		AuditLog:     NewAuditLogRepository(db),
		Session:      NewSessionRepository(db),
		Stats:        NewStatsRepository(db),
	}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
