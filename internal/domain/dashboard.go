package domain

// PlatformStats is the admin dashboard aggregate.
type PlatformStats struct {
	TotalUsers        int64 `json:"total_users" db:"total_users"`
	TotalClients      int64 `json:"total_clients" db:"total_clients"`
	TotalProjects     int64 `json:"total_projects" db:"total_projects"`
	ActiveProjects    int64 `json:"active_projects" db:"active_projects"`
	CompletedProjects int64 `json:"completed_projects" db:"completed_projects"`
	TotalTasks        int64 `json:"total_tasks" db:"total_tasks"`
	OpenTasks         int64 `json:"open_tasks" db:"open_tasks"`
	TotalDeliveries   int64 `json:"total_deliveries" db:"total_deliveries"`
	PendingReviews    int64 `json:"pending_reviews" db:"pending_reviews"`
}

// Dashboard is the per-user landing payload: the caller's projects, open
// tasks, deliveries awaiting their review and unread notification count.
type Dashboard struct {
	Projects        []Project     `json:"projects"`
	MyTasks         []Task        `json:"my_tasks"`
	PendingReviews  []DeliveryJob `json:"pending_reviews"`
	UnreadCount     int64         `json:"unread_count"`
	ProjectCount    int64         `json:"project_count"`
	OpenTaskCount   int64         `json:"open_task_count"`
}
