package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"studioflow/internal/domain"
	"studioflow/internal/repository"
)

const (
	platformStatsCacheKey = "dashboard:platform"
	platformStatsCacheTTL = 5 * time.Minute
)

type DashboardService interface {
	ForUser(ctx context.Context, actor *domain.User) (*domain.Dashboard, error)
	PlatformStats(ctx context.Context) (*domain.PlatformStats, error)
	InvalidatePlatformStats(ctx context.Context)
}

type dashboardService struct {
	statsRepo    repository.StatsRepository
	projectRepo  repository.ProjectRepository
	taskRepo     repository.TaskRepository
	deliveryRepo repository.DeliveryRepository
	notifRepo    repository.NotificationRepository
	clientRepo   repository.ClientRepository
	redis        *redis.Client
	logger       *log.Logger
}

func NewDashboardService(statsRepo repository.StatsRepository, projectRepo repository.ProjectRepository, taskRepo repository.TaskRepository, deliveryRepo repository.DeliveryRepository, notifRepo repository.NotificationRepository, clientRepo repository.ClientRepository, redisClient *redis.Client, logger *log.Logger) DashboardService {
	return &dashboardService{
		statsRepo:    statsRepo,
		projectRepo:  projectRepo,
		taskRepo:     taskRepo,
		deliveryRepo: deliveryRepo,
		notifRepo:    notifRepo,
		clientRepo:   clientRepo,
		redis:        redisClient,
		logger:       logger,
	}
}

// ForUser assembles the landing payload. Everything here is scoped to the
// caller, so it is computed fresh; only the platform aggregate is cached.
func (s *dashboardService) ForUser(ctx context.Context, actor *domain.User) (*domain.Dashboard, error) {
	dash := &domain.Dashboard{}

	filter := repository.ProjectFilter{}
	switch {
	case actor.Role.AtLeast(domain.RoleManager):
	case actor.Role == domain.RoleClient:
		filter.ScopeClientID = &actor.ID
	default:
		filter.ScopeMemberID = &actor.ID
	}

	projects, total, err := s.projectRepo.List(ctx, filter, domain.PaginationParams{Page: 1, PageSize: 10})
	if err != nil {
		return nil, err
	}
	dash.Projects = projects
	dash.ProjectCount = total

	tasks, openCount, err := s.taskRepo.ListByAssignee(ctx, actor.ID, domain.PaginationParams{Page: 1, PageSize: 10})
	if err != nil {
		return nil, err
	}
	dash.MyTasks = tasks
	dash.OpenTaskCount = openCount

	reviewProjects, err := s.reviewableProjectIDs(ctx, actor)
	if err != nil {
		return nil, err
	}
	if len(reviewProjects) > 0 {
		pending, err := s.deliveryRepo.ListPendingReview(ctx, reviewProjects)
		if err != nil {
			return nil, err
		}
		dash.PendingReviews = pending
	}

	unread, err := s.notifRepo.UnreadCount(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	dash.UnreadCount = unread

	return dash, nil
}

func (s *dashboardService) PlatformStats(ctx context.Context) (*domain.PlatformStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, platformStatsCacheKey).Result(); err == nil {
			var stats domain.PlatformStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.statsRepo.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if payload, err := json.Marshal(stats); err == nil {
			if err := s.redis.Set(ctx, platformStatsCacheKey, payload, platformStatsCacheTTL).Err(); err != nil {
				s.logger.Printf("dashboard: cache platform stats: %v", err)
			}
		}
	}

	return stats, nil
}

func (s *dashboardService) InvalidatePlatformStats(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, platformStatsCacheKey).Err(); err != nil {
		s.logger.Printf("dashboard: invalidate platform stats: %v", err)
	}
}

// reviewableProjectIDs lists projects where the actor can act on an
// in_review delivery: projects they manage plus projects linked to their
// client record.
func (s *dashboardService) reviewableProjectIDs(ctx context.Context, actor *domain.User) ([]uuid.UUID, error) {
	memberProjects, err := s.projectRepo.ListProjectIDsForMember(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberProjects))
	for _, projectID := range memberProjects {
		role, err := s.projectRepo.GetMemberRole(ctx, projectID, actor.ID)
		if err != nil {
			return nil, err
		}
		if role != nil && *role == domain.ProjectRoleManager {
			ids = append(ids, projectID)
		}
	}

	clientProjects, err := s.clientRepo.ListProjectIDsForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	ids = append(ids, clientProjects...)

	return ids, nil
}
