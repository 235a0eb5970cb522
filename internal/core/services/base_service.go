package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	portsrepo "github.com/sitesutra/construction_erp_app/internal/core/ports/repositories"
	portssvc "github.com/sitesutra/construction_erp_app/internal/core/ports/services"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// budgetAlertUtilization is the utilization percentage above which a project
// is considered at risk of overrun.
var budgetAlertUtilization = decimal.NewFromInt(90)

// BaseService provides common functionality for all services.
type BaseService struct {
	Notifier portssvc.Notifier
}

// GetLogger gets the logger from context or returns a default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// notify publishes an event to the company topic and, when projectID is set,
// the project topic too. Delivery is fire-and-forget.
func (s *BaseService) notify(ctx context.Context, actor domain.Actor, projectID, eventType, message string, data map[string]any) {
	if s.Notifier == nil {
		return
	}
	event := domain.Event{
		Type:      eventType,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
	s.Notifier.Publish(ctx, domain.CompanyTopic(actor.CompanyID), event)
	if projectID != "" {
		s.Notifier.Publish(ctx, domain.ProjectTopic(projectID), event)
	}
}

// alertIfOverBudget re-reads the project after a spend was recorded and emits
// a BUDGET_ALERT once utilization crosses the threshold. Best effort, like
// every notification: a failed read just skips the alert.
func (s *BaseService) alertIfOverBudget(ctx context.Context, actor domain.Actor, projectRepo portsrepo.ProjectRepositoryFacade, projectID string) {
	if s.Notifier == nil || projectRepo == nil || projectID == "" {
		return
	}
	project, err := projectRepo.FindProjectByID(ctx, actor.CompanyID, projectID)
	if err != nil {
		return
	}
	health := domain.ComputeBudgetHealth(project)
	if health.UtilizationPercent.LessThanOrEqual(budgetAlertUtilization) {
		return
	}
	s.notify(ctx, actor, projectID, "BUDGET_ALERT",
		fmt.Sprintf("Project %s has used %s%% of its budget", project.Name, health.UtilizationPercent),
		map[string]any{
			"projectID":          projectID,
			"utilizationPercent": health.UtilizationPercent,
			"availableBudget":    health.AvailableBudget,
			"healthStatus":       health.HealthStatus,
		})
}

// newTimelineEntry builds one timeline row for a workflow transition.
func newTimelineEntry(status string, actor domain.Actor, note string) domain.TimelineEntry {
	return domain.TimelineEntry{
		Status:      status,
		Date:        time.Now().UTC(),
		PerformedBy: actor.UserID,
		Note:        note,
	}
}

// newAuditFields stamps creation audit data for a new entity.
func newAuditFields(actor domain.Actor, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actor.UserID,
		LastUpdatedAt: now,
		LastUpdatedBy: actor.UserID,
	}
}

// touchAudit stamps modification audit data on an existing entity.
func touchAudit(af *domain.AuditFields, actor domain.Actor, now time.Time) {
	af.LastUpdatedAt = now
	af.LastUpdatedBy = actor.UserID
}
