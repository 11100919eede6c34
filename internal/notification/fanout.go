package notification

import (
	"context"
	"fmt"

	"projecthub/internal/model"

	"github.com/google/uuid"
)

// MemberLister exposes the membership projections the fan-out needs.
// Implemented by repository.ProjectMemberRepository.
type MemberLister interface {
	ListMemberIDs(ctx context.Context, projectID, exclude uuid.UUID) ([]uuid.UUID, error)
	ListMemberIDsByRole(ctx context.Context, projectID uuid.UUID, role string, exclude uuid.UUID) ([]uuid.UUID, error)
}

// Writer persists a single notification row.
// Implemented by repository.NotificationRepository.
type Writer interface {
	Create(ctx context.Context, n *model.Notification) error
}

// Service materializes notification rows for task-affecting events,
// one row per recipient. Inserts are sequential and independent: no
// transaction wraps the recipient loop, so a failure mid-way leaves the
// rows written so far in place and returns the error. Callers must not
// assume atomicity across recipients.
type Service struct {
	members MemberLister
	writer  Writer
}

func NewService(members MemberLister, writer Writer) *Service {
	return &Service{members: members, writer: writer}
}

// NotifyStatusChange notifies the task's assignee (when set and not the
// actor) and every current project member except the actor. An assignee
// who is also a project member receives two rows; the duplicate is
// intentional and kept.
func (s *Service) NotifyStatusChange(ctx context.Context, task *model.Task, oldStatus, newStatus string, actorID uuid.UUID) error {
	message := fmt.Sprintf("Task %q moved from %s to %s", task.Title, oldStatus, newStatus)

	if task.AssigneeID != nil && *task.AssigneeID != actorID {
		if err := s.insert(ctx, *task.AssigneeID, task, model.NotificationStatusChange, "Task status changed", message, &actorID); err != nil {
			return err
		}
	}

	memberIDs, err := s.members.ListMemberIDs(ctx, task.ProjectID, actorID)
	if err != nil {
		return err
	}

	for _, memberID := range memberIDs {
		if err := s.insert(ctx, memberID, task, model.NotificationStatusChange, "Task status changed", message, &actorID); err != nil {
			return err
		}
	}

	return nil
}

// NotifyCompleted notifies every project member except the actor.
func (s *Service) NotifyCompleted(ctx context.Context, task *model.Task, actorID uuid.UUID) error {
	message := fmt.Sprintf("Task %q was completed", task.Title)

	memberIDs, err := s.members.ListMemberIDs(ctx, task.ProjectID, actorID)
	if err != nil {
		return err
	}

	for _, memberID := range memberIDs {
		if err := s.insert(ctx, memberID, task, model.NotificationCompleted, "Task completed", message, &actorID); err != nil {
			return err
		}
	}

	return nil
}

// NotifyBlocked notifies the assignee (when set and not the actor) and
// the project members holding the pm role, except the actor.
func (s *Service) NotifyBlocked(ctx context.Context, task *model.Task, actorID uuid.UUID) error {
	message := fmt.Sprintf("Task %q is blocked", task.Title)

	if task.AssigneeID != nil && *task.AssigneeID != actorID {
		if err := s.insert(ctx, *task.AssigneeID, task, model.NotificationBlocked, "Task blocked", message, &actorID); err != nil {
			return err
		}
	}

	pmIDs, err := s.members.ListMemberIDsByRole(ctx, task.ProjectID, model.ProjectRolePM, actorID)
	if err != nil {
		return err
	}

	for _, pmID := range pmIDs {
		if err := s.insert(ctx, pmID, task, model.NotificationBlocked, "Task blocked", message, &actorID); err != nil {
			return err
		}
	}

	return nil
}

// NotifyOverdue notifies the assignee only. System-triggered: no actor.
func (s *Service) NotifyOverdue(ctx context.Context, task *model.Task) error {
	if task.AssigneeID == nil {
		return nil
	}

	message := fmt.Sprintf("Task %q is overdue", task.Title)
	return s.insert(ctx, *task.AssigneeID, task, model.NotificationOverdue, "Task overdue", message, nil)
}

// NotifySLAWarning notifies the assignee only, with the remaining hours
// before the SLA deadline. System-triggered: no actor.
func (s *Service) NotifySLAWarning(ctx context.Context, task *model.Task, hoursRemaining int) error {
	if task.AssigneeID == nil {
		return nil
	}

	message := fmt.Sprintf("Task %q has %d hours left before its SLA deadline", task.Title, hoursRemaining)
	return s.insert(ctx, *task.AssigneeID, task, model.NotificationSLAWarning, "SLA warning", message, nil)
}

func (s *Service) insert(ctx context.Context, userID uuid.UUID, task *model.Task, notifType, title, message string, actorID *uuid.UUID) error {
	return s.writer.Create(ctx, &model.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Message:   message,
		ProjectID: &task.ProjectID,
		TaskID:    &task.ID,
		ActorID:   actorID,
	})
}
