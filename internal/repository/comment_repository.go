package repository

import (
	"context"
	"errors"

	"projecthub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// CreateProjectComment adds a new project-level comment
func (r *CommentRepository) CreateProjectComment(ctx context.Context, comment *model.ProjectComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetProjectComments возвращает комментарии проекта, закрепленные сверху
func (r *CommentRepository) GetProjectComments(ctx context.Context, projectID uuid.UUID) ([]model.ProjectComment, error) {
	var comments []model.ProjectComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("project_id = ?", projectID).
		Order("is_pinned DESC, created_at").
		Find(&comments).Error
	return comments, err
}

// GetProjectComment retrieves a project comment by its ID
func (r *CommentRepository) GetProjectComment(ctx context.Context, id uuid.UUID) (*model.ProjectComment, error) {
	var comment model.ProjectComment
	result := r.db.WithContext(ctx).First(&comment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, result.Error
	}
	return &comment, nil
}

// SetPinned updates the pin flag of a project comment
func (r *CommentRepository) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	result := r.db.WithContext(ctx).Model(&model.ProjectComment{}).
		Where("id = ?", id).
		Update("is_pinned", pinned)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// CreateTaskComment adds a new task comment. Replies to replies are
// rejected: the thread is one level deep, parent ID is the sole link.
func (r *CommentRepository) CreateTaskComment(ctx context.Context, comment *model.TaskComment) error {
	if comment.ParentID != nil {
		parent, err := r.GetTaskComment(ctx, *comment.ParentID)
		if err != nil {
			return err
		}
		if parent.ParentID != nil {
			return errors.New("cannot reply to a reply")
		}
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetTaskComment retrieves a task comment by its ID
func (r *CommentRepository) GetTaskComment(ctx context.Context, id uuid.UUID) (*model.TaskComment, error) {
	var comment model.TaskComment
	result := r.db.WithContext(ctx).First(&comment, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, result.Error
	}
	return &comment, nil
}

// GetTaskComments возвращает комментарии задачи в порядке создания;
// дерево ответов собирается на клиенте по parent_id
func (r *CommentRepository) GetTaskComments(ctx context.Context, taskID uuid.UUID) ([]model.TaskComment, error) {
	var comments []model.TaskComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&comments).Error
	return comments, err
}

// DeleteTaskComment removes a task comment. The store restricts the
// delete while replies reference the comment.
func (r *CommentRepository) DeleteTaskComment(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.TaskComment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// AddReaction записывает эмодзи-реакцию; повторная реакция тем же
// эмодзи нарушает уникальный индекс и возвращается как ошибка
func (r *CommentRepository) AddReaction(ctx context.Context, reaction *model.CommentReaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

// RemoveReaction удаляет реакцию пользователя
func (r *CommentRepository) RemoveReaction(ctx context.Context, commentID, userID uuid.UUID, emoji string) error {
	return r.db.WithContext(ctx).
		Where("task_comment_id = ? AND user_id = ? AND emoji = ?", commentID, userID, emoji).
		Delete(&model.CommentReaction{}).Error
}

// GetReactions возвращает реакции на комментарий
func (r *CommentRepository) GetReactions(ctx context.Context, commentID uuid.UUID) ([]model.CommentReaction, error) {
	var reactions []model.CommentReaction
	err := r.db.WithContext(ctx).
		Where("task_comment_id = ?", commentID).
		Find(&reactions).Error
	return reactions, err
}

// AddAttachment adds an attachment to a comment
func (r *CommentRepository) AddAttachment(ctx context.Context, attachment *model.CommentAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// GetTaskCommentAttachments возвращает вложения комментария задачи
func (r *CommentRepository) GetTaskCommentAttachments(ctx context.Context, commentID uuid.UUID) ([]model.CommentAttachment, error) {
	var attachments []model.CommentAttachment
	err := r.db.WithContext(ctx).
		Where("task_comment_id = ?", commentID).
		Find(&attachments).Error
	return attachments, err
}

// GetProjectCommentAttachments возвращает вложения комментария проекта
func (r *CommentRepository) GetProjectCommentAttachments(ctx context.Context, commentID uuid.UUID) ([]model.CommentAttachment, error) {
	var attachments []model.CommentAttachment
	err := r.db.WithContext(ctx).
		Where("project_comment_id = ?", commentID).
		Find(&attachments).Error
	return attachments, err
}
