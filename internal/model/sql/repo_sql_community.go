package sql

import (
	"bizsuite/internal/entity"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// CreatePost inserts a community post.
func (r *GormRepository) CreatePost(ctx context.Context, post *entity.DbPost) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if post == nil {
		return fmt.Errorf("post is nil")
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// UpdatePost updates a post with the provided fields.
func (r *GormRepository) UpdatePost(ctx context.Context, id uint, updates entity.PostUpdates) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid post id")
	}
	fields := updates.ToMap()
	if len(fields) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPost loads a post with its comments.
func (r *GormRepository) GetPost(ctx context.Context, id uint) (*entity.DbPost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return nil, fmt.Errorf("invalid post id")
	}
	var post entity.DbPost
	if err := r.db.WithContext(ctx).Preload("Comments").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPosts returns all posts with comments, newest first.
func (r *GormRepository) ListPosts(ctx context.Context) ([]entity.DbPost, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var posts []entity.DbPost
	if err := r.db.WithContext(ctx).Preload("Comments").Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// DeletePost removes a post and its comments.
func (r *GormRepository) DeletePost(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid post id")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&entity.DbPostComment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.DbPost{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// LikePost increments the like counter atomically.
func (r *GormRepository) LikePost(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid post id")
	}
	result := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("id = ?", id).
		Update("likes", gorm.Expr("likes + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddPostComment appends a comment to a post.
func (r *GormRepository) AddPostComment(ctx context.Context, comment *entity.DbPostComment) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if comment == nil {
		return fmt.Errorf("comment is nil")
	}
	if comment.PostID == 0 {
		return fmt.Errorf("invalid post id")
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.DbPost{}).Where("id = ?", comment.PostID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.db.WithContext(ctx).Create(comment).Error
}

// CreateFeedback records site feedback.
func (r *GormRepository) CreateFeedback(ctx context.Context, feedback *entity.DbFeedback) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if feedback == nil {
		return fmt.Errorf("feedback is nil")
	}
	return r.db.WithContext(ctx).Create(feedback).Error
}

// ListFeedback returns all feedback entries, newest first.
func (r *GormRepository) ListFeedback(ctx context.Context) ([]entity.DbFeedback, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var entries []entity.DbFeedback
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteFeedback removes a feedback entry by ID.
func (r *GormRepository) DeleteFeedback(ctx context.Context, id uint) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if id == 0 {
		return fmt.Errorf("invalid feedback id")
	}
	result := r.db.WithContext(ctx).Delete(&entity.DbFeedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
