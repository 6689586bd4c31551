package api

import (
	"bizsuite/internal/entity"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func (h *HTTPHandler) ListPosts(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	posts, err := h.repo.ListPosts(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list posts")
		InternalError(c, "failed to load posts")
		return
	}

	for idx := range posts {
		posts[idx].PhotoPath = h.publicURL(posts[idx].PhotoPath)
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *HTTPHandler) CreatePost(c *gin.Context) {
	var req entity.PostCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	post := &entity.DbPost{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		PhotoPath:   strings.TrimSpace(req.PhotoPath),
		Location:    strings.TrimSpace(req.Location),
		Description: strings.TrimSpace(req.Description),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreatePost(ctx, post); err != nil {
		logrus.WithError(err).Error("failed to create post")
		InternalError(c, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *HTTPHandler) UpdatePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.PostUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	updates := entity.PostUpdates{
		PhotoPath:   req.PhotoPath,
		Location:    req.Location,
		Description: req.Description,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.UpdatePost(ctx, id, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePostNotFound, "post not found")
			return
		}
		logrus.WithError(err).Error("failed to update post")
		InternalError(c, "failed to update post")
		return
	}

	post, err := h.repo.GetPost(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload post after update")
		InternalError(c, "failed to load updated post")
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *HTTPHandler) DeletePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePostNotFound, "post not found")
			return
		}
		logrus.WithError(err).Error("failed to delete post")
		InternalError(c, "failed to delete post")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HTTPHandler) LikePost(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.LikePost(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePostNotFound, "post not found")
			return
		}
		logrus.WithError(err).Error("failed to like post")
		InternalError(c, "failed to like post")
		return
	}

	post, err := h.repo.GetPost(ctx, id)
	if err != nil {
		logrus.WithError(err).Error("failed to reload post after like")
		InternalError(c, "failed to load post")
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *HTTPHandler) AddPostComment(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req entity.PostCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	comment := &entity.DbPostComment{
		PostID: id,
		Text:   strings.TrimSpace(req.Text),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.AddPostComment(ctx, comment); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodePostNotFound, "post not found")
			return
		}
		logrus.WithError(err).Error("failed to add comment")
		InternalError(c, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *HTTPHandler) CreateFeedback(c *gin.Context) {
	var req entity.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	feedback := &entity.DbFeedback{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Section: strings.TrimSpace(req.Section),
		Message: strings.TrimSpace(req.Message),
		Rating:  req.Rating,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateFeedback(ctx, feedback); err != nil {
		logrus.WithError(err).Error("failed to create feedback")
		InternalError(c, "failed to submit feedback")
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func (h *HTTPHandler) ListFeedback(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.repo.ListFeedback(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list feedback")
		InternalError(c, "failed to load feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": entries})
}

func (h *HTTPHandler) DeleteFeedback(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteFeedback(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, ErrCodeRecordNotFound, "feedback not found")
			return
		}
		logrus.WithError(err).Error("failed to delete feedback")
		InternalError(c, "failed to delete feedback")
		return
	}

	c.Status(http.StatusNoContent)
}
