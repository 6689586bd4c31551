package api

import (
	"bizsuite/internal/entity"
	"bizsuite/internal/storage"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 单个上传文件的大小上限
const maxUploadBytes = 20 << 20 // 20 MiB

var allowedUploadCategories = map[string]string{
	"avatar":  storage.CategoryAvatars,
	"product": storage.CategoryProducts,
	"finance": storage.CategoryFinance,
	"post":    storage.CategoryPosts,
}

// UploadFile 接收 multipart 文件并写入存储后端，返回相对路径与公共 URL。
// category 取值 avatar/product/finance/post，决定文件归档位置。
func (h *HTTPHandler) UploadFile(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "storage not available")
		return
	}

	category, ok := allowedUploadCategories[strings.ToLower(strings.TrimSpace(c.PostForm("category")))]
	if !ok {
		BadRequest(c, ErrCodeInvalidRequest, "invalid upload category")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded file")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to read upload")
		return
	}
	if len(data) == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "empty file")
		return
	}
	if int64(len(data)) > maxUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	base := strings.TrimSuffix(filepath.Base(fileHeader.Filename), filepath.Ext(fileHeader.Filename))

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  category,
		Extension: ext,
		BaseName:  base,
	})
	if err != nil {
		logrus.WithError(err).WithField("category", category).Error("failed to save upload")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to save upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": path,
		"url":  h.publicURL(path),
	})
}

// UploadAvatar 上传当前用户头像并更新账户记录。
func (h *HTTPHandler) UploadAvatar(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "authentication required")
		return
	}
	if h.storage == nil {
		ServiceUnavailable(c, "storage not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		MissingField(c, "file")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		BadRequest(c, ErrCodeInvalidRequest, "file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded avatar")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) == 0 {
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to read upload")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  storage.CategoryAvatars,
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).Error("failed to save avatar")
		ErrorResponse(c, http.StatusInternalServerError, ErrCodeUploadFailed, "failed to save upload")
		return
	}

	if err := h.repo.UpdateUser(ctx, user.ID, entity.UserUpdates{AvatarPath: &path}); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to update avatar path")
		InternalError(c, "failed to update avatar")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path": path,
		"url":  h.publicURL(path),
	})
}
