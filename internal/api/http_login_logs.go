package api

import (
	"context"
	"net/http"
	"time"

	"faceauth/internal/entity"
	"faceauth/internal/entity/converter"
	"faceauth/internal/entity/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListLoginLogs 分页查询登录日志。管理员可按 user_id 过滤，其他用户只能看到自己的记录。
func (h *HTTPHandler) ListLoginLogs(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
		return
	}

	var query entity.LoginLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, "invalid query parameters")
		return
	}
	query.Normalize()

	if !user.IsAdmin() {
		if query.UserID != 0 && query.UserID != user.ID {
			Forbidden(c, "cannot read another user's login history")
			return
		}
		query.UserID = user.ID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	logs, meta, err := h.repo.ListLoginEvents(ctx, &query)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list login logs")
		InternalError(c, "failed to load login logs")
		return
	}

	c.JSON(http.StatusOK, dto.LoginLogListResponse{
		Items: converter.LoginLogsToItems(logs),
		Meta:  meta,
	})
}
