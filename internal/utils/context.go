package utils

import (
	"errors"
	"strconv"

	"github.com/dariovidovic/NWP-LV7/internal/middleware"
	"github.com/dariovidovic/NWP-LV7/internal/types"
	"github.com/gin-gonic/gin"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, errors.New("user not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, errors.New("invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetProjectID(ctx *gin.Context) (uint, error) {
	projectIDStr := ctx.Param("id")

	if projectIDStr == "" {
		return 0, errors.New("project id not found")
	}

	projectID, err := strconv.ParseUint(projectIDStr, 10, 32)

	if err != nil {
		return 0, errors.New("invalid project id")
	}

	return uint(projectID), nil
}
