package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/utils"
)

// respondError maps repository error kinds onto HTTP statuses. Anything else
// is logged and answered with the given internal code and message.
func respondError(ctx *gin.Context, err error, internalCode int, internalMsg string) {
	switch {
	case errors.Is(err, repository.ErrValidation):
		utils.Error(ctx, http.StatusBadRequest, 40010, err.Error())
	case errors.Is(err, repository.ErrInvalidCredentials):
		utils.Error(ctx, http.StatusUnauthorized, 40110, err.Error())
	case errors.Is(err, repository.ErrUnauthorized):
		utils.Error(ctx, http.StatusForbidden, 40310, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, err.Error())
	case errors.Is(err, repository.ErrConflict):
		utils.Error(ctx, http.StatusConflict, 40910, err.Error())
	default:
		utils.Sugar.Errorw(internalMsg, "path", ctx.FullPath(), "err", err)
		utils.Error(ctx, http.StatusInternalServerError, internalCode, internalMsg)
	}
}

// parseID reads a positive numeric id from the named path parameter.
func parseID(ctx *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || n == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid id")
		return 0, false
	}
	return uint(n), true
}
