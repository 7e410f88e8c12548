package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/cppla/mzportal/config"
	"github.com/cppla/mzportal/utils"
)

// ConfigController serves configuration driven homepage content.
type ConfigController struct{}

// NewConfigController creates a new ConfigController instance.
func NewConfigController() *ConfigController { return &ConfigController{} }

// GetNotice returns the marquee announcement.
func (c *ConfigController) GetNotice(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"title": cfg.NoticeTitle,
		"items": cfg.NoticeItems,
	})
}

// GetPortals returns the portal shortcut links.
func (c *ConfigController) GetPortals(ctx *gin.Context) {
	utils.Success(ctx, config.Get().Portals)
}

// GetVideos returns the video showcase catalog.
func (c *ConfigController) GetVideos(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"videos": cfg.Videos,
		"shorts": cfg.Shorts,
	})
}
