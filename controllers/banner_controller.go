package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/utils"
)

// BannerController serves the homepage hero slides and their admin management.
type BannerController struct {
	banners *repository.BannerRepository
}

// NewBannerController creates a new BannerController instance.
func NewBannerController(db *gorm.DB) *BannerController {
	return &BannerController{banners: repository.NewBannerRepository(db)}
}

// ListBanners returns banners in display order.
func (b *BannerController) ListBanners(ctx *gin.Context) {
	if cached, ok := utils.CacheGetBytes(utils.CacheKeyBannerList); ok {
		ctx.Data(http.StatusOK, "application/json", cached)
		return
	}
	banners, err := b.banners.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, 50030, "failed to fetch banners")
		return
	}
	utils.CacheSetEnvelope(utils.CacheKeyBannerList, banners, 0)
	utils.Success(ctx, banners)
}

// CreateBanner adds a banner.
func (b *BannerController) CreateBanner(ctx *gin.Context) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		VideoURL    string `json:"videoUrl"`
		Order       int    `json:"order"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}
	banner, err := b.banners.Create(ctx.Request.Context(), repository.BannerInput{
		Title:       utils.SanitizeText(req.Title),
		Description: utils.SanitizeText(req.Description),
		ImageURL:    req.ImageURL,
		VideoURL:    req.VideoURL,
		Order:       req.Order,
	})
	if err != nil {
		respondError(ctx, err, 50031, "failed to create banner")
		return
	}
	utils.InvalidateByPrefix(utils.CachePrefixBanners)
	utils.Success(ctx, banner)
}

// DeleteBanner removes a banner identified by the :id path segment or the id query parameter.
func (b *BannerController) DeleteBanner(ctx *gin.Context) {
	raw := strings.TrimSpace(ctx.Param("id"))
	if raw == "" {
		raw = strings.TrimSpace(ctx.Query("id"))
	}
	if raw == "" {
		utils.Error(ctx, http.StatusBadRequest, 40031, "id required")
		return
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid id")
		return
	}
	if err := b.banners.Delete(ctx.Request.Context(), uint(id)); err != nil {
		respondError(ctx, err, 50032, "failed to delete banner")
		return
	}
	utils.InvalidateByPrefix(utils.CachePrefixBanners)
	utils.Success(ctx, gin.H{"success": true})
}

// ReorderBanners applies a list of {id, order} assignments.
func (b *BannerController) ReorderBanners(ctx *gin.Context) {
	var orders []repository.BannerOrder
	if err := ctx.ShouldBindJSON(&orders); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40033, "invalid body")
		return
	}
	err := b.banners.Reorder(ctx.Request.Context(), orders)
	// Entries applied before a failure are kept, so the cache is stale either way
	utils.InvalidateByPrefix(utils.CachePrefixBanners)
	if err != nil {
		respondError(ctx, err, 50033, "failed to reorder banners")
		return
	}
	utils.Success(ctx, gin.H{"success": true})
}
