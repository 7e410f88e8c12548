package controllers

import (
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/config"
	"github.com/cppla/mzportal/middleware"
	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/utils"
)

// PostController manages board posts and their image uploads.
type PostController struct {
	posts    *repository.PostRepository
	cacheTTL time.Duration
}

// NewPostController creates a new PostController instance.
func NewPostController(db *gorm.DB, files repository.FileStore) *PostController {
	cfg := config.Get()
	return &PostController{
		posts:    repository.NewPostRepository(db, files, cfg.MaxImagesPerPost),
		cacheTTL: time.Duration(cfg.PostListCacheSeconds) * time.Second,
	}
}

// ListPosts returns all posts with their authors, newest first.
func (p *PostController) ListPosts(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(utils.CacheKeyPostList); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}
	posts, err := p.posts.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err, 50020, "failed to fetch posts")
		return
	}
	utils.CacheSetEnvelope(utils.CacheKeyPostList, posts, p.cacheTTL)
	utils.Success(ctx, posts)
}

// CreatePost accepts multipart title, content and up to five "file" parts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	ident, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40120, "unauthorized")
		return
	}
	form, ok := multipartForm(ctx)
	if !ok {
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(),
		utils.SanitizeText(formValue(form, "title")),
		utils.Sanitize(formValue(form, "content")),
		ident.Username,
		form.File["file"],
	)
	if err != nil {
		respondError(ctx, err, 50021, "failed to create post")
		return
	}
	utils.InvalidateByPrefix(utils.CachePrefixPosts)
	utils.Success(ctx, post)
}

// GetPost returns one post and counts the view.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	post, err := p.posts.Get(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err, 50022, "failed to fetch post")
		return
	}
	utils.Success(ctx, post)
}

// UpdatePost replaces the post's text and images. existingImages lists the
// stored URLs to keep, new "file" parts are appended after them.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	ident, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40121, "unauthorized")
		return
	}
	form, ok := multipartForm(ctx)
	if !ok {
		return
	}

	keep := append(form.Value["existingImages"], form.Value["existingImages[]"]...)
	post, err := p.posts.Update(ctx.Request.Context(), id, ident.Username, repository.UpdatePostInput{
		Title:   utils.SanitizeText(formValue(form, "title")),
		Content: utils.Sanitize(formValue(form, "content")),
		Keep:    keep,
		Files:   form.File["file"],
	})
	if err != nil {
		respondError(ctx, err, 50023, "failed to update post")
		return
	}
	utils.InvalidateByPrefix(utils.CachePrefixPosts)
	utils.Success(ctx, post)
}

// DeletePost removes a post and its images.
func (p *PostController) DeletePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}
	ident, ok := middleware.IdentityFrom(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40122, "unauthorized")
		return
	}
	if err := p.posts.Delete(ctx.Request.Context(), id, ident.Username); err != nil {
		respondError(ctx, err, 50024, "failed to delete post")
		return
	}
	utils.InvalidateByPrefix(utils.CachePrefixPosts)
	utils.Success(ctx, gin.H{"success": true})
}

func multipartForm(ctx *gin.Context) (*multipart.Form, bool) {
	form, err := ctx.MultipartForm()
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "expected multipart form data")
		return nil, false
	}
	return form, true
}

func formValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}
