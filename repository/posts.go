package repository

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/storage"
	"github.com/cppla/mzportal/utils"
)

// DefaultMaxImages is the per-post image limit used when none is configured.
const DefaultMaxImages = 5

// FileStore persists uploaded images and removes them by URL.
type FileStore interface {
	Save(fh *multipart.FileHeader) (storage.StoredFile, error)
	Delete(url string) error
}

// PostRepository manages posts together with the image files they reference.
type PostRepository struct {
	db        *gorm.DB
	files     FileStore
	users     *UserRepository
	maxImages int
}

// NewPostRepository creates a PostRepository.
func NewPostRepository(db *gorm.DB, files FileStore, maxImages int) *PostRepository {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}
	return &PostRepository{db: db, files: files, users: NewUserRepository(db), maxImages: maxImages}
}

// UpdatePostInput carries the editable fields of a post.
type UpdatePostInput struct {
	Title   string
	Content string
	// Keep lists already stored image URLs that survive the edit, in display order.
	Keep  []string
	Files []*multipart.FileHeader
}

// List returns every post with its author, newest first.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	posts := []models.Post{}
	if err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// Create stores the uploaded files and then the post. Files that fail to store are skipped.
func (r *PostRepository) Create(ctx context.Context, title, content, authorUsername string, files []*multipart.FileHeader) (*models.Post, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" || authorUsername == "" {
		return nil, invalid("title, content and author are required")
	}
	files = nonEmpty(files)
	if len(files) > r.maxImages {
		return nil, invalid("at most %d images per post", r.maxImages)
	}

	author, err := r.users.FindByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}

	saved := r.storeAll(ctx, files)
	post := models.Post{
		Title:     title,
		Content:   content,
		AuthorID:  author.ID,
		ImageURLs: datatypes.JSONSlice[string](urlsOf(saved)),
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		return linkAttachments(tx, post.ID, saved)
	})
	if err != nil {
		r.discard(ctx, saved)
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = *author
	return &post, nil
}

// Get increments the view counter and returns the post with the new count.
func (r *PostRepository) Get(ctx context.Context, id uint) (*models.Post, error) {
	res := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notFound("post not found")
	}
	return r.load(ctx, id)
}

// Update replaces title, content and images of a post owned by the requester or edited by an admin.
func (r *PostRepository) Update(ctx context.Context, id uint, requesterUsername string, in UpdatePostInput) (*models.Post, error) {
	post, err := r.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.authorize(ctx, *post, requesterUsername); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, invalid("title and content are required")
	}
	keep := make([]string, 0, len(in.Keep))
	for _, u := range in.Keep {
		if u = strings.TrimSpace(u); u != "" {
			keep = append(keep, u)
		}
	}
	keep = utils.UniqueStrings(keep)
	files := nonEmpty(in.Files)
	if len(keep)+len(files) > r.maxImages {
		return nil, invalid("at most %d images per post", r.maxImages)
	}

	stored := post.StoredImages()
	storedSet := make(map[string]bool, len(stored))
	for _, u := range stored {
		storedSet[u] = true
	}
	keptSet := make(map[string]bool, len(keep))
	for _, u := range keep {
		if !storedSet[u] {
			return nil, invalid("image %s does not belong to this post", u)
		}
		keptSet[u] = true
	}
	var dropped []string
	for _, u := range stored {
		if !keptSet[u] {
			dropped = append(dropped, u)
		}
	}

	saved := r.storeAll(ctx, files)
	final := append(append([]string{}, keep...), urlsOf(saved)...)
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(map[string]interface{}{
			"title":      title,
			"content":    content,
			"image_urls": datatypes.JSONSlice[string](final),
			"image_url":  "",
		}).Error; err != nil {
			return err
		}
		if err := linkAttachments(tx, post.ID, saved); err != nil {
			return err
		}
		if len(dropped) > 0 {
			return tx.Where("url IN ?", dropped).Delete(&models.Attachment{}).Error
		}
		return nil
	})
	if err != nil {
		r.discard(ctx, saved)
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	for _, u := range dropped {
		if err := r.files.Delete(u); err != nil {
			utils.Sugar.Warnw("failed to delete replaced image", "post", id, "url", u, "err", err)
		}
	}
	return r.load(ctx, id)
}

// Delete removes the post and its image files. File errors are logged, never returned.
func (r *PostRepository) Delete(ctx context.Context, id uint, requesterUsername string) error {
	post, err := r.load(ctx, id)
	if err != nil {
		return err
	}
	if err := r.authorize(ctx, *post, requesterUsername); err != nil {
		return err
	}

	urls := post.StoredImages()
	for _, u := range urls {
		if err := r.files.Delete(u); err != nil {
			utils.Sugar.Warnw("failed to delete post image", "post", id, "url", u, "err", err)
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("post_id = ?", post.ID)
		if len(urls) > 0 {
			q = q.Or("url IN ?", urls)
		}
		if err := q.Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, post.ID).Error
	})
}

// MigrateLegacyImages moves the deprecated single image into the image list
// for posts that have not been migrated yet. It returns the number of posts changed.
func (r *PostRepository) MigrateLegacyImages(ctx context.Context) (int, error) {
	var legacy []models.Post
	if err := r.db.WithContext(ctx).Where("image_url IS NOT NULL AND image_url <> ''").Find(&legacy).Error; err != nil {
		return 0, err
	}
	migrated := 0
	for _, p := range legacy {
		urls := p.ImageURLs
		if len(urls) == 0 {
			urls = datatypes.JSONSlice[string]{p.ImageURL}
		}
		if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", p.ID).
			UpdateColumns(map[string]interface{}{"image_urls": urls, "image_url": ""}).Error; err != nil {
			return migrated, fmt.Errorf("migrate post %d: %w", p.ID, err)
		}
		migrated++
	}
	return migrated, nil
}

func (r *PostRepository) load(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, translate(err, "post not found")
	}
	return &post, nil
}

// authorize re-reads the requester on every call so role changes apply immediately.
func (r *PostRepository) authorize(ctx context.Context, post models.Post, requesterUsername string) error {
	requester, err := r.users.lookup(ctx, requesterUsername)
	if err != nil {
		return err
	}
	if !CanMutate(post, requesterUsername, requester) {
		return fmt.Errorf("%w: only the author or an admin may modify this post", ErrUnauthorized)
	}
	return nil
}

// storeAll writes each file and records an unlinked attachment row for it.
// Failed files are logged and left out.
func (r *PostRepository) storeAll(ctx context.Context, files []*multipart.FileHeader) []models.Attachment {
	saved := make([]models.Attachment, 0, len(files))
	for _, fh := range files {
		sf, err := r.files.Save(fh)
		if err != nil {
			utils.Sugar.Warnw("skipping upload", "file", fh.Filename, "err", err)
			continue
		}
		att := models.Attachment{URL: sf.URL, FilePath: sf.Path, Size: sf.Size, ContentType: sf.ContentType}
		if err := r.db.WithContext(ctx).Create(&att).Error; err != nil {
			utils.Sugar.Warnw("attachment bookkeeping failed", "url", sf.URL, "err", err)
		}
		saved = append(saved, att)
	}
	return saved
}

// discard removes files written for a record that failed to persist.
func (r *PostRepository) discard(ctx context.Context, saved []models.Attachment) {
	for _, a := range saved {
		if err := r.files.Delete(a.URL); err != nil {
			utils.Sugar.Warnw("failed to remove upload after write failure", "url", a.URL, "err", err)
		}
		if a.ID != 0 {
			_ = r.db.WithContext(ctx).Delete(&models.Attachment{}, a.ID).Error
		}
	}
}

func linkAttachments(tx *gorm.DB, postID uint, saved []models.Attachment) error {
	ids := make([]uint, 0, len(saved))
	for _, a := range saved {
		if a.ID != 0 {
			ids = append(ids, a.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&models.Attachment{}).Where("id IN ?", ids).Update("post_id", postID).Error
}

func urlsOf(saved []models.Attachment) []string {
	urls := make([]string, 0, len(saved))
	for _, a := range saved {
		urls = append(urls, a.URL)
	}
	return urls
}

func nonEmpty(files []*multipart.FileHeader) []*multipart.FileHeader {
	out := make([]*multipart.FileHeader, 0, len(files))
	for _, fh := range files {
		if fh != nil && fh.Size > 0 {
			out = append(out, fh)
		}
	}
	return out
}
