package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/mzportal/models"
)

// BannerRepository manages homepage hero slides.
type BannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository creates a BannerRepository.
func NewBannerRepository(db *gorm.DB) *BannerRepository {
	return &BannerRepository{db: db}
}

// BannerInput holds the fields of a new banner.
type BannerInput struct {
	Title       string
	Description string
	ImageURL    string
	VideoURL    string
	Order       int
}

// BannerOrder assigns a display position to a banner.
type BannerOrder struct {
	ID    uint `json:"id"`
	Order int  `json:"order"`
}

// List returns banners in display order.
func (r *BannerRepository) List(ctx context.Context) ([]models.Banner, error) {
	banners := []models.Banner{}
	if err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// Create inserts a banner. No ordering collision checks are made.
func (r *BannerRepository) Create(ctx context.Context, in BannerInput) (*models.Banner, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	if title == "" || description == "" {
		return nil, invalid("title and description are required")
	}
	banner := models.Banner{
		Title:       title,
		Description: description,
		ImageURL:    optional(in.ImageURL),
		VideoURL:    optional(in.VideoURL),
		Order:       in.Order,
	}
	if err := r.db.WithContext(ctx).Create(&banner).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

// Delete removes a banner by id.
func (r *BannerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Banner{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("banner not found")
	}
	return nil
}

// Reorder applies each assignment in turn. Earlier assignments stay applied
// when a later one fails.
func (r *BannerRepository) Reorder(ctx context.Context, orders []BannerOrder) error {
	for i, o := range orders {
		res := r.db.WithContext(ctx).Model(&models.Banner{}).Where("id = ?", o.ID).Update("sort_order", o.Order)
		if res.Error != nil {
			return fmt.Errorf("reorder entry %d: %w", i, res.Error)
		}
		if res.RowsAffected == 0 {
			// Some drivers report zero rows when the value is unchanged
			var count int64
			if err := r.db.WithContext(ctx).Model(&models.Banner{}).Where("id = ?", o.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return notFound(fmt.Sprintf("banner %d not found", o.ID))
			}
		}
	}
	return nil
}

// SeedDefaults inserts the stock hero slides into an empty table.
func (r *BannerRepository) SeedDefaults(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Banner{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	defaults := DefaultBanners()
	if err := r.db.WithContext(ctx).Create(&defaults).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DefaultBanners returns the slides shown on a fresh install.
func DefaultBanners() []models.Banner {
	return []models.Banner{
		{
			Title:       "The Future Is Here",
			Description: "Experience the next generation of digital interaction.",
			VideoURL:    optional("https://cdn.pixabay.com/video/2023/10/22/186115-877653483_large.mp4"),
			Order:       0,
		},
		{
			Title:       "Connect & Share",
			Description: "Join the community and share your vibe.",
			ImageURL:    optional("https://images.unsplash.com/photo-1618005182384-a83a8bd57fbe?q=80&w=2564&auto=format&fit=crop"),
			Order:       1,
		},
		{
			Title:       "Trending Now",
			Description: "See what's hot in the MZ world.",
			ImageURL:    optional("https://images.unsplash.com/photo-1550751827-4bd374c3f58b?q=80&w=2670&auto=format&fit=crop"),
			Order:       2,
		},
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
