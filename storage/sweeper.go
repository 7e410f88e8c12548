package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/utils"
)

const sweepBatch = 100

// Sweeper deletes attachment files whose rows were never linked to a post.
type Sweeper struct {
	db    *gorm.DB
	grace time.Duration
	now   func() time.Time
}

// NewSweeper builds a Sweeper. Files younger than grace are left alone so
// in-flight uploads are never removed.
func NewSweeper(db *gorm.DB, grace time.Duration) *Sweeper {
	if grace <= 0 {
		grace = time.Hour
	}
	return &Sweeper{db: db, grace: grace, now: time.Now}
}

// SweepOnce removes one batch of orphans and reports how many rows were deleted.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.grace)
	var orphans []models.Attachment
	if err := s.db.WithContext(ctx).
		Where("post_id IS NULL AND created_at < ?", cutoff).
		Order("id").
		Limit(sweepBatch).
		Find(&orphans).Error; err != nil {
		return 0, err
	}

	removed := 0
	for _, a := range orphans {
		if err := RemoveFile(a.FilePath); err != nil {
			utils.Sugar.Warnw("orphan file delete failed", "path", a.FilePath, "err", err)
			continue
		}
		// Remove row regardless of whether the file was still there
		if err := s.db.WithContext(ctx).Delete(&models.Attachment{}, a.ID).Error; err != nil {
			utils.Sugar.Warnw("orphan row delete failed", "id", a.ID, "err", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// Start runs SweepOnce every interval until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.SweepOnce(ctx)
				if err != nil {
					utils.Sugar.Errorw("attachment sweep failed", "err", err)
					continue
				}
				if n > 0 {
					utils.Sugar.Infow("attachment sweep", "removed", n)
				}
			}
		}
	}()
}
