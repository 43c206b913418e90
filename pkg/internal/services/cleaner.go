package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Cleaner struct {
	db *gorm.DB
}

func NewCleaner(db *gorm.DB) *Cleaner {
	return &Cleaner{db: db}
}

// DoAutoDatabaseCleanup runs on a timer and repairs any like counter that
// drifted from the likes table, the self-healing half of the
// recompute-on-write strategy.
func (v *Cleaner) DoAutoDatabaseCleanup() {
	result := v.db.Exec(
		"UPDATE posts SET total_likes = (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) " +
			"WHERE total_likes != (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)",
	)
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("An error occurred when reconciling like counters...")
		return
	}
	if result.RowsAffected > 0 {
		log.Info().Int64("count", result.RowsAffected).Msg("Reconciled drifted like counters.")
	}
}
