package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/connections-backend/internal/models"
	"gorm.io/gorm"
)

// StartCleanup runs a daily goroutine that deletes system_logs older than
// retention. It stops when done is closed.
func StartCleanup(db *gorm.DB, retention time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				PruneSystemLogs(db, retention, time.Now())
			case <-done:
				return
			}
		}
	}()
}

// PruneSystemLogs deletes records logged before now minus retention and
// returns how many were removed.
func PruneSystemLogs(db *gorm.DB, retention time.Duration, now time.Time) int64 {
	cutoff := now.Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		slog.Error("log cleanup failed", "error", result.Error)
		return 0
	}
	if result.RowsAffected > 0 {
		slog.Info("log cleanup completed", "deleted", result.RowsAffected)
	}
	return result.RowsAffected
}
