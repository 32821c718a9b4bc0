package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Robo-91/grocery-inventory/internal/catalog"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Images not referenced by any document must be at least this old before
// the sweep removes them, so an in-flight upload is never deleted.
const orphanImageMinAge = 24 * time.Hour

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 10m", func() {
		a.SchedInventoryStatsTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", func() {
		a.SchedSweepOrphanImagesTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}
}

// SchedInventoryStatsTask logs per-category document counts.
func (a *Application) SchedInventoryStatsTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fields := make([]zap.Field, 0, len(catalog.Categories))
	for _, s := range catalog.Categories {
		n, err := a.store.Count(ctx, s)
		if err != nil {
			zap.L().Warn("inventory stats count failed", zap.String("category", s.Code), zap.Error(err))
			return
		}
		fields = append(fields, zap.Int64(s.Code, n))
	}
	zap.L().Info("inventory stats", fields...)
}

// SchedSweepOrphanImagesTask removes files in the public images directory
// that no document references anymore, once they are past the minimum age.
func (a *Application) SchedSweepOrphanImagesTask() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	live, err := a.store.ImageFiles(ctx)
	if err != nil {
		zap.L().Warn("orphan image sweep aborted", zap.Error(err))
		return
	}

	dir := a.appConfig.PublicImageDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		zap.L().Warn("orphan image sweep aborted", zap.String("dir", dir), zap.Error(err))
		return
	}

	cutoff := time.Now().Add(-orphanImageMinAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := live[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			zap.L().Warn("orphan image remove failed", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		zap.L().Info("orphan image sweep done", zap.Int("removed", removed))
	}
}
