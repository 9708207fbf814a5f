package api

import (
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/storage"
)

type App interface {
	Logger() internal.Logger
	LogRepo() storage.DailyLogRepository
	GoalRepo() storage.GoalRepository
	Now() time.Time
}
