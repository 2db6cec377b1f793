package queue

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// FailureStore persists jobs that exhausted their retries.
type FailureStore interface {
	Save(ctx context.Context, f FailedJob) error
}

// FailedJobRecord is the row written by DBFailureStore. The table is created
// by the migrations, not here.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"not null"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

type DBFailureStore struct{ db *gorm.DB }

func NewDBFailureStore(db *gorm.DB) *DBFailureStore { return &DBFailureStore{db: db} }

func (s *DBFailureStore) Save(ctx context.Context, f FailedJob) error {
	rec := FailedJobRecord{
		JobType:  f.Type,
		Payload:  string(f.Payload),
		Attempts: f.Attempts,
		FailedAt: f.FailedAt,
	}
	if f.Err != nil {
		rec.Error = f.Err.Error()
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}
