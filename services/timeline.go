package services

import (
	"context"
	"fmt"
	"iter"
	"time"

	"tutorcrm-backend/models"

	"gorm.io/gorm"
)

// DefaultStartingSoonWindow is how far ahead a timeline entry may start and
// still count as starting soon.
const DefaultStartingSoonWindow = time.Hour

type TimelineService struct {
	db     *gorm.DB
	window time.Duration
	now    func() time.Time
}

func NewTimelineService(db *gorm.DB, window time.Duration) *TimelineService {
	if window <= 0 {
		window = DefaultStartingSoonWindow
	}
	return &TimelineService{db: db, window: window, now: time.Now}
}

// LessonsStartingSoon yields lessons of the given types that have a timeline entry
// starting within the window, with free slots, and a photo to show. Each lesson is
// yielded once however many of its entries match. The query runs when iteration starts.
func (s *TimelineService) LessonsStartingSoon(ctx context.Context, lessonTypes []string) iter.Seq2[models.Lesson, error] {
	return func(yield func(models.Lesson, error) bool) {
		if len(lessonTypes) == 0 {
			return
		}
		now := s.now().UTC()

		rows, err := s.db.WithContext(ctx).
			Model(&models.Lesson{}).
			Distinct("lessons.*").
			Joins("JOIN timeline_entries ON timeline_entries.lesson_id = lessons.id").
			Where("timeline_entries.starts_at BETWEEN ? AND ?", now, now.Add(s.window)).
			Where("timeline_entries.slots > ?", 0).
			Where("lessons.type IN ?", lessonTypes).
			Where("lessons.photo IS NOT NULL AND lessons.photo <> ?", "").
			Order("lessons.id").
			Rows()
		if err != nil {
			yield(models.Lesson{}, fmt.Errorf("query lessons starting soon: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var lesson models.Lesson
			if err := s.db.ScanRows(rows, &lesson); err != nil {
				yield(models.Lesson{}, fmt.Errorf("scan lesson: %w", err))
				return
			}
			if !yield(lesson, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Lesson{}, err)
		}
	}
}

// StartingSoonLessons collects LessonsStartingSoon.
func (s *TimelineService) StartingSoonLessons(ctx context.Context, lessonTypes []string) ([]models.Lesson, error) {
	lessons := []models.Lesson{}
	for lesson, err := range s.LessonsStartingSoon(ctx, lessonTypes) {
		if err != nil {
			return nil, err
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}
