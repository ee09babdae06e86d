package controllers

import (
	"context"

	"tutorcrm-backend/models"
	"tutorcrm-backend/services"
)

type StartingSoonFinder interface {
	StartingSoonLessons(ctx context.Context, lessonTypes []string) ([]models.Lesson, error)
}

type InactivityRunner interface {
	Run(ctx context.Context) (*services.RunReport, error)
}
