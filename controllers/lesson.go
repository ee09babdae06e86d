package controllers

import (
	"net/http"
	"strings"

	"tutorcrm-backend/models"
	"tutorcrm-backend/utils"

	"github.com/gin-gonic/gin"
)

var knownLessonTypes = map[string]bool{
	models.LessonTypeOrdinary:    true,
	models.LessonTypePaired:      true,
	models.LessonTypeMasterClass: true,
	models.LessonTypeHappyHour:   true,
}

// LessonController serves the "join now" widget.
type LessonController struct {
	Timeline StartingSoonFinder
}

// GetStartingSoon lists lessons starting soon. Types come from repeated
// ?type= parameters or a comma separated list.
func (lc *LessonController) GetStartingSoon(c *gin.Context) {
	var types []string
	for _, raw := range c.QueryArray("type") {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if !knownLessonTypes[t] {
				utils.RespondWithError(c, http.StatusBadRequest, "Unknown lesson type: "+t)
				return
			}
			types = append(types, t)
		}
	}
	if len(types) == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "At least one lesson type is required")
		return
	}

	lessons, err := lc.Timeline.StartingSoonLessons(c.Request.Context(), types)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve lessons")
		return
	}

	c.JSON(http.StatusOK, lessons)
}
