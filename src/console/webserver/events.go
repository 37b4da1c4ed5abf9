package webserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/civiclink/console/src/console/data"
	"github.com/civiclink/console/src/console/types"
)

const (
	eventUpcoming = "upcoming"
	eventPast     = "past"
)

// eventStatus derives the lifecycle value from the event date. An event stays
// upcoming through the whole of its calendar day.
func eventStatus(eventDate, now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if eventDate.Before(today) {
		return eventPast
	}
	return eventUpcoming
}

type Events struct {
	db    *gorm.DB
	cache *data.Cache
}

func NewEvents(db *gorm.DB, cache *data.Cache) Events {
	return Events{db: db, cache: cache}
}

type eventRequest struct {
	Name      string `json:"name" binding:"required,max=255"`
	EventDate string `json:"eventDate" binding:"required"`
	StartTime string `json:"startTime" binding:"max=16"`
	EndTime   string `json:"endTime" binding:"max=16"`
	Venue     string `json:"venue" binding:"max=256"`
	Summary   string `json:"summary" binding:"max=512"`
	Content   string `json:"content"`
}

func (r eventRequest) date() (time.Time, error) {
	return time.ParseInLocation("2006-01-02", r.EventDate, time.Local)
}

func (e Events) List(c *gin.Context) {
	q := e.db.Order("event_date desc")
	switch c.Query("window") {
	case eventUpcoming:
		q = q.Where("status = ?", eventUpcoming)
	case eventPast:
		q = q.Where("status = ?", eventPast)
	}

	var events []types.Event
	if err := q.Find(&events).Error; err != nil {
		log.Printf("Failed to list events: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (e Events) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := req.date()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventDate must be YYYY-MM-DD"})
		return
	}

	event := types.Event{
		ID:        uuid.NewString(),
		Name:      req.Name,
		EventDate: date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Venue:     req.Venue,
		Summary:   req.Summary,
		Content:   req.Content,
		Status:    eventStatus(date, time.Now()),
	}
	if err := e.db.Create(&event).Error; err != nil {
		log.Printf("Failed to create event %q: %v", req.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	e.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusCreated, event)
}

func (e Events) Update(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := req.date()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventDate must be YYYY-MM-DD"})
		return
	}

	var event types.Event
	if err := e.db.First(&event, "id = ?", c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
			return
		}
		log.Printf("Failed to load event %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"event_date": date,
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
		"venue":      req.Venue,
		"summary":    req.Summary,
		"content":    req.Content,
		"status":     eventStatus(date, time.Now()),
	}
	if err := e.db.Model(&types.Event{}).Where("id = ?", event.ID).Updates(updates).Error; err != nil {
		log.Printf("Failed to update event %s: %v", event.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	e.cache.Invalidate(c, cacheKeyDashboard)
	e.db.First(&event, "id = ?", event.ID)
	c.JSON(http.StatusOK, event)
}

func (e Events) Delete(c *gin.Context) {
	res := e.db.Delete(&types.Event{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		log.Printf("Failed to delete event %s: %v", c.Param("id"), res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	e.cache.Invalidate(c, cacheKeyDashboard)
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
