package handler

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-schedule/internal/cache"
	"github.com/iliyamo/class-schedule/internal/model"
	"github.com/iliyamo/class-schedule/internal/queue"
	"github.com/iliyamo/class-schedule/internal/repository"
	"github.com/iliyamo/class-schedule/internal/schedule"
	queue_publisher "github.com/iliyamo/class-schedule/internal/service"
)

// ScheduleHandler bundles dependencies for lesson CRUD and the grid
// endpoints.  Every operation is scoped to the authenticated owner;
// ids coming from the URL only ever address that owner's rows.
type ScheduleHandler struct {
	Lessons *repository.LessonRepo
	Cache   *cache.WeekCache
}

func NewScheduleHandler(l *repository.LessonRepo, wc *cache.WeekCache) *ScheduleHandler {
	return &ScheduleHandler{Lessons: l, Cache: wc}
}

// ----- DTOs -----

// lessonReq covers both create and patch bodies.  Pointer fields make
// "absent" distinguishable from the zero value, which matters for
// create (required-field checks) and for patch (untouched columns).
type lessonReq struct {
	Title       *string  `json:"title"`
	Day         *int     `json:"day"`
	StartHour   *float64 `json:"start_hour"`
	Duration    *float64 `json:"duration"`
	Teacher     *string  `json:"teacher"`
	Room        *string  `json:"room"`
	Description *string  `json:"description"`
	Color       *string  `json:"color"`
}

// afterMutation drops the owner's cached grid and publishes the
// change event.  Neither step may fail the request: the mutation is
// already committed.
func (h *ScheduleHandler) afterMutation(ctx context.Context, action string, l model.Lesson) {
	h.Cache.Invalidate(ctx, l.OwnerID)
	_ = queue_publisher.PublishLessonChanged(ctx, queue.LessonChangedEvent{
		Action:     action,
		LessonID:   l.ID,
		OwnerID:    l.OwnerID,
		Title:      l.Title,
		Day:        l.Day,
		StartHour:  l.StartHour,
		Duration:   l.Duration,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// ListLessons returns the owner's lessons in stable creation order.
func (h *ScheduleHandler) ListLessons(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lessons, err := h.Lessons.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list lessons failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"lessons": lessons})
}

// CreateLesson validates and stores a new lesson for the owner.
func (h *ScheduleHandler) CreateLesson(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == nil || req.Day == nil || req.StartHour == nil || req.Duration == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, day, start_hour and duration are required"})
	}
	if err := schedule.ValidateNew(*req.Title, *req.Day, *req.StartHour, *req.Duration); err != nil {
		ve := err.(*schedule.ValidationError)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": ve.Error(), "field": ve.Field})
	}

	l := model.Lesson{
		OwnerID:   uid, // always the authenticated identity, never client input
		Title:     *req.Title,
		Day:       *req.Day,
		StartHour: *req.StartHour,
		Duration:  *req.Duration,
	}
	if req.Teacher != nil {
		l.Teacher = *req.Teacher
	}
	if req.Room != nil {
		l.Room = *req.Room
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Color != nil {
		l.Color = schedule.NormalizeColor(*req.Color)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lessons.Create(ctx, &l); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create lesson failed"})
	}
	h.afterMutation(ctx, "created", l)

	return c.JSON(http.StatusCreated, l)
}

// UpdateLesson applies a partial patch to one of the owner's lessons.
// Only the fields present in the body change; each provided field is
// validated with the same rules as create.
func (h *ScheduleHandler) UpdateLesson(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
	}

	var req lessonReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title != nil {
		if err := schedule.ValidateTitle(*req.Title); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if req.Day != nil {
		if err := schedule.ValidateDay(*req.Day); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if req.StartHour != nil {
		if err := schedule.ValidateStartHour(*req.StartHour); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if req.Duration != nil {
		if err := schedule.ValidateDuration(*req.Duration); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}
	if req.Color != nil {
		normalized := schedule.NormalizeColor(*req.Color)
		req.Color = &normalized
	}

	patch := repository.LessonPatch{
		Title:       req.Title,
		Day:         req.Day,
		StartHour:   req.StartHour,
		Duration:    req.Duration,
		Teacher:     req.Teacher,
		Room:        req.Room,
		Description: req.Description,
		Color:       req.Color,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Lessons.Update(ctx, id, uid, patch); err != nil {
		if err == repository.ErrLessonNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "lesson not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update lesson failed"})
	}

	l, err := h.Lessons.GetByIDAndOwner(ctx, id, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reload lesson failed"})
	}
	h.afterMutation(ctx, "updated", l)

	return c.JSON(http.StatusOK, l)
}

// DeleteLesson removes one of the owner's lessons.  Deleting an
// unknown id still answers 204: the requested end state holds either
// way.  No event is published for a no-op.
func (h *ScheduleHandler) DeleteLesson(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid lesson id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Load first so the deletion event can describe the removed row.
	l, err := h.Lessons.GetByIDAndOwner(ctx, id, uid)
	if err == repository.ErrLessonNotFound {
		return c.NoContent(http.StatusNoContent)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lesson failed"})
	}

	if err := h.Lessons.Delete(ctx, id, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete lesson failed"})
	}
	h.afterMutation(ctx, "deleted", l)

	return c.NoContent(http.StatusNoContent)
}

// Week serves the owner's fully rendered 7×26 grid.  The serialized
// grid is cached per owner and invalidated on every mutation, so a
// hit skips both the database and the projection.
func (h *ScheduleHandler) Week(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if payload, ok := h.Cache.Get(ctx, uid); ok {
		return c.JSONBlob(http.StatusOK, payload)
	}

	lessons, err := h.Lessons.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list lessons failed"})
	}
	week := schedule.BuildWeek(lessons)

	payload, err := json.Marshal(week)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render grid failed"})
	}
	h.Cache.Set(ctx, uid, payload)

	return c.JSONBlob(http.StatusOK, payload)
}

// ResolveSlot routes a click on a grid cell: ?day=&hour= comes back
// as either an edit intent carrying the occupying lesson or a create
// intent carrying the clicked coordinate.
func (h *ScheduleHandler) ResolveSlot(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	day, err := strconv.Atoi(c.QueryParam("day"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "day must be an integer"})
	}
	if err := schedule.ValidateDay(day); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	hour, err := strconv.ParseFloat(c.QueryParam("hour"), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hour must be a number"})
	}
	if hour*2 != math.Trunc(hour*2) || hour < schedule.FirstHour || hour > schedule.LastHour {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "hour must be a half-hour slot between 8.0 and 20.5"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lessons, err := h.Lessons.ListByOwner(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list lessons failed"})
	}

	return c.JSON(http.StatusOK, schedule.ResolveClick(lessons, day, hour))
}
