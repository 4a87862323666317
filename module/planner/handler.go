package planner

import (
	"context"
	"net/http"
	"time"

	mid "AstralLink/middleware"
	midsec "AstralLink/middleware/security"
	plannermodel "AstralLink/module/planner/model"
	spacemodel "AstralLink/module/space/model"
	"AstralLink/tools/errs"
	"AstralLink/tools/ids"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

// Store is what the handlers need from persistence.
type Store interface {
	InsertEvent(ctx context.Context, e plannermodel.CalendarEvent) error
	FindEvent(ctx context.Context, serverID, eventID string) (*plannermodel.CalendarEvent, error)
	ListEvents(ctx context.Context, serverID string, from, to *time.Time) ([]plannermodel.CalendarEvent, error)
	UpdateEvent(ctx context.Context, eventID string, set bson.M) error
	DeleteEvent(ctx context.Context, eventID string) error

	InsertTask(ctx context.Context, t plannermodel.Task) error
	FindTask(ctx context.Context, serverID, taskID string) (*plannermodel.Task, error)
	ListTasks(ctx context.Context, serverID string, completed *bool) ([]plannermodel.Task, error)
	UpdateTask(ctx context.Context, taskID string, set bson.M) error
	DeleteTask(ctx context.Context, taskID string) error

	InsertNote(ctx context.Context, n plannermodel.Note) error
	FindNote(ctx context.Context, serverID, noteID string) (*plannermodel.Note, error)
	ListNotes(ctx context.Context, serverID string) ([]plannermodel.Note, error)
	UpdateNote(ctx context.Context, noteID string, set bson.M) error
	DeleteNote(ctx context.Context, noteID string) error
}

// ServerLookup resolves servers for the membership gate; the space store
// satisfies it.
type ServerLookup interface {
	FindServerByID(ctx context.Context, id string) (*spacemodel.Server, error)
}

type Handler struct {
	Store   Store
	Servers ServerLookup
}

func NewHandler(st Store, servers ServerLookup) *Handler {
	return &Handler{Store: st, Servers: servers}
}

func (h *Handler) requireMember(ctx context.Context, serverID, userID string) error {
	srv, err := h.Servers.FindServerByID(ctx, serverID)
	if err != nil {
		return err
	}
	if srv == nil || !srv.HasMember(userID) {
		return errs.ErrForbidden
	}
	return nil
}

// ===== calendar events =====

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time" binding:"required"`
	EndTime     time.Time `json:"end_time" binding:"required"`
	AssignedTo  []string  `json:"assigned_to"`
	Color       string    `json:"color"`
	ChannelLink *string   `json:"channel_link"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartTime   *time.Time `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	AssignedTo  *[]string  `json:"assigned_to"`
	Color       *string    `json:"color"`
	ChannelLink *string    `json:"channel_link"`
}

func (h *Handler) HandlerCreateEvent(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	if req.Color == "" {
		req.Color = plannermodel.DefaultEventColor
	}
	if req.AssignedTo == nil {
		req.AssignedTo = []string{}
	}
	e := plannermodel.CalendarEvent{
		ID:          ids.UUID(),
		ServerID:    c.Param("server_id"),
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		AssignedTo:  req.AssignedTo,
		Color:       req.Color,
		ChannelLink: req.ChannelLink,
		CreatedBy:   u.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.Store.InsertEvent(ctx, e); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) HandlerListEvents(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	var from, to *time.Time
	if s, e := c.Query("start_date"), c.Query("end_date"); s != "" && e != "" {
		ts, err1 := time.Parse(time.RFC3339, s)
		te, err2 := time.Parse(time.RFC3339, e)
		if err1 != nil || err2 != nil {
			mid.Fail(c, errs.ErrArgs.WithDetail("bad date range"))
			return
		}
		from, to = &ts, &te
	}

	events, err := h.Store.ListEvents(ctx, c.Param("server_id"), from, to)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) HandlerGetEvent(c *gin.Context) {
	e, err := h.Store.FindEvent(c.Request.Context(), c.Param("server_id"), c.Param("event_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if e == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("event not found"))
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *Handler) HandlerUpdateEvent(c *gin.Context) {
	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()

	e, err := h.Store.FindEvent(ctx, c.Param("server_id"), c.Param("event_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if e == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("event not found"))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.StartTime != nil {
		set["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		set["end_time"] = *req.EndTime
	}
	if req.AssignedTo != nil {
		set["assigned_to"] = *req.AssignedTo
	}
	if req.Color != nil {
		set["color"] = *req.Color
	}
	if req.ChannelLink != nil {
		set["channel_link"] = *req.ChannelLink
	}
	if err := h.Store.UpdateEvent(ctx, e.ID, set); err != nil {
		mid.Fail(c, err)
		return
	}

	updated, err := h.Store.FindEvent(ctx, c.Param("server_id"), e.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) HandlerDeleteEvent(c *gin.Context) {
	ctx := c.Request.Context()
	e, err := h.Store.FindEvent(ctx, c.Param("server_id"), c.Param("event_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if e == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("event not found"))
		return
	}
	if err := h.Store.DeleteEvent(ctx, e.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===== tasks =====

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssignedTo  []string   `json:"assigned_to"`
	Deadline    *time.Time `json:"deadline"`
	Priority    string     `json:"priority"`
}

type UpdateTaskRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	AssignedTo  *[]string               `json:"assigned_to"`
	Deadline    *time.Time              `json:"deadline"`
	Completed   *bool                   `json:"completed"`
	Priority    *string                 `json:"priority"`
	SubTasks    *[]plannermodel.SubTask `json:"sub_tasks"`
	Progress    *int                    `json:"progress"`
}

func (h *Handler) HandlerCreateTask(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	if req.Priority == "" {
		req.Priority = plannermodel.PriorityMedium
	}
	if req.AssignedTo == nil {
		req.AssignedTo = []string{}
	}
	now := time.Now().UTC()
	t := plannermodel.Task{
		ID:          ids.UUID(),
		ServerID:    c.Param("server_id"),
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Deadline:    req.Deadline,
		Priority:    req.Priority,
		SubTasks:    []plannermodel.SubTask{},
		CreatedBy:   u.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Store.InsertTask(ctx, t); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) HandlerListTasks(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	var completed *bool
	switch c.Query("completed") {
	case "true":
		v := true
		completed = &v
	case "false":
		v := false
		completed = &v
	}

	tasks, err := h.Store.ListTasks(ctx, c.Param("server_id"), completed)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) HandlerGetTask(c *gin.Context) {
	t, err := h.Store.FindTask(c.Request.Context(), c.Param("server_id"), c.Param("task_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if t == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("task not found"))
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) HandlerUpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()

	t, err := h.Store.FindTask(ctx, c.Param("server_id"), c.Param("task_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if t == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("task not found"))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.AssignedTo != nil {
		set["assigned_to"] = *req.AssignedTo
	}
	if req.Deadline != nil {
		set["deadline"] = *req.Deadline
	}
	if req.Completed != nil {
		set["completed"] = *req.Completed
	}
	if req.Priority != nil {
		set["priority"] = *req.Priority
	}
	if req.SubTasks != nil {
		set["sub_tasks"] = *req.SubTasks
	}
	if req.Progress != nil {
		set["progress"] = *req.Progress
	}
	if len(set) > 0 {
		set["updated_at"] = time.Now().UTC()
	}
	if err := h.Store.UpdateTask(ctx, t.ID, set); err != nil {
		mid.Fail(c, err)
		return
	}

	updated, err := h.Store.FindTask(ctx, c.Param("server_id"), t.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) HandlerDeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	t, err := h.Store.FindTask(ctx, c.Param("server_id"), c.Param("task_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if t == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("task not found"))
		return
	}
	if err := h.Store.DeleteTask(ctx, t.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ===== notes =====

type CreateNoteRequest struct {
	Title         string `json:"title" binding:"required"`
	Content       string `json:"content"`
	Collaborative *bool  `json:"collaborative"`
}

type UpdateNoteRequest struct {
	Title         *string `json:"title"`
	Content       *string `json:"content"`
	Collaborative *bool   `json:"collaborative"`
}

func (h *Handler) HandlerCreateNote(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	collaborative := true
	if req.Collaborative != nil {
		collaborative = *req.Collaborative
	}
	now := time.Now().UTC()
	n := plannermodel.Note{
		ID:            ids.UUID(),
		ServerID:      c.Param("server_id"),
		Title:         req.Title,
		Content:       req.Content,
		Collaborative: collaborative,
		CreatedBy:     u.ID,
		UpdatedBy:     u.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.InsertNote(ctx, n); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) HandlerListNotes(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	if err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	notes, err := h.Store.ListNotes(ctx, c.Param("server_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (h *Handler) HandlerGetNote(c *gin.Context) {
	n, err := h.Store.FindNote(c.Request.Context(), c.Param("server_id"), c.Param("note_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if n == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("note not found"))
		return
	}
	c.JSON(http.StatusOK, n)
}

func (h *Handler) HandlerUpdateNote(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()

	n, err := h.Store.FindNote(ctx, c.Param("server_id"), c.Param("note_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if n == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("note not found"))
		return
	}

	set := bson.M{}
	if req.Title != nil {
		set["title"] = *req.Title
	}
	if req.Content != nil {
		set["content"] = *req.Content
	}
	if req.Collaborative != nil {
		set["collaborative"] = *req.Collaborative
	}
	if len(set) > 0 {
		set["updated_by"] = u.ID
		set["updated_at"] = time.Now().UTC()
	}
	if err := h.Store.UpdateNote(ctx, n.ID, set); err != nil {
		mid.Fail(c, err)
		return
	}

	updated, err := h.Store.FindNote(ctx, c.Param("server_id"), n.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) HandlerDeleteNote(c *gin.Context) {
	ctx := c.Request.Context()
	n, err := h.Store.FindNote(ctx, c.Param("server_id"), c.Param("note_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if n == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("note not found"))
		return
	}
	if err := h.Store.DeleteNote(ctx, n.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
