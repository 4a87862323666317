package space

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"AstralLink/logger"
	mid "AstralLink/middleware"
	midsec "AstralLink/middleware/security"
	spacemodel "AstralLink/module/space/model"
	usermodel "AstralLink/module/user/model"
	usersvc "AstralLink/module/user/service"
	"AstralLink/tools/errs"
	"AstralLink/tools/ids"

	"github.com/gin-gonic/gin"
)

// Store is what the handlers need from persistence.
type Store interface {
	InsertServer(ctx context.Context, srv spacemodel.Server) error
	FindServerByID(ctx context.Context, id string) (*spacemodel.Server, error)
	ListServersByMember(ctx context.Context, userID string) ([]spacemodel.Server, error)
	InsertChannel(ctx context.Context, ch spacemodel.Channel) error
	ListChannelsByServer(ctx context.Context, serverID string) ([]spacemodel.Channel, error)
	InsertMessage(ctx context.Context, m spacemodel.Message) error
	FindMessageByID(ctx context.Context, id string) (*spacemodel.Message, error)
	ListMessages(ctx context.Context, channelID string, limit int64) ([]spacemodel.Message, error)
	ListThreads(ctx context.Context, channelID string) ([]spacemodel.Message, error)
	SetReactions(ctx context.Context, messageID string, reactions map[string][]string) error
}

type Handler struct {
	Store    Store
	Users    usersvc.UserStore
	Presence usersvc.PresenceMirror
}

func NewHandler(st Store, users usersvc.UserStore, presence usersvc.PresenceMirror) *Handler {
	return &Handler{Store: st, Users: users, Presence: presence}
}

type CreateServerRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateChannelRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type AddReactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// requireMember loads a server and checks membership. Absent or non-member
// both answer Forbidden, matching the channel/task/note routes; only the
// server detail route distinguishes NotFound.
func (h *Handler) requireMember(ctx context.Context, serverID, userID string) (*spacemodel.Server, error) {
	srv, err := h.Store.FindServerByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if srv == nil || !srv.HasMember(userID) {
		return nil, errs.ErrForbidden
	}
	return srv, nil
}

// HandlerCreateServer creates a server owned by the caller, with the two
// default channels every new server starts with.
func (h *Handler) HandlerCreateServer(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req CreateServerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	now := time.Now().UTC()

	srv := spacemodel.Server{
		ID:        ids.UUID(),
		Name:      req.Name,
		CreatedBy: u.ID,
		Members:   []string{u.ID},
		CreatedAt: now,
	}
	if err := h.Store.InsertServer(ctx, srv); err != nil {
		mid.Fail(c, err)
		return
	}

	defaults := []spacemodel.Channel{
		{ID: ids.UUID(), ServerID: srv.ID, Name: "general", Type: spacemodel.ChannelText, CreatedAt: now},
		{ID: ids.UUID(), ServerID: srv.ID, Name: "voice-lounge", Type: spacemodel.ChannelVoice, CreatedAt: now},
	}
	for _, ch := range defaults {
		if err := h.Store.InsertChannel(ctx, ch); err != nil {
			mid.Fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, srv)
}

func (h *Handler) HandlerListServers(c *gin.Context) {
	u := midsec.CurrentUser(c)
	servers, err := h.Store.ListServersByMember(c.Request.Context(), u.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, servers)
}

func (h *Handler) HandlerGetServer(c *gin.Context) {
	u := midsec.CurrentUser(c)
	srv, err := h.Store.FindServerByID(c.Request.Context(), c.Param("server_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if srv == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("server not found"))
		return
	}
	if !srv.HasMember(u.ID) {
		mid.Fail(c, errs.ErrForbidden.WithDetail("not a member of this server"))
		return
	}
	c.JSON(http.StatusOK, srv)
}

func (h *Handler) HandlerCreateChannel(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req CreateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()
	if _, err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}

	ch := spacemodel.Channel{
		ID:        ids.UUID(),
		ServerID:  c.Param("server_id"),
		Name:      req.Name,
		Type:      req.Type,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.Store.InsertChannel(ctx, ch); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) HandlerListChannels(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	if _, err := h.requireMember(ctx, c.Param("server_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	channels, err := h.Store.ListChannelsByServer(ctx, c.Param("server_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, channels)
}

func (h *Handler) HandlerListMessages(c *gin.Context) {
	limit := int64(50)
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}
	messages, err := h.Store.ListMessages(c.Request.Context(), c.Param("channel_id"), limit)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *Handler) HandlerListThreads(c *gin.Context) {
	messages, err := h.Store.ListThreads(c.Request.Context(), c.Param("channel_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// HandlerSendMessage persists a message; parent_id threads it, is_starred
// stars it. Live fan-out happens over the channel socket, not here.
func (h *Handler) HandlerSendMessage(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}

	var parentID *string
	if v := c.Query("parent_id"); v != "" {
		parentID = &v
	}
	starred := c.Query("is_starred") == "true"

	m := spacemodel.Message{
		ID:        ids.UUID(),
		ChannelID: c.Param("channel_id"),
		UserID:    u.ID,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
		Reactions: map[string][]string{},
		ParentID:  parentID,
		Starred:   starred,
	}
	if err := h.Store.InsertMessage(c.Request.Context(), m); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// HandlerAddReaction adds the caller under an emoji; already-reacted is a
// no-op.
func (h *Handler) HandlerAddReaction(c *gin.Context) {
	u := midsec.CurrentUser(c)
	var req AddReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		mid.Fail(c, errs.ErrArgs.WithDetail(err.Error()))
		return
	}
	ctx := c.Request.Context()

	m, err := h.Store.FindMessageByID(ctx, c.Param("message_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if m == nil {
		mid.Fail(c, errs.ErrNotFound.WithDetail("message not found"))
		return
	}

	reactions := m.Reactions
	if reactions == nil {
		reactions = map[string][]string{}
	}
	already := false
	for _, id := range reactions[req.Emoji] {
		if id == u.ID {
			already = true
			break
		}
	}
	if !already {
		reactions[req.Emoji] = append(reactions[req.Emoji], u.ID)
	}

	if err := h.Store.SetReactions(ctx, m.ID, reactions); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) HandlerListMembers(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	srv, err := h.requireMember(ctx, c.Param("server_id"), u.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	members, err := h.Users.FindByIDs(ctx, srv.Members)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// HandlerUpdateStatus sets the caller's presence status (online/offline/idle)
// and mirrors it into the cache.
func (h *Handler) HandlerUpdateStatus(c *gin.Context) {
	u := midsec.CurrentUser(c)
	status := c.Query("status")
	switch status {
	case usermodel.StatusOnline, usermodel.StatusOffline, usermodel.StatusIdle:
	default:
		mid.Fail(c, errs.ErrArgs.WithDetail("unknown status"))
		return
	}
	ctx := c.Request.Context()
	if err := h.Users.UpdateStatus(ctx, u.ID, status); err != nil {
		mid.Fail(c, err)
		return
	}
	if h.Presence != nil {
		if err := h.Presence.Set(ctx, u.ID, status); err != nil {
			logger.Warnf("[presence] mirror user=%s err=%v", u.ID, err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
