package voice

import (
	"context"
	"net/http"
	"time"

	mid "AstralLink/middleware"
	midsec "AstralLink/middleware/security"
	usersvc "AstralLink/module/user/service"
	voicemodel "AstralLink/module/voice/model"
	"AstralLink/tools/errs"
	"AstralLink/tools/ids"

	"github.com/gin-gonic/gin"
)

// Store is what the handlers need from persistence.
type Store interface {
	Find(ctx context.Context, channelID, userID string) (*voicemodel.VoiceParticipant, error)
	Insert(ctx context.Context, p voicemodel.VoiceParticipant) error
	Delete(ctx context.Context, channelID, userID string) error
	ListByChannel(ctx context.Context, channelID string) ([]voicemodel.VoiceParticipant, error)
	SetMuted(ctx context.Context, channelID, userID string, muted bool) error
	SetVideo(ctx context.Context, channelID, userID string, enabled bool) error
}

type Handler struct {
	Store Store
	Users usersvc.UserStore
}

func NewHandler(st Store, users usersvc.UserStore) *Handler {
	return &Handler{Store: st, Users: users}
}

// HandlerJoin puts the caller into the voice channel; rejoining returns the
// existing row instead of a duplicate.
func (h *Handler) HandlerJoin(c *gin.Context) {
	u := midsec.CurrentUser(c)
	ctx := c.Request.Context()
	channelID := c.Param("channel_id")

	existing, err := h.Store.Find(ctx, channelID, u.ID)
	if err != nil {
		mid.Fail(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusOK, existing)
		return
	}

	p := voicemodel.VoiceParticipant{
		ID:        ids.UUID(),
		ChannelID: channelID,
		UserID:    u.ID,
		JoinedAt:  time.Now().UTC(),
	}
	if err := h.Store.Insert(ctx, p); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) HandlerLeave(c *gin.Context) {
	u := midsec.CurrentUser(c)
	if err := h.Store.Delete(c.Request.Context(), c.Param("channel_id"), u.ID); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandlerListParticipants answers each participant row together with the user
// record behind it; rows whose user vanished are skipped.
func (h *Handler) HandlerListParticipants(c *gin.Context) {
	ctx := c.Request.Context()
	participants, err := h.Store.ListByChannel(ctx, c.Param("channel_id"))
	if err != nil {
		mid.Fail(c, err)
		return
	}

	result := make([]gin.H, 0, len(participants))
	for _, p := range participants {
		usr, err := h.Users.FindByID(ctx, p.UserID)
		if err != nil {
			mid.Fail(c, err)
			return
		}
		if usr == nil {
			continue
		}
		result = append(result, gin.H{
			"id":               p.ID,
			"channel_id":       p.ChannelID,
			"user_id":          p.UserID,
			"is_muted":         p.IsMuted,
			"is_video_enabled": p.IsVideoEnabled,
			"joined_at":        p.JoinedAt,
			"user":             usr,
		})
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) HandlerToggleMute(c *gin.Context) {
	u := midsec.CurrentUser(c)
	muted, ok := parseBoolQuery(c, "is_muted")
	if !ok {
		return
	}
	if err := h.Store.SetMuted(c.Request.Context(), c.Param("channel_id"), u.ID, muted); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) HandlerToggleVideo(c *gin.Context) {
	u := midsec.CurrentUser(c)
	enabled, ok := parseBoolQuery(c, "is_video_enabled")
	if !ok {
		return
	}
	if err := h.Store.SetVideo(c.Request.Context(), c.Param("channel_id"), u.ID, enabled); err != nil {
		mid.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func parseBoolQuery(c *gin.Context, key string) (bool, bool) {
	switch c.Query(key) {
	case "true":
		return true, true
	case "false":
		return false, true
	default:
		mid.Fail(c, errs.ErrArgs.WithDetail(key+" must be true or false"))
		return false, false
	}
}
