package space

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	midsec "AstralLink/middleware/security"
	spacemodel "AstralLink/module/space/model"
	usermodel "AstralLink/module/user/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	servers  map[string]spacemodel.Server
	channels []spacemodel.Channel
	messages map[string]spacemodel.Message
}

func newMemStore() *memStore {
	return &memStore{
		servers:  map[string]spacemodel.Server{},
		messages: map[string]spacemodel.Message{},
	}
}

func (s *memStore) InsertServer(_ context.Context, srv spacemodel.Server) error {
	s.servers[srv.ID] = srv
	return nil
}

func (s *memStore) FindServerByID(_ context.Context, id string) (*spacemodel.Server, error) {
	srv, ok := s.servers[id]
	if !ok {
		return nil, nil
	}
	return &srv, nil
}

func (s *memStore) ListServersByMember(_ context.Context, userID string) ([]spacemodel.Server, error) {
	out := []spacemodel.Server{}
	for _, srv := range s.servers {
		if srv.HasMember(userID) {
			out = append(out, srv)
		}
	}
	return out, nil
}

func (s *memStore) InsertChannel(_ context.Context, ch spacemodel.Channel) error {
	s.channels = append(s.channels, ch)
	return nil
}

func (s *memStore) ListChannelsByServer(_ context.Context, serverID string) ([]spacemodel.Channel, error) {
	out := []spacemodel.Channel{}
	for _, ch := range s.channels {
		if ch.ServerID == serverID {
			out = append(out, ch)
		}
	}
	return out, nil
}

func (s *memStore) InsertMessage(_ context.Context, m spacemodel.Message) error {
	s.messages[m.ID] = m
	return nil
}

func (s *memStore) FindMessageByID(_ context.Context, id string) (*spacemodel.Message, error) {
	m, ok := s.messages[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *memStore) ListMessages(_ context.Context, channelID string, _ int64) ([]spacemodel.Message, error) {
	out := []spacemodel.Message{}
	for _, m := range s.messages {
		if m.ChannelID == channelID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *memStore) ListThreads(ctx context.Context, channelID string) ([]spacemodel.Message, error) {
	return s.ListMessages(ctx, channelID, 0)
}

func (s *memStore) SetReactions(_ context.Context, messageID string, reactions map[string][]string) error {
	m := s.messages[messageID]
	m.Reactions = reactions
	s.messages[messageID] = m
	return nil
}

// asUser injects the identity the auth middleware would have resolved.
func asUser(id string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(midsec.CtxUserKey, &usermodel.User{ID: id, Email: id + "@x.io"})
	}
}

func setup(t *testing.T) (*memStore, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := newMemStore()
	h := NewHandler(st, nil, nil)

	r := gin.New()
	r.POST("/servers", asUser("alice"), h.HandlerCreateServer)
	r.GET("/servers/:server_id", asUser("mallory"), h.HandlerGetServer)
	r.GET("/servers/:server_id/channels", asUser("mallory"), h.HandlerListChannels)
	return st, r
}

func TestCreateServerSeedsDefaultChannels(t *testing.T) {
	st, r := setup(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/servers", bytes.NewBufferString(`{"name":"Orbit"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var srv spacemodel.Server
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &srv))
	assert.Equal(t, "Orbit", srv.Name)
	assert.Equal(t, []string{"alice"}, srv.Members)
	assert.Equal(t, "alice", srv.CreatedBy)

	channels, err := st.ListChannelsByServer(context.Background(), srv.ID)
	require.NoError(t, err)
	require.Len(t, channels, 2)
	assert.Equal(t, "general", channels[0].Name)
	assert.Equal(t, spacemodel.ChannelText, channels[0].Type)
	assert.Equal(t, "voice-lounge", channels[1].Name)
	assert.Equal(t, spacemodel.ChannelVoice, channels[1].Type)
}

func TestGetServerDistinguishesMissingFromForbidden(t *testing.T) {
	st, r := setup(t)
	st.servers["s1"] = spacemodel.Server{
		ID: "s1", Name: "Orbit", CreatedBy: "alice",
		Members: []string{"alice"}, CreatedAt: time.Now().UTC(),
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/servers/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/servers/s1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestChannelRoutesRejectNonMembers(t *testing.T) {
	st, r := setup(t)
	st.servers["s1"] = spacemodel.Server{
		ID: "s1", Members: []string{"alice"},
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/servers/s1/channels", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAddReactionIsIdempotent(t *testing.T) {
	gin.SetMode(gin.TestMode)
	st := newMemStore()
	st.messages["m1"] = spacemodel.Message{ID: "m1", ChannelID: "c1", Reactions: map[string][]string{}}
	h := NewHandler(st, nil, nil)

	r := gin.New()
	r.POST("/messages/:message_id/reactions", asUser("alice"), h.HandlerAddReaction)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/messages/m1/reactions", bytes.NewBufferString(`{"emoji":"🔥"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	assert.Equal(t, []string{"alice"}, st.messages["m1"].Reactions["🔥"])
}
