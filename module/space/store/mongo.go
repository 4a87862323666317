package store

import (
	"context"

	database "AstralLink/data/database"
	"AstralLink/data/database/mongoutil"
	spacemodel "AstralLink/module/space/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCap = 1000

type MongoStore struct {
	servers  *mongo.Collection
	channels *mongo.Collection
	messages *mongo.Collection
}

func NewMongoStore(cli *mongoutil.Client) *MongoStore {
	return &MongoStore{
		servers:  cli.Collection(database.TableServers),
		channels: cli.Collection(database.TableChannels),
		messages: cli.Collection(database.TableMessages),
	}
}

// ===== servers =====

func (s *MongoStore) InsertServer(ctx context.Context, srv spacemodel.Server) error {
	_, err := s.servers.InsertOne(ctx, srv)
	return errors.Wrap(err, "insert server")
}

func (s *MongoStore) FindServerByID(ctx context.Context, id string) (*spacemodel.Server, error) {
	var srv spacemodel.Server
	err := s.servers.FindOne(ctx, bson.M{"id": id}).Decode(&srv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find server")
	}
	return &srv, nil
}

func (s *MongoStore) ListServersByMember(ctx context.Context, userID string) ([]spacemodel.Server, error) {
	cur, err := s.servers.Find(ctx, bson.M{"members": userID}, options.Find().SetLimit(listCap))
	if err != nil {
		return nil, errors.Wrap(err, "list servers")
	}
	out := []spacemodel.Server{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode servers")
	}
	return out, nil
}

// ===== channels =====

func (s *MongoStore) InsertChannel(ctx context.Context, ch spacemodel.Channel) error {
	_, err := s.channels.InsertOne(ctx, ch)
	return errors.Wrap(err, "insert channel")
}

func (s *MongoStore) ListChannelsByServer(ctx context.Context, serverID string) ([]spacemodel.Channel, error) {
	cur, err := s.channels.Find(ctx, bson.M{"server_id": serverID}, options.Find().SetLimit(listCap))
	if err != nil {
		return nil, errors.Wrap(err, "list channels")
	}
	out := []spacemodel.Channel{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode channels")
	}
	return out, nil
}

// ===== messages =====

func (s *MongoStore) InsertMessage(ctx context.Context, m spacemodel.Message) error {
	_, err := s.messages.InsertOne(ctx, m)
	return errors.Wrap(err, "insert message")
}

func (s *MongoStore) FindMessageByID(ctx context.Context, id string) (*spacemodel.Message, error) {
	var m spacemodel.Message
	err := s.messages.FindOne(ctx, bson.M{"id": id}).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find message")
	}
	return &m, nil
}

// ListMessages returns the newest `limit` messages of a channel in
// chronological order.
func (s *MongoStore) ListMessages(ctx context.Context, channelID string, limit int64) ([]spacemodel.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := s.messages.Find(ctx, bson.M{"channel_id": channelID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list messages")
	}
	out := []spacemodel.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode messages")
	}
	// newest-first from mongo, flip to chronological
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// ListThreads returns all messages of a channel; the client builds the tree.
func (s *MongoStore) ListThreads(ctx context.Context, channelID string) ([]spacemodel.Message, error) {
	cur, err := s.messages.Find(ctx, bson.M{"channel_id": channelID}, options.Find().SetLimit(listCap))
	if err != nil {
		return nil, errors.Wrap(err, "list threads")
	}
	out := []spacemodel.Message{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode threads")
	}
	return out, nil
}

func (s *MongoStore) SetReactions(ctx context.Context, messageID string, reactions map[string][]string) error {
	_, err := s.messages.UpdateOne(ctx, bson.M{"id": messageID}, bson.M{"$set": bson.M{"reactions": reactions}})
	return errors.Wrap(err, "set reactions")
}
