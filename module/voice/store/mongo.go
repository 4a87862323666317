package store

import (
	"context"

	database "AstralLink/data/database"
	"AstralLink/data/database/mongoutil"
	voicemodel "AstralLink/module/voice/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(cli *mongoutil.Client) *MongoStore {
	return &MongoStore{coll: cli.Collection(database.TableVoiceParticipants)}
}

func (s *MongoStore) Find(ctx context.Context, channelID, userID string) (*voicemodel.VoiceParticipant, error) {
	var p voicemodel.VoiceParticipant
	err := s.coll.FindOne(ctx, bson.M{"channel_id": channelID, "user_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find participant")
	}
	return &p, nil
}

func (s *MongoStore) Insert(ctx context.Context, p voicemodel.VoiceParticipant) error {
	_, err := s.coll.InsertOne(ctx, p)
	return errors.Wrap(err, "insert participant")
}

func (s *MongoStore) Delete(ctx context.Context, channelID, userID string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"channel_id": channelID, "user_id": userID})
	return errors.Wrap(err, "delete participant")
}

func (s *MongoStore) ListByChannel(ctx context.Context, channelID string) ([]voicemodel.VoiceParticipant, error) {
	cur, err := s.coll.Find(ctx, bson.M{"channel_id": channelID}, options.Find().SetLimit(1000))
	if err != nil {
		return nil, errors.Wrap(err, "list participants")
	}
	out := []voicemodel.VoiceParticipant{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode participants")
	}
	return out, nil
}

func (s *MongoStore) SetMuted(ctx context.Context, channelID, userID string, muted bool) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"channel_id": channelID, "user_id": userID},
		bson.M{"$set": bson.M{"is_muted": muted}})
	return errors.Wrap(err, "set muted")
}

func (s *MongoStore) SetVideo(ctx context.Context, channelID, userID string, enabled bool) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"channel_id": channelID, "user_id": userID},
		bson.M{"$set": bson.M{"is_video_enabled": enabled}})
	return errors.Wrap(err, "set video")
}
