package store

import (
	"context"
	"time"

	database "AstralLink/data/database"
	"AstralLink/data/database/mongoutil"
	usermodel "AstralLink/module/user/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoSessionStore struct {
	coll *mongo.Collection
}

func NewMongoSessionStore(cli *mongoutil.Client) *MongoSessionStore {
	return &MongoSessionStore{coll: cli.Collection(database.TableUserSessions)}
}

// FindValid matches on exact token AND expires_at strictly in the future;
// expired rows look exactly like missing ones.
func (s *MongoSessionStore) FindValid(ctx context.Context, token string) (*usermodel.UserSession, error) {
	var sess usermodel.UserSession
	err := s.coll.FindOne(ctx, bson.M{
		"session_token": token,
		"expires_at":    bson.M{"$gt": time.Now().UTC()},
	}).Decode(&sess)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find session")
	}
	return &sess, nil
}

func (s *MongoSessionStore) Insert(ctx context.Context, sess usermodel.UserSession) error {
	_, err := s.coll.InsertOne(ctx, sess)
	return errors.Wrap(err, "insert session")
}

func (s *MongoSessionStore) DeleteByToken(ctx context.Context, token string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"session_token": token})
	return errors.Wrap(err, "delete session")
}

type MongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(cli *mongoutil.Client) *MongoUserStore {
	return &MongoUserStore{coll: cli.Collection(database.TableUsers)}
}

func (s *MongoUserStore) FindByID(ctx context.Context, id string) (*usermodel.User, error) {
	return s.findOne(ctx, bson.M{"id": id})
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *MongoUserStore) findOne(ctx context.Context, filter bson.M) (*usermodel.User, error) {
	var u usermodel.User
	err := s.coll.FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find user")
	}
	return &u, nil
}

func (s *MongoUserStore) FindByIDs(ctx context.Context, ids []string) ([]usermodel.User, error) {
	cur, err := s.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(err, "find users")
	}
	var out []usermodel.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode users")
	}
	return out, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, u usermodel.User) error {
	_, err := s.coll.InsertOne(ctx, u)
	return errors.Wrap(err, "insert user")
}

func (s *MongoUserStore) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"status": status}})
	return errors.Wrap(err, "update user status")
}
