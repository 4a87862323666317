package store

import (
	"context"
	"time"

	database "AstralLink/data/database"
	"AstralLink/data/database/mongoutil"
	plannermodel "AstralLink/module/planner/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const listCap = 1000

type MongoStore struct {
	events *mongo.Collection
	tasks  *mongo.Collection
	notes  *mongo.Collection
}

func NewMongoStore(cli *mongoutil.Client) *MongoStore {
	return &MongoStore{
		events: cli.Collection(database.TableCalendarEvents),
		tasks:  cli.Collection(database.TableTasks),
		notes:  cli.Collection(database.TableNotes),
	}
}

// ===== events =====

func (s *MongoStore) InsertEvent(ctx context.Context, e plannermodel.CalendarEvent) error {
	_, err := s.events.InsertOne(ctx, e)
	return errors.Wrap(err, "insert event")
}

func (s *MongoStore) FindEvent(ctx context.Context, serverID, eventID string) (*plannermodel.CalendarEvent, error) {
	var e plannermodel.CalendarEvent
	err := s.events.FindOne(ctx, bson.M{"id": eventID, "server_id": serverID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find event")
	}
	return &e, nil
}

// ListEvents returns a server's events sorted by start time; the optional
// range filters on start_time.
func (s *MongoStore) ListEvents(ctx context.Context, serverID string, from, to *time.Time) ([]plannermodel.CalendarEvent, error) {
	filter := bson.M{"server_id": serverID}
	if from != nil && to != nil {
		filter["start_time"] = bson.M{"$gte": *from, "$lte": *to}
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}}).SetLimit(listCap)
	cur, err := s.events.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	out := []plannermodel.CalendarEvent{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode events")
	}
	return out, nil
}

func (s *MongoStore) UpdateEvent(ctx context.Context, eventID string, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := s.events.UpdateOne(ctx, bson.M{"id": eventID}, bson.M{"$set": set})
	return errors.Wrap(err, "update event")
}

func (s *MongoStore) DeleteEvent(ctx context.Context, eventID string) error {
	_, err := s.events.DeleteOne(ctx, bson.M{"id": eventID})
	return errors.Wrap(err, "delete event")
}

// ===== tasks =====

func (s *MongoStore) InsertTask(ctx context.Context, t plannermodel.Task) error {
	_, err := s.tasks.InsertOne(ctx, t)
	return errors.Wrap(err, "insert task")
}

func (s *MongoStore) FindTask(ctx context.Context, serverID, taskID string) (*plannermodel.Task, error) {
	var t plannermodel.Task
	err := s.tasks.FindOne(ctx, bson.M{"id": taskID, "server_id": serverID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find task")
	}
	return &t, nil
}

// ListTasks returns a server's tasks newest first; completed filters when
// non-nil.
func (s *MongoStore) ListTasks(ctx context.Context, serverID string, completed *bool) ([]plannermodel.Task, error) {
	filter := bson.M{"server_id": serverID}
	if completed != nil {
		filter["completed"] = *completed
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(listCap)
	cur, err := s.tasks.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list tasks")
	}
	out := []plannermodel.Task{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode tasks")
	}
	return out, nil
}

func (s *MongoStore) UpdateTask(ctx context.Context, taskID string, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := s.tasks.UpdateOne(ctx, bson.M{"id": taskID}, bson.M{"$set": set})
	return errors.Wrap(err, "update task")
}

func (s *MongoStore) DeleteTask(ctx context.Context, taskID string) error {
	_, err := s.tasks.DeleteOne(ctx, bson.M{"id": taskID})
	return errors.Wrap(err, "delete task")
}

// ===== notes =====

func (s *MongoStore) InsertNote(ctx context.Context, n plannermodel.Note) error {
	_, err := s.notes.InsertOne(ctx, n)
	return errors.Wrap(err, "insert note")
}

func (s *MongoStore) FindNote(ctx context.Context, serverID, noteID string) (*plannermodel.Note, error) {
	var n plannermodel.Note
	err := s.notes.FindOne(ctx, bson.M{"id": noteID, "server_id": serverID}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "find note")
	}
	return &n, nil
}

// ListNotes returns a server's notes, most recently updated first.
func (s *MongoStore) ListNotes(ctx context.Context, serverID string) ([]plannermodel.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}).SetLimit(listCap)
	cur, err := s.notes.Find(ctx, bson.M{"server_id": serverID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "list notes")
	}
	out := []plannermodel.Note{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode notes")
	}
	return out, nil
}

func (s *MongoStore) UpdateNote(ctx context.Context, noteID string, set bson.M) error {
	if len(set) == 0 {
		return nil
	}
	_, err := s.notes.UpdateOne(ctx, bson.M{"id": noteID}, bson.M{"$set": set})
	return errors.Wrap(err, "update note")
}

func (s *MongoStore) DeleteNote(ctx context.Context, noteID string) error {
	_, err := s.notes.DeleteOne(ctx, bson.M{"id": noteID})
	return errors.Wrap(err, "delete note")
}
