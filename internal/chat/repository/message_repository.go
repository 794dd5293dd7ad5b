package repository

import (
	"context"

	"realtime_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository definition message storage
type MessageRepository interface {
	// Insert persist a message, assigning its id
	Insert(ctx context.Context, msg *domain.ChatMessage) error
	FindByID(ctx context.Context, convID, messageID string) (*domain.ChatMessage, error)
	// FindByConversation full ordered history, timestamp ascending with
	// id as the tie break
	FindByConversation(ctx context.Context, convID string) ([]domain.ChatMessage, error)
	// MarkSeen add seen_by entries for the reader on the named messages,
	// skipping the reader's own messages and messages already seen
	MarkSeen(ctx context.Context, convID, readerID string, messageIDs []string, seenAt string) error
	// CountUnread messages from other senders lacking a seen_by entry for
	// the reader, over the whole history
	CountUnread(ctx context.Context, convID, readerID string) (int, error)
}

type mongoMessageRepository struct {
	messagesColl *mongo.Collection
}

// NewMongoMessageRepository create new mongo message repository
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &mongoMessageRepository{
		messagesColl: db.Collection("chat_messages"),
	}
}

// Insert persist one message. ObjectID hex ids are monotonic within a
// second, giving a stable tie break for equal timestamps.
func (r *mongoMessageRepository) Insert(ctx context.Context, msg *domain.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = primitive.NewObjectID().Hex()
	}
	_, err := r.messagesColl.InsertOne(ctx, msg)
	return err
}

// FindByID find one message inside a conversation
func (r *mongoMessageRepository) FindByID(ctx context.Context, convID, messageID string) (*domain.ChatMessage, error) {
	filter := bson.M{
		"_id":             messageID,
		"conversation_id": convID,
	}
	var msg domain.ChatMessage
	err := r.messagesColl.FindOne(ctx, filter).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// FindByConversation full ordered history
func (r *mongoMessageRepository) FindByConversation(ctx context.Context, convID string) ([]domain.ChatMessage, error) {
	filter := bson.M{"conversation_id": convID}
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := r.messagesColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var messages []domain.ChatMessage
	if err := cur.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkSeen per-field merge of seen_by entries. Concurrent readers write
// distinct map keys so the updates never conflict. Re-marking is a no-op
// because already-seen messages fall out of the filter.
func (r *mongoMessageRepository) MarkSeen(ctx context.Context, convID, readerID string, messageIDs []string, seenAt string) error {
	filter := bson.M{
		"_id":             bson.M{"$in": messageIDs},
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": readerID},
		"seen_by." + readerID: bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{"seen_by." + readerID: seenAt}}
	_, err := r.messagesColl.UpdateMany(ctx, filter, update)
	return err
}

// CountUnread whole-history unread count for the reader
func (r *mongoMessageRepository) CountUnread(ctx context.Context, convID, readerID string) (int, error) {
	filter := bson.M{
		"conversation_id": convID,
		"sender_id":       bson.M{"$ne": readerID},
		"seen_by." + readerID: bson.M{"$exists": false},
	}
	count, err := r.messagesColl.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	return int(count), nil
}
