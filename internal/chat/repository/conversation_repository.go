package repository

import (
	"context"

	"realtime_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ConversationRepository definition two-party conversation storage
type ConversationRepository interface {
	Create(ctx context.Context, conv *domain.Conversation) error
	FindByID(ctx context.Context, convID string) (*domain.Conversation, error)
	// FindByParticipants look up the conversation holding both users
	FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// FindByParticipant list every conversation the user belongs to
	FindByParticipant(ctx context.Context, userID string) ([]*domain.Conversation, error)
	// UpdateLastMessage refresh the denormalized preview fields
	UpdateLastMessage(ctx context.Context, convID, preview string, timestamp int64, senderID string) error
}

type mongoConversationRepository struct {
	conversationsColl *mongo.Collection
}

// NewMongoConversationRepository create new mongo conversation repository
func NewMongoConversationRepository(db *mongo.Database) ConversationRepository {
	return &mongoConversationRepository{
		conversationsColl: db.Collection("conversations"),
	}
}

// Create create conversation
func (r *mongoConversationRepository) Create(ctx context.Context, conv *domain.Conversation) error {
	_, err := r.conversationsColl.InsertOne(ctx, conv)
	return err
}

// FindByID find conversation by id
func (r *mongoConversationRepository) FindByID(ctx context.Context, convID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.conversationsColl.FindOne(ctx, bson.M{"_id": convID}).Decode(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipants find the conversation containing both users
func (r *mongoConversationRepository) FindByParticipants(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	filter := bson.M{
		"participants": bson.M{
			"$all": []string{userA, userB},
		},
	}
	var conv domain.Conversation
	err := r.conversationsColl.FindOne(ctx, filter).Decode(&conv)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByParticipant list conversations the user participates in
func (r *mongoConversationRepository) FindByParticipant(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	filter := bson.M{"participants": userID}

	cur, err := r.conversationsColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var conversations []*domain.Conversation
	for cur.Next(ctx) {
		var conv domain.Conversation
		if err := cur.Decode(&conv); err != nil {
			return nil, err
		}
		conversations = append(conversations, &conv)
	}

	if err := cur.Err(); err != nil {
		return nil, err
	}

	return conversations, nil
}

// UpdateLastMessage refresh last_message cache fields, last writer wins
func (r *mongoConversationRepository) UpdateLastMessage(ctx context.Context, convID, preview string, timestamp int64, senderID string) error {
	filter := bson.M{"_id": convID}
	update := bson.M{"$set": bson.M{
		"last_message":           preview,
		"last_message_time":      timestamp,
		"last_message_sender_id": senderID,
	}}
	_, err := r.conversationsColl.UpdateOne(ctx, filter, update)
	return err
}
