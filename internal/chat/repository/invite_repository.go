package repository

import (
	"context"

	"realtime_chat_service/internal/chat/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// InviteRepository definition contact invite storage
type InviteRepository interface {
	Create(ctx context.Context, inv *domain.Invite) error
	FindByID(ctx context.Context, inviteID string) (*domain.Invite, error)
	// FindBetween newest invite between the two users in either direction
	FindBetween(ctx context.Context, userA, userB string) (*domain.Invite, error)
	// FindPendingByInvitee pending invites addressed to the user
	FindPendingByInvitee(ctx context.Context, userID string) ([]*domain.Invite, error)
	// FindAcceptedByUser accepted invites touching the user, either direction
	FindAcceptedByUser(ctx context.Context, userID string) ([]*domain.Invite, error)
	UpdateStatus(ctx context.Context, inviteID string, newStatus domain.InviteStatus) error
}

type mongoInviteRepository struct {
	invitesColl *mongo.Collection
}

// NewMongoInviteRepository create new mongo invite repository
func NewMongoInviteRepository(db *mongo.Database) InviteRepository {
	return &mongoInviteRepository{
		invitesColl: db.Collection("invites"),
	}
}

// Create create invite
func (r *mongoInviteRepository) Create(ctx context.Context, inv *domain.Invite) error {
	_, err := r.invitesColl.InsertOne(ctx, inv)
	return err
}

// FindByID find invite by id
func (r *mongoInviteRepository) FindByID(ctx context.Context, inviteID string) (*domain.Invite, error) {
	var inv domain.Invite
	err := r.invitesColl.FindOne(ctx, bson.M{"_id": inviteID}).Decode(&inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindBetween find an invite between two users regardless of direction
func (r *mongoInviteRepository) FindBetween(ctx context.Context, userA, userB string) (*domain.Invite, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"from": userA, "to": userB},
			{"from": userB, "to": userA},
		},
	}
	var inv domain.Invite
	err := r.invitesColl.FindOne(ctx, filter).Decode(&inv)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// FindPendingByInvitee pending invites waiting on the user
func (r *mongoInviteRepository) FindPendingByInvitee(ctx context.Context, userID string) ([]*domain.Invite, error) {
	filter := bson.M{
		"to":     userID,
		"status": domain.InvitePending,
	}
	return r.find(ctx, filter)
}

// FindAcceptedByUser accepted invites in either direction
func (r *mongoInviteRepository) FindAcceptedByUser(ctx context.Context, userID string) ([]*domain.Invite, error) {
	filter := bson.M{
		"status": domain.InviteAccepted,
		"$or": []bson.M{
			{"from": userID},
			{"to": userID},
		},
	}
	return r.find(ctx, filter)
}

// UpdateStatus update invite status
func (r *mongoInviteRepository) UpdateStatus(ctx context.Context, inviteID string, newStatus domain.InviteStatus) error {
	filter := bson.M{"_id": inviteID}
	update := bson.M{"$set": bson.M{"status": newStatus}}
	_, err := r.invitesColl.UpdateOne(ctx, filter, update)
	return err
}

func (r *mongoInviteRepository) find(ctx context.Context, filter bson.M) ([]*domain.Invite, error) {
	cur, err := r.invitesColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var invites []*domain.Invite
	for cur.Next(ctx) {
		var inv domain.Invite
		if err := cur.Decode(&inv); err != nil {
			return nil, err
		}
		invites = append(invites, &inv)
	}

	if err := cur.Err(); err != nil {
		return nil, err
	}

	return invites, nil
}
