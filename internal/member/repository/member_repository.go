package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"realtime_chat_service/internal/member/domain"
)

// MemberRepository definition get Member info
type MemberRepository interface {
	CreateUser(ctx context.Context, member *domain.Member) error
	UpdateMemberStatus(ctx context.Context, member *domain.Member) error
	UpdateProfilePic(ctx context.Context, memberID, profilePic string) error
	FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error)
	// SearchMembers match name, email or mobile against the query
	SearchMembers(ctx context.Context, query string) ([]domain.Member, error)
}

type memberRepository struct {
	db *pgxpool.Pool
}

// NewMemberRepository create a MemberRepository
func NewMemberRepository(db *pgxpool.Pool) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) CreateUser(ctx context.Context, member *domain.Member) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO member(member_id, name, email, mobile, password) VALUES ($1, $2, $3, $4, $5)",
		member.MemberID, member.Name, member.Email, member.Mobile, member.Password)
	return err
}

func (r *memberRepository) UpdateMemberStatus(ctx context.Context, member *domain.Member) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET status = $1 WHERE member_id = $2", member.Status, member.MemberID)
	return err
}

func (r *memberRepository) UpdateProfilePic(ctx context.Context, memberID, profilePic string) error {
	_, err := r.db.Exec(ctx, "UPDATE member SET profile_pic = $1 WHERE member_id = $2", profilePic, memberID)
	return err
}

func (r *memberRepository) FindByMember(ctx context.Context, memberQuery *domain.MemberQuery) (*domain.Member, error) {
	queryStr := "SELECT id, member_id, name, email, mobile, COALESCE(profile_pic, ''), password FROM member WHERE 1=1"
	params := []interface{}{}
	paramCount := 1

	if memberQuery.Email != nil {
		queryStr += fmt.Sprintf(" AND email = $%d", paramCount)
		params = append(params, *memberQuery.Email)
		paramCount++
	}
	if memberQuery.MemberID != nil {
		queryStr += fmt.Sprintf(" AND member_id = $%d", paramCount)
		params = append(params, *memberQuery.MemberID)
		paramCount++
	}
	if memberQuery.ID != nil {
		queryStr += fmt.Sprintf(" AND id = $%d", paramCount)
		params = append(params, *memberQuery.ID)
		paramCount++
	}

	row := r.db.QueryRow(ctx, queryStr, params...)
	var member domain.Member
	err := row.Scan(&member.ID, &member.MemberID, &member.Name, &member.Email, &member.Mobile, &member.ProfilePic, &member.Password)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.New("no member found with given criteria")
		}
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) SearchMembers(ctx context.Context, query string) ([]domain.Member, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(ctx,
		`SELECT id, member_id, name, email, mobile, COALESCE(profile_pic, '')
		 FROM member
		 WHERE name ILIKE $1 OR email ILIKE $1 OR mobile ILIKE $1`,
		pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.Member
	for rows.Next() {
		var member domain.Member
		if err := rows.Scan(&member.ID, &member.MemberID, &member.Name, &member.Email, &member.Mobile, &member.ProfilePic); err != nil {
			return nil, err
		}
		members = append(members, member)
	}

	return members, rows.Err()
}
