package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"livix-api/internal/domain"
)

func newTestMatchService(limiter LikeRateLimiter) (*MatchService, *mockLikeRepo, *ChatStore) {
	profiles := newMockRoommateRepo(
		domain.RoommateProfile{UserID: "ana", Name: "Ana"},
		domain.RoommateProfile{UserID: "bruno", Name: "Bruno"},
	)
	likes := newMockLikeRepo()
	chats := NewChatStore(zap.NewNop(), nil)
	return NewMatchService(zap.NewNop(), likes, profiles, chats, limiter), likes, chats
}

func TestMatchService_MutualLikeCreatesMatchAndConversation(t *testing.T) {
	svc, likes, chats := newTestMatchService(nil)
	defer chats.Close()
	ctx := context.Background()

	res, err := svc.Like(ctx, "ana", "bruno")
	if err != nil {
		t.Fatalf("like: %v", err)
	}
	if res.Matched {
		t.Fatalf("expected no match on first like")
	}

	res, err = svc.Like(ctx, "bruno", "ana")
	if err != nil {
		t.Fatalf("like back: %v", err)
	}
	if !res.Matched || res.Match == nil {
		t.Fatalf("expected match on mutual like")
	}
	if res.Match.User1ID != "ana" || res.Match.User2ID != "bruno" {
		t.Fatalf("expected ordered pair, got %+v", res.Match)
	}
	if len(likes.matches) != 1 {
		t.Fatalf("expected one stored match, got %d", len(likes.matches))
	}
	if _, err := chats.Conversation("ana", "bruno"); err != nil {
		t.Fatalf("expected conversation to be opened: %v", err)
	}

	// Repetir el like no duplica el match.
	if _, err := svc.Like(ctx, "bruno", "ana"); err != nil {
		t.Fatalf("repeat like: %v", err)
	}
	if len(likes.matches) != 1 {
		t.Fatalf("expected match to be idempotent, got %d", len(likes.matches))
	}

	matches, err := svc.Matches(ctx, "bruno")
	if err != nil || len(matches) != 1 || matches[0].Other("bruno") != "ana" {
		t.Fatalf("unexpected matches: %+v err=%v", matches, err)
	}
}

func TestMatchService_Errors(t *testing.T) {
	svc, _, chats := newTestMatchService(NewLikeRateLimiter(time.Minute, 1))
	defer chats.Close()
	ctx := context.Background()

	if _, err := svc.Like(ctx, "ana", "ana"); !errors.Is(err, ErrSelfLike) {
		t.Fatalf("expected ErrSelfLike, got %v", err)
	}
	if _, err := svc.Like(ctx, "ana", "fantasma"); !errors.Is(err, ErrRoommateProfileNotFound) {
		t.Fatalf("expected ErrRoommateProfileNotFound, got %v", err)
	}
	if _, err := svc.Like(ctx, "ana", "bruno"); err != nil {
		t.Fatalf("first like: %v", err)
	}
	if _, err := svc.Like(ctx, "ana", "bruno"); !errors.Is(err, ErrLikeRateLimited) {
		t.Fatalf("expected ErrLikeRateLimited, got %v", err)
	}
}

func TestMatchService_Unlike(t *testing.T) {
	svc, likes, chats := newTestMatchService(nil)
	defer chats.Close()
	ctx := context.Background()

	if _, err := svc.Like(ctx, "ana", "bruno"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if err := svc.Unlike(ctx, "ana", "bruno"); err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if ok, _ := likes.Exists(ctx, "ana", "bruno"); ok {
		t.Fatalf("expected like to be removed")
	}
	matches, err := svc.Matches(ctx, "ana")
	if err != nil || matches == nil || len(matches) != 0 {
		t.Fatalf("expected empty non-nil matches, got %+v err=%v", matches, err)
	}
}
