package seed

import (
	"testing"
	"time"

	"socialpulse/internal/models"
)

func TestBuildPost_TimestampWithinMaxDays(t *testing.T) {
	opts := Options{DryRun: true, MaxDays: 30}
	f := NewFactory(nil, opts)
	user := &models.User{ID: 1}

	p := f.BuildPost(user)
	if p.Content == "" {
		t.Fatalf("expected generated content")
	}
	if p.UserID != 1 {
		t.Fatalf("expected author 1, got %d", p.UserID)
	}
	if time.Since(p.CreatedAt) > (time.Duration(opts.MaxDays)+1)*24*time.Hour {
		t.Fatalf("created_at too old: %v", p.CreatedAt)
	}
}

func TestCreateUser_DryRunAssignsSyntheticIDs(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true, SkipBcrypt: true})

	first, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	second, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatalf("expected synthetic IDs, got %d and %d", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct IDs, both %d", first.ID)
	}
	if first.Username == "" || first.Email == "" {
		t.Fatalf("expected generated identity, got %+v", first)
	}
}

func TestCreateMessage_DryRunStampsConversationID(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})

	msg, err := f.CreateMessage(9, 4)
	if err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if msg.ConversationID != "4_9" {
		t.Fatalf("expected conversation 4_9, got %s", msg.ConversationID)
	}
	if msg.SenderID != 9 || msg.RecipientID != 4 {
		t.Fatalf("unexpected participants: %d -> %d", msg.SenderID, msg.RecipientID)
	}
}

func TestCreateFollow_SelfEdgeSkipped(t *testing.T) {
	f := NewFactory(nil, Options{DryRun: true})
	if err := f.CreateFollow(3, 3); err != nil {
		t.Fatalf("self follow should be a no-op, got %v", err)
	}
}
