package seed

import (
	"testing"

	"socialpulse/internal/database"
	"socialpulse/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// One connection keeps every query on the same in-memory database.
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(database.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestSeed_PopulatesAllAggregates(t *testing.T) {
	db := newSeedDB(t)

	// SkipBcrypt keeps the test fast; ShouldClean is off because the
	// TRUNCATE statement is postgres-specific.
	err := Seed(db, Options{NumUsers: 8, NumPosts: 20, SkipBcrypt: true, MaxDays: 7})
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	counts := map[string]interface{}{
		"users":   &models.User{},
		"posts":   &models.Post{},
		"follows": &models.Follow{},
	}
	for name, model := range counts {
		var cnt int64
		if err := db.Model(model).Count(&cnt).Error; err != nil {
			t.Fatalf("count %s failed: %v", name, err)
		}
		if cnt == 0 {
			t.Fatalf("expected seeded %s, got 0", name)
		}
	}

	// Fixed accounts must exist, with the first one an admin.
	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("fixed admin account missing: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatalf("expected admin account to hold the admin flag")
	}

	// No self-follow edges.
	var selfEdges int64
	if err := db.Model(&models.Follow{}).Where("follower_id = followed_id").Count(&selfEdges).Error; err != nil {
		t.Fatalf("self-edge count failed: %v", err)
	}
	if selfEdges != 0 {
		t.Fatalf("expected no self-follow edges, got %d", selfEdges)
	}
}

func TestSeed_MessagesSharePairConversation(t *testing.T) {
	db := newSeedDB(t)

	f := NewFactory(db, Options{SkipBcrypt: true})
	a, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	b, err := f.CreateUser()
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := f.CreateMessage(a.ID, b.ID); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}
	if _, err := f.CreateMessage(b.ID, a.ID); err != nil {
		t.Fatalf("CreateMessage failed: %v", err)
	}

	var distinct int64
	err = db.Model(&models.Message{}).Distinct("conversation_id").Count(&distinct).Error
	if err != nil {
		t.Fatalf("distinct count failed: %v", err)
	}
	if distinct != 1 {
		t.Fatalf("expected both directions in one conversation, got %d", distinct)
	}
}
