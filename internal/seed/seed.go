package seed

import (
	"fmt"
	"log"
	"strings"

	"socialpulse/internal/models"

	"gorm.io/gorm"
)

// demoPassword is the login password for every seeded account.
const demoPassword = "Passw0rd!Demo123"

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores the demo password in plain text. Dev fast mode only;
	// those accounts cannot log in.
	SkipBcrypt bool
	// DryRun builds entities without writing to the database.
	DryRun bool
	// MaxDays bounds how far back generated content is dated.
	MaxDays int
}

// Seed populates the database with demo data: accounts, a follow mesh,
// posts with likes and comments, message threads, stories, and a few
// notifications.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := createFollowMesh(factory, users); err != nil {
		return fmt.Errorf("failed to create follow graph: %w", err)
	}
	log.Println("✓ follow graph created")

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("✓ %d posts created", len(posts))

	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}
	log.Println("✓ likes and comments created")

	if err := createMessages(factory, users); err != nil {
		return fmt.Errorf("failed to create messages: %w", err)
	}
	log.Println("✓ message threads created")

	if err := createStories(factory, users); err != nil {
		return fmt.Errorf("failed to create stories: %w", err)
	}
	log.Println("✓ stories created")

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, reports, stories, messages, post_likes, comments, posts, follows, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include fixed accounts so devs can log in predictably.
	if count >= 3 {
		fixed := []struct {
			username string
			admin    bool
		}{
			{"admin", true},
			{"demo", false},
			{"test", false},
		}
		for _, fu := range fixed {
			fu := fu
			user, err := factory.CreateUser(func(u *models.User) {
				u.Username = fu.username
				u.DisplayName = strings.ToUpper(fu.username[:1]) + fu.username[1:]
				u.Email = fmt.Sprintf("%s@example.com", fu.username)
				u.Bio = "One of the OGs."
				u.IsAdmin = fu.admin
				u.IsVerified = true
			})
			if err != nil {
				log.Printf("Failed to create fixed user %s: %v", fu.username, err)
				continue
			}
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}

	return users, nil
}

// createFollowMesh gives every user a handful of outgoing follows so
// timelines and story feeds have content.
func createFollowMesh(factory *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, user := range users {
		edges := factory.rng.Intn(6) + 2
		for j := 0; j < edges; j++ {
			target := users[factory.rng.Intn(len(users))]
			if err := factory.CreateFollow(user.ID, target.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]*models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[factory.rng.Intn(len(users))]
		posts = append(posts, factory.BuildPost(user))
	}

	// Batch insert in chunks to keep large seeds fast.
	const chunk = 200
	for start := 0; start < len(posts); start += chunk {
		end := start + chunk
		if end > len(posts) {
			end = len(posts)
		}
		if err := factory.CreatePostsBatch(posts[start:end]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

func createEngagement(factory *Factory, users []*models.User, posts []*models.Post) error {
	if len(users) == 0 {
		return nil
	}
	for _, post := range posts {
		likes := factory.rng.Intn(5)
		for j := 0; j < likes; j++ {
			liker := users[factory.rng.Intn(len(users))]
			if err := factory.CreateLike(post.ID, liker.ID); err != nil {
				return err
			}
		}

		if factory.rng.Float32() < 0.5 {
			commenter := users[factory.rng.Intn(len(users))]
			if _, err := factory.CreateComment(post, commenter); err != nil {
				return err
			}
		}
	}
	return nil
}

func createMessages(factory *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	threads := len(users) / 2
	for i := 0; i < threads; i++ {
		a := users[factory.rng.Intn(len(users))]
		b := users[factory.rng.Intn(len(users))]
		if a.ID == b.ID {
			continue
		}

		exchanges := factory.rng.Intn(8) + 2
		for j := 0; j < exchanges; j++ {
			sender, recipient := a, b
			if j%2 == 1 {
				sender, recipient = b, a
			}
			if _, err := factory.CreateMessage(sender.ID, recipient.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func createStories(factory *Factory, users []*models.User) error {
	for _, user := range users {
		if factory.rng.Float32() > 0.4 {
			continue
		}
		count := factory.rng.Intn(3) + 1
		for j := 0; j < count; j++ {
			if _, err := factory.CreateStory(user); err != nil {
				return err
			}
		}
	}
	return nil
}
