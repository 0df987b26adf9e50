// Package seed provides helpers to create demo and test data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"socialpulse/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Factory{db: db, opts: opts, rng: rng, nextID: 1000}
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := fmt.Sprintf("%s%s%d", first, last, gofakeit.Number(10, 999))

	user := &models.User{
		Username:    username,
		DisplayName: first + " " + last,
		Email:       gofakeit.Email(),
		Bio:         gofakeit.Sentence(10),
		ProfilePic:  fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		CoverPhoto:  fmt.Sprintf("https://picsum.photos/seed/%s/1200/400", gofakeit.UUID()),
		Work:        gofakeit.Company(),
		School:      gofakeit.City() + " High School",
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = demoPassword
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post without persisting it. Useful for batching.
func (f *Factory) BuildPost(user *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		UserID:  user.ID,
		Content: gofakeit.Paragraph(1, 3, 8, "\n"),
	}

	if f.rng.Float32() < 0.4 {
		post.Images = models.ImageList{
			fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
		}
	}

	// realistic created_at spread
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	post.CreatedAt = time.Now().Add(-back)

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists multiple posts in a single DB call when possible.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.Create(&posts).Error
}

// CreateFollow persists a follow edge, skipping duplicates quietly.
func (f *Factory) CreateFollow(followerID, followedID uint) error {
	if followerID == followedID {
		return nil
	}
	if f.opts.DryRun {
		return nil
	}
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	err := f.db.Create(follow).Error
	if err != nil && isDuplicateErr(err) {
		return nil
	}
	return err
}

// CreateComment persists a comment on the given post.
func (f *Factory) CreateComment(post *models.Post, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Text:   gofakeit.Sentence(f.rng.Intn(12) + 3),
	}
	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like edge, skipping duplicates quietly.
func (f *Factory) CreateLike(postID, userID uint) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.PostLike{PostID: postID, UserID: userID}
	err := f.db.Create(like).Error
	if err != nil && isDuplicateErr(err) {
		return nil
	}
	return err
}

// CreateMessage persists a direct message between two users. The
// conversation ID is derived the same way the message service derives it.
func (f *Factory) CreateMessage(senderID, recipientID uint, overrides ...func(*models.Message)) (*models.Message, error) {
	msg := &models.Message{
		ConversationID: models.ConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Text:           gofakeit.HipsterSentence(f.rng.Intn(10) + 2),
		IsRead:         f.rng.Float32() < 0.7,
	}

	for _, override := range overrides {
		override(msg)
	}

	if f.opts.DryRun {
		f.nextID++
		msg.ID = f.nextID
		return msg, nil
	}
	if err := f.db.Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateStory persists a story for the user. Most seeded stories are still
// active; a fraction are already expired to exercise reaping.
func (f *Factory) CreateStory(user *models.User, overrides ...func(*models.Story)) (*models.Story, error) {
	story := &models.Story{
		UserID:    user.ID,
		Image:     fmt.Sprintf("https://picsum.photos/seed/story-%s/600/1000", gofakeit.UUID()),
		ExpiresAt: time.Now().Add(time.Duration(f.rng.Intn(23)+1) * time.Hour),
	}
	if f.rng.Float32() < 0.2 {
		story.ExpiresAt = time.Now().Add(-time.Duration(f.rng.Intn(48)+1) * time.Hour)
	}

	for _, override := range overrides {
		override(story)
	}

	if f.opts.DryRun {
		f.nextID++
		story.ID = f.nextID
		return story, nil
	}
	if err := f.db.Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// CreateNotification persists a notification record directly, bypassing the
// delivery pipeline.
func (f *Factory) CreateNotification(recipientID, senderID uint, notifType models.NotificationType, postID *uint) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        notifType,
		PostID:      postID,
		IsRead:      f.rng.Float32() < 0.5,
	}
	if f.opts.DryRun {
		f.nextID++
		notification.ID = f.nextID
		return notification, nil
	}
	if err := f.db.Create(notification).Error; err != nil {
		return nil, err
	}
	return notification, nil
}
