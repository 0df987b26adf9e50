package service

import (
	"context"

	"socialpulse/internal/models"
)

type userRepoStub struct {
	getByIDFn         func(context.Context, uint) (*models.User, error)
	getByEmailFn      func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	createFn          func(context.Context, *models.User) error
	updateFn          func(context.Context, *models.User) error
	deleteFn          func(context.Context, uint) error
	listFn            func(context.Context, int, int) ([]models.User, error)
	countFn           func(context.Context) (int64, error)
	searchFn          func(context.Context, string, int) ([]models.User, error)
	suggestedFn       func(context.Context, uint, int) ([]models.User, error)
	isFollowingFn     func(context.Context, uint, uint) (bool, error)
	createFollowFn    func(context.Context, uint, uint) error
	deleteFollowFn    func(context.Context, uint, uint) error
	followerIDsFn     func(context.Context, uint) ([]uint, error)
	followingIDsFn    func(context.Context, uint) ([]uint, error)
	loadFollowEdgesFn func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) Search(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, query, limit)
}
func (s *userRepoStub) Suggested(ctx context.Context, userID uint, limit int) ([]models.User, error) {
	return s.suggestedFn(ctx, userID, limit)
}
func (s *userRepoStub) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	return s.isFollowingFn(ctx, followerID, followedID)
}
func (s *userRepoStub) CreateFollow(ctx context.Context, followerID, followedID uint) error {
	return s.createFollowFn(ctx, followerID, followedID)
}
func (s *userRepoStub) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	return s.deleteFollowFn(ctx, followerID, followedID)
}
func (s *userRepoStub) FollowerIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followerIDsFn(ctx, userID)
}
func (s *userRepoStub) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followingIDsFn(ctx, userID)
}
func (s *userRepoStub) LoadFollowEdges(ctx context.Context, user *models.User) error {
	return s.loadFollowEdgesFn(ctx, user)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:         func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:          func(context.Context, *models.User) error { return nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
		deleteFn:          func(context.Context, uint) error { return nil },
		listFn:            func(context.Context, int, int) ([]models.User, error) { return nil, nil },
		countFn:           func(context.Context) (int64, error) { return 0, nil },
		searchFn:          func(context.Context, string, int) ([]models.User, error) { return nil, nil },
		suggestedFn:       func(context.Context, uint, int) ([]models.User, error) { return nil, nil },
		isFollowingFn:     func(context.Context, uint, uint) (bool, error) { return false, nil },
		createFollowFn:    func(context.Context, uint, uint) error { return nil },
		deleteFollowFn:    func(context.Context, uint, uint) error { return nil },
		followerIDsFn:     func(context.Context, uint) ([]uint, error) { return nil, nil },
		followingIDsFn:    func(context.Context, uint) ([]uint, error) { return nil, nil },
		loadFollowEdgesFn: func(context.Context, *models.User) error { return nil },
	}
}

type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
	listByUserFn    func(context.Context, uint, int, int) ([]models.Post, error)
	timelineFn      func(context.Context, []uint, int, int) ([]models.Post, error)
	countFn         func(context.Context) (int64, error)
	addCommentFn    func(context.Context, *models.Comment) error
	deleteCommentFn func(context.Context, uint) error
	getCommentFn    func(context.Context, uint) (*models.Comment, error)
	hasLikeFn       func(context.Context, uint, uint) (bool, error)
	createLikeFn    func(context.Context, uint, uint) error
	deleteLikeFn    func(context.Context, uint, uint) error
	likeIDsFn       func(context.Context, uint) ([]uint, error)
	loadLikesFn     func(context.Context, []models.Post) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID, limit, offset)
}
func (s *postRepoStub) Timeline(ctx context.Context, userIDs []uint, limit, offset int) ([]models.Post, error) {
	return s.timelineFn(ctx, userIDs, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) DeleteComment(ctx context.Context, commentID uint) error {
	return s.deleteCommentFn(ctx, commentID)
}
func (s *postRepoStub) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.getCommentFn(ctx, commentID)
}
func (s *postRepoStub) HasLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.hasLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) CreateLike(ctx context.Context, postID, userID uint) error {
	return s.createLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) DeleteLike(ctx context.Context, postID, userID uint) error {
	return s.deleteLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) LikeIDs(ctx context.Context, postID uint) ([]uint, error) {
	return s.likeIDsFn(ctx, postID)
}
func (s *postRepoStub) LoadLikes(ctx context.Context, posts []models.Post) error {
	return s.loadLikesFn(ctx, posts)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(context.Context, *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		updateFn:        func(context.Context, *models.Post) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listByUserFn:    func(context.Context, uint, int, int) ([]models.Post, error) { return nil, nil },
		timelineFn:      func(context.Context, []uint, int, int) ([]models.Post, error) { return nil, nil },
		countFn:         func(context.Context) (int64, error) { return 0, nil },
		addCommentFn:    func(context.Context, *models.Comment) error { return nil },
		deleteCommentFn: func(context.Context, uint) error { return nil },
		getCommentFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		hasLikeFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		createLikeFn:    func(context.Context, uint, uint) error { return nil },
		deleteLikeFn:    func(context.Context, uint, uint) error { return nil },
		likeIDsFn:       func(context.Context, uint) ([]uint, error) { return []uint{}, nil },
		loadLikesFn:     func(context.Context, []models.Post) error { return nil },
	}
}

type messageRepoStub struct {
	createFn                func(context.Context, *models.Message) error
	byConversationFn        func(context.Context, string, int, int) ([]models.Message, error)
	latestPerConversationFn func(context.Context, uint) ([]models.Message, error)
	markConversationReadFn  func(context.Context, string, uint) (int64, error)
	countUnreadFn           func(context.Context, uint) (int64, error)
}

func (s *messageRepoStub) Create(ctx context.Context, message *models.Message) error {
	return s.createFn(ctx, message)
}
func (s *messageRepoStub) ByConversation(ctx context.Context, conversationID string, limit, offset int) ([]models.Message, error) {
	return s.byConversationFn(ctx, conversationID, limit, offset)
}
func (s *messageRepoStub) LatestPerConversation(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.latestPerConversationFn(ctx, userID)
}
func (s *messageRepoStub) MarkConversationRead(ctx context.Context, conversationID string, readerID uint) (int64, error) {
	return s.markConversationReadFn(ctx, conversationID, readerID)
}
func (s *messageRepoStub) CountUnread(ctx context.Context, userID uint) (int64, error) {
	return s.countUnreadFn(ctx, userID)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:                func(context.Context, *models.Message) error { return nil },
		byConversationFn:        func(context.Context, string, int, int) ([]models.Message, error) { return nil, nil },
		latestPerConversationFn: func(context.Context, uint) ([]models.Message, error) { return nil, nil },
		markConversationReadFn:  func(context.Context, string, uint) (int64, error) { return 0, nil },
		countUnreadFn:           func(context.Context, uint) (int64, error) { return 0, nil },
	}
}

type storyRepoStub struct {
	createFn          func(context.Context, *models.Story) error
	getByIDFn         func(context.Context, uint) (*models.Story, error)
	visibleByUserFn   func(context.Context, uint) ([]models.Story, error)
	visibleForUsersFn func(context.Context, []uint) ([]models.Story, error)
	deleteFn          func(context.Context, uint) (*models.Story, error)
	deleteExpiredFn   func(context.Context) (int64, error)
}

func (s *storyRepoStub) Create(ctx context.Context, story *models.Story) error {
	return s.createFn(ctx, story)
}
func (s *storyRepoStub) GetByID(ctx context.Context, id uint) (*models.Story, error) {
	return s.getByIDFn(ctx, id)
}
func (s *storyRepoStub) VisibleByUser(ctx context.Context, userID uint) ([]models.Story, error) {
	return s.visibleByUserFn(ctx, userID)
}
func (s *storyRepoStub) VisibleForUsers(ctx context.Context, userIDs []uint) ([]models.Story, error) {
	return s.visibleForUsersFn(ctx, userIDs)
}
func (s *storyRepoStub) Delete(ctx context.Context, id uint) (*models.Story, error) {
	return s.deleteFn(ctx, id)
}
func (s *storyRepoStub) DeleteExpired(ctx context.Context) (int64, error) {
	return s.deleteExpiredFn(ctx)
}

func noopStoryRepo() *storyRepoStub {
	return &storyRepoStub{
		createFn:          func(context.Context, *models.Story) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Story, error) { return &models.Story{ID: id}, nil },
		visibleByUserFn:   func(context.Context, uint) ([]models.Story, error) { return nil, nil },
		visibleForUsersFn: func(context.Context, []uint) ([]models.Story, error) { return nil, nil },
		deleteFn:          func(_ context.Context, id uint) (*models.Story, error) { return &models.Story{ID: id}, nil },
		deleteExpiredFn:   func(context.Context) (int64, error) { return 0, nil },
	}
}

type notificationRepoStub struct {
	createFn           func(context.Context, *models.Notification) error
	getByIDFn          func(context.Context, uint) (*models.Notification, error)
	listByRecipientFn  func(context.Context, uint, int, int) ([]models.Notification, error)
	countUnreadFn      func(context.Context, uint) (int64, error)
	markReadFn         func(context.Context, uint, uint) error
	markAllReadFn      func(context.Context, uint) (int64, error)
	deleteFn           func(context.Context, uint, uint) error
	deleteAllFn        func(context.Context, uint) (int64, error)
	followNotifExistFn func(context.Context, uint, uint) (bool, error)
}

func (s *notificationRepoStub) Create(ctx context.Context, notification *models.Notification) error {
	return s.createFn(ctx, notification)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListByRecipient(ctx context.Context, recipientID uint, limit, offset int) ([]models.Notification, error) {
	return s.listByRecipientFn(ctx, recipientID, limit, offset)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	return s.countUnreadFn(ctx, recipientID)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id, recipientID uint) error {
	return s.markReadFn(ctx, id, recipientID)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, recipientID uint) (int64, error) {
	return s.markAllReadFn(ctx, recipientID)
}
func (s *notificationRepoStub) Delete(ctx context.Context, id, recipientID uint) error {
	return s.deleteFn(ctx, id, recipientID)
}
func (s *notificationRepoStub) DeleteAll(ctx context.Context, recipientID uint) (int64, error) {
	return s.deleteAllFn(ctx, recipientID)
}
func (s *notificationRepoStub) FollowNotificationExists(ctx context.Context, recipientID, senderID uint) (bool, error) {
	return s.followNotifExistFn(ctx, recipientID, senderID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(context.Context, *models.Notification) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
			return &models.Notification{ID: id}, nil
		},
		listByRecipientFn:  func(context.Context, uint, int, int) ([]models.Notification, error) { return nil, nil },
		countUnreadFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		markReadFn:         func(context.Context, uint, uint) error { return nil },
		markAllReadFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		deleteFn:           func(context.Context, uint, uint) error { return nil },
		deleteAllFn:        func(context.Context, uint) (int64, error) { return 0, nil },
		followNotifExistFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
	}
}

type reportRepoStub struct {
	createFn        func(context.Context, *models.Report) error
	getByIDFn       func(context.Context, uint) (*models.Report, error)
	hasOpenReportFn func(context.Context, uint, uint) (bool, error)
	listFn          func(context.Context, models.ReportStatus, int, int) ([]models.Report, error)
	updateStatusFn  func(context.Context, uint, models.ReportStatus) error
	countByStatusFn func(context.Context, models.ReportStatus) (int64, error)
	resolveForPostF func(context.Context, uint, models.ReportStatus) (int64, error)
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}
func (s *reportRepoStub) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reportRepoStub) HasOpenReport(ctx context.Context, postID, reporterID uint) (bool, error) {
	return s.hasOpenReportFn(ctx, postID, reporterID)
}
func (s *reportRepoStub) List(ctx context.Context, status models.ReportStatus, limit, offset int) ([]models.Report, error) {
	return s.listFn(ctx, status, limit, offset)
}
func (s *reportRepoStub) UpdateStatus(ctx context.Context, id uint, status models.ReportStatus) error {
	return s.updateStatusFn(ctx, id, status)
}
func (s *reportRepoStub) CountByStatus(ctx context.Context, status models.ReportStatus) (int64, error) {
	return s.countByStatusFn(ctx, status)
}
func (s *reportRepoStub) ResolveForPost(ctx context.Context, postID uint, status models.ReportStatus) (int64, error) {
	return s.resolveForPostF(ctx, postID, status)
}

func noopReportRepo() *reportRepoStub {
	return &reportRepoStub{
		createFn:        func(context.Context, *models.Report) error { return nil },
		getByIDFn:       func(_ context.Context, id uint) (*models.Report, error) { return &models.Report{ID: id, Status: models.ReportStatusPending}, nil },
		hasOpenReportFn: func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFn:          func(context.Context, models.ReportStatus, int, int) ([]models.Report, error) { return nil, nil },
		updateStatusFn:  func(context.Context, uint, models.ReportStatus) error { return nil },
		countByStatusFn: func(context.Context, models.ReportStatus) (int64, error) { return 0, nil },
		resolveForPostF: func(context.Context, uint, models.ReportStatus) (int64, error) { return 0, nil },
	}
}

func newTestNotificationService(repo *notificationRepoStub) *NotificationService {
	return NewNotificationService(repo, nil)
}
