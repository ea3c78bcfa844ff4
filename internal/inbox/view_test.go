package inbox

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
	"github.com/shareareview/notify-api/internal/models"
	"github.com/stretchr/testify/require"
)

type viewFixture struct {
	*storeFixture
	aggregator *Aggregator
	base       time.Time
}

func newViewFixture(t *testing.T) *viewFixture {
	t.Helper()
	store := newStoreFixture(t)
	return &viewFixture{
		storeFixture: store,
		aggregator:   NewAggregator(store.notifRepo, store.folderRepo, zerolog.Nop(), time.Second),
		base:         time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
	}
}

// seed inserts a notification with a deterministic sent time; minute
// offsets define the expected newest-first order.
func (f *viewFixture) seed(recipientID, folderID int64, title string, typ models.NotificationType, status models.NotificationStatus, minutes int) models.Notification {
	f.notifRepo.nextID++
	notif := models.Notification{
		ID:          f.notifRepo.nextID,
		RecipientID: recipientID,
		Title:       title,
		Message:     "body of " + title,
		Type:        typ,
		Status:      status,
		FolderID:    folderID,
		SentAt:      f.base.Add(time.Duration(minutes) * time.Minute),
	}
	f.notifRepo.notifications[notif.ID] = notif
	return notif
}

func TestBuildViewPartitionsAndOrders(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	user, inboxID, _ := f.addProvisionedUser(t, "ann@example.com")

	f.seed(user.ID, inboxID, "u1", models.NotificationTypeSystem, models.NotificationStatusUnread, 1)
	f.seed(user.ID, inboxID, "u2", models.NotificationTypeUser, models.NotificationStatusUnread, 2)
	f.seed(user.ID, inboxID, "u3", models.NotificationTypeSystem, models.NotificationStatusUnread, 3)
	f.seed(user.ID, inboxID, "r1", models.NotificationTypeUser, models.NotificationStatusRead, 4)
	f.seed(user.ID, inboxID, "r2", models.NotificationTypeSystem, models.NotificationStatusRead, 5)

	view, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox", Type: ViewTypeAll})
	require.NoError(t, err)

	require.Len(t, view.Unread, 3)
	require.Len(t, view.Read, 2)

	// Newest first within each partition.
	require.Equal(t, "u3", view.Unread[0].Title)
	require.Equal(t, "u2", view.Unread[1].Title)
	require.Equal(t, "u1", view.Unread[2].Title)
	require.Equal(t, "r2", view.Read[0].Title)
	require.Equal(t, "r1", view.Read[1].Title)
}

func TestUnreadCountsIgnoreActiveFilters(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	user, inboxID, trashID := f.addProvisionedUser(t, "nine@example.com")

	f.seed(user.ID, inboxID, "inbox unread", models.NotificationTypeUser, models.NotificationStatusUnread, 1)
	f.seed(user.ID, trashID, "trash unread", models.NotificationTypeSystem, models.NotificationStatusUnread, 2)

	// A type filter narrows the visible list but never the badges.
	view, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "Inbox", Type: "system"})
	require.NoError(t, err)
	require.Empty(t, view.Unread)
	require.Equal(t, 1, view.UnreadCountsByFolder[models.FolderNameInbox])
	require.Equal(t, 1, view.UnreadCountsByFolder[models.FolderNameTrash])

	// Same story with a search filter.
	view, err = f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox", Search: "no such text"})
	require.NoError(t, err)
	require.Empty(t, view.Unread)
	require.Equal(t, 1, view.UnreadCountsByFolder[models.FolderNameInbox])
	require.Equal(t, 1, view.UnreadCountsByFolder[models.FolderNameTrash])
}

func TestBuildViewTypeAndSearchFilters(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	user, inboxID, _ := f.addProvisionedUser(t, "ann@example.com")

	f.seed(user.ID, inboxID, "Order shipped", models.NotificationTypeSystem, models.NotificationStatusUnread, 1)
	f.seed(user.ID, inboxID, "Reply from Bob", models.NotificationTypeUser, models.NotificationStatusUnread, 2)

	view, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox", Type: "user"})
	require.NoError(t, err)
	require.Len(t, view.Unread, 1)
	require.Equal(t, "Reply from Bob", view.Unread[0].Title)

	view, err = f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox", Search: "SHIPPED"})
	require.NoError(t, err)
	require.Len(t, view.Unread, 1)
	require.Equal(t, "Order shipped", view.Unread[0].Title)

	_, err = f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox", Type: "broadcast"})
	require.True(t, apperr.IsValidation(err))
}

func TestBuildViewFolderResolution(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	user, inboxID, _ := f.addProvisionedUser(t, "ann@example.com")
	f.seed(user.ID, inboxID, "hello", models.NotificationTypeSystem, models.NotificationStatusUnread, 1)

	// Folder names resolve case-insensitively; empty defaults to Inbox.
	for _, folder := range []string{"INBOX", "inbox", ""} {
		view, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: folder})
		require.NoError(t, err)
		require.Len(t, view.Unread, 1)
	}

	_, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "nope"})
	require.True(t, apperr.IsNotFound(err))
}

func TestSelectAllReturnsVisibleIDs(t *testing.T) {
	f := newViewFixture(t)
	ctx := context.Background()
	user, inboxID, trashID := f.addProvisionedUser(t, "ann@example.com")

	a := f.seed(user.ID, inboxID, "a", models.NotificationTypeUser, models.NotificationStatusUnread, 1)
	b := f.seed(user.ID, inboxID, "b", models.NotificationTypeUser, models.NotificationStatusRead, 2)
	f.seed(user.ID, trashID, "hidden", models.NotificationTypeUser, models.NotificationStatusUnread, 3)

	view, err := f.aggregator.BuildView(ctx, user.ID, ViewCriteria{Folder: "inbox"})
	require.NoError(t, err)

	ids := SelectAll(view)
	require.ElementsMatch(t, []int64{a.ID, b.ID}, ids)
}

func TestToggleSelect(t *testing.T) {
	selected := ToggleSelect(nil, 5)
	require.Contains(t, selected, int64(5))

	selected = ToggleSelect(selected, 7)
	require.Len(t, selected, 2)

	selected = ToggleSelect(selected, 5)
	require.NotContains(t, selected, int64(5))
	require.Contains(t, selected, int64(7))
}
