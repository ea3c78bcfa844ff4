package inbox

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shareareview/notify-api/internal/apperr"
	"github.com/shareareview/notify-api/internal/models"
	"github.com/shareareview/notify-api/internal/repository"
)

// ViewCriteria is the caller-side filter state: folder by name
// (case-insensitive), type selector and free-text search.
type ViewCriteria struct {
	Folder string
	Type   string
	Search string
}

const ViewTypeAll = "all"

// View is the grouped result a presentation layer renders: the current
// folder partitioned into unread and read (both newest first), plus
// unread badge counts per folder computed over the full, unfiltered set.
type View struct {
	Unread               []models.Notification `json:"unread"`
	Read                 []models.Notification `json:"read"`
	UnreadCountsByFolder map[string]int        `json:"unread_counts_by_folder"`
}

// Aggregator computes views. It is stateless; everything is derived from
// the folder and notification stores on each call.
type Aggregator struct {
	notifications repository.NotificationRepository
	folders       repository.FolderRepository
	logger        zerolog.Logger
	timeout       time.Duration
}

func NewAggregator(notifications repository.NotificationRepository, folders repository.FolderRepository, logger zerolog.Logger, timeout time.Duration) *Aggregator {
	return &Aggregator{
		notifications: notifications,
		folders:       folders,
		logger:        logger.With().Str("component", "view_aggregator").Logger(),
		timeout:       timeout,
	}
}

func (a *Aggregator) BuildView(ctx context.Context, userID int64, criteria ViewCriteria) (View, error) {
	ctx, cancel := bound(ctx, a.timeout)
	defer cancel()

	typ := strings.TrimSpace(criteria.Type)
	if typ == "" {
		typ = ViewTypeAll
	}
	if typ != ViewTypeAll && !models.IsValidNotificationType(models.NotificationType(typ)) {
		return View{}, apperr.Validation("invalid type selector %q", criteria.Type)
	}

	folders, err := a.folders.ListByUser(ctx, userID)
	if err != nil {
		return View{}, storeErr(err, "list folders")
	}

	current, ok := resolveFolder(folders, criteria.Folder)
	if !ok {
		return View{}, apperr.NotFound("folder %q not found", criteria.Folder)
	}

	// The repository returns the full set ordered by sentAt descending;
	// badge counts need the unfiltered set, so filtering happens here.
	all, err := a.notifications.ListByUser(ctx, userID, repository.ListFilter{})
	if err != nil {
		return View{}, storeErr(err, "list notifications")
	}

	view := View{
		Unread:               []models.Notification{},
		Read:                 []models.Notification{},
		UnreadCountsByFolder: unreadCountsByFolder(folders, all),
	}
	for _, notif := range filterNotifications(all, current.ID, typ, criteria.Search) {
		if notif.IsUnread() {
			view.Unread = append(view.Unread, notif)
		} else {
			view.Read = append(view.Read, notif)
		}
	}
	return view, nil
}

// SelectAll returns the ids of every notification currently visible in
// the view, unread first to mirror presentation order.
func SelectAll(view View) []int64 {
	ids := make([]int64, 0, len(view.Unread)+len(view.Read))
	for _, notif := range view.Unread {
		ids = append(ids, notif.ID)
	}
	for _, notif := range view.Read {
		ids = append(ids, notif.ID)
	}
	return ids
}

// ToggleSelect adds the id if absent and removes it if present. The input
// set is returned mutated; a nil set is allocated first.
func ToggleSelect(selected map[int64]struct{}, id int64) map[int64]struct{} {
	if selected == nil {
		selected = make(map[int64]struct{})
	}
	if _, ok := selected[id]; ok {
		delete(selected, id)
	} else {
		selected[id] = struct{}{}
	}
	return selected
}

// resolveFolder matches the criteria folder name case-insensitively
// against the user's folders.
func resolveFolder(folders []models.NotificationFolder, name string) (models.NotificationFolder, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.FolderNameInbox
	}
	for _, folder := range folders {
		if strings.EqualFold(folder.Name, name) {
			return folder, true
		}
	}
	return models.NotificationFolder{}, false
}

func filterNotifications(all []models.Notification, folderID int64, typ, search string) []models.Notification {
	search = strings.ToLower(strings.TrimSpace(search))

	var matched []models.Notification
	for _, notif := range all {
		if notif.FolderID != folderID {
			continue
		}
		if typ != ViewTypeAll && string(notif.Type) != typ {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(notif.Title), search) &&
			!strings.Contains(strings.ToLower(notif.Message), search) {
			continue
		}
		matched = append(matched, notif)
	}
	return matched
}

// unreadCountsByFolder counts unread notifications per folder name over
// the unfiltered set, so sidebar badges stay truthful regardless of the
// active type or search filter. Every folder appears, empty ones at zero.
func unreadCountsByFolder(folders []models.NotificationFolder, all []models.Notification) map[string]int {
	names := make(map[int64]string, len(folders))
	counts := make(map[string]int, len(folders))
	for _, folder := range folders {
		names[folder.ID] = folder.Name
		counts[folder.Name] = 0
	}
	for _, notif := range all {
		if !notif.IsUnread() {
			continue
		}
		if name, ok := names[notif.FolderID]; ok {
			counts[name]++
		}
	}
	return counts
}
