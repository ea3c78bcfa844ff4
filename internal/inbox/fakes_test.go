package inbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/shareareview/notify-api/internal/models"
	"github.com/shareareview/notify-api/internal/repository"
)

// In-memory repository doubles mirroring the SQL semantics: misses
// report sql.ErrNoRows, lists come back newest first.

type fakeFolderRepo struct {
	nextID     int64
	folders    map[int64]models.NotificationFolder
	notifs     *fakeNotificationRepo
	failAll    error
	failCreate error
	failRename error
}

func newFakeFolderRepo(notifs *fakeNotificationRepo) *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[int64]models.NotificationFolder), notifs: notifs}
}

func (f *fakeFolderRepo) Create(_ context.Context, userID int64, name string, kind models.FolderKind) (models.NotificationFolder, error) {
	if f.failAll != nil {
		return models.NotificationFolder{}, f.failAll
	}
	if f.failCreate != nil {
		return models.NotificationFolder{}, f.failCreate
	}
	f.nextID++
	folder := models.NotificationFolder{
		ID:        f.nextID,
		UserID:    userID,
		Name:      name,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	f.folders[folder.ID] = folder
	return folder, nil
}

func (f *fakeFolderRepo) GetByID(_ context.Context, folderID int64) (models.NotificationFolder, error) {
	if f.failAll != nil {
		return models.NotificationFolder{}, f.failAll
	}
	folder, ok := f.folders[folderID]
	if !ok {
		return models.NotificationFolder{}, sql.ErrNoRows
	}
	return folder, nil
}

func (f *fakeFolderRepo) GetByName(_ context.Context, userID int64, name string) (models.NotificationFolder, error) {
	if f.failAll != nil {
		return models.NotificationFolder{}, f.failAll
	}
	for _, folder := range f.folders {
		if folder.UserID == userID && folder.Name == name {
			return folder, nil
		}
	}
	return models.NotificationFolder{}, sql.ErrNoRows
}

func (f *fakeFolderRepo) ListByUser(_ context.Context, userID int64) ([]models.NotificationFolder, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	var folders []models.NotificationFolder
	for _, folder := range f.folders {
		if folder.UserID == userID {
			folders = append(folders, folder)
		}
	}
	sort.Slice(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if a.IsSystem() != b.IsSystem() {
			return a.IsSystem()
		}
		if a.IsSystem() && b.IsSystem() {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return folders, nil
}

func (f *fakeFolderRepo) Rename(_ context.Context, folderID int64, name string) (models.NotificationFolder, error) {
	if f.failRename != nil {
		return models.NotificationFolder{}, f.failRename
	}
	folder, ok := f.folders[folderID]
	if !ok {
		return models.NotificationFolder{}, sql.ErrNoRows
	}
	folder.Name = name
	f.folders[folderID] = folder
	return folder, nil
}

func (f *fakeFolderRepo) DeleteWithReassign(_ context.Context, folderID, inboxID int64) error {
	if f.failAll != nil {
		return f.failAll
	}
	if _, ok := f.folders[folderID]; !ok {
		return sql.ErrNoRows
	}
	if f.notifs != nil {
		for id, notif := range f.notifs.notifications {
			if notif.FolderID == folderID {
				notif.FolderID = inboxID
				f.notifs.notifications[id] = notif
			}
		}
	}
	delete(f.folders, folderID)
	return nil
}

type fakeNotificationRepo struct {
	nextID        int64
	notifications map[int64]models.Notification
	failAll       error
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[int64]models.Notification)}
}

func (f *fakeNotificationRepo) Create(_ context.Context, params repository.CreateNotificationParams) (models.Notification, error) {
	if f.failAll != nil {
		return models.Notification{}, f.failAll
	}
	f.nextID++
	notif := models.Notification{
		ID:          f.nextID,
		SenderID:    params.SenderID,
		RecipientID: params.RecipientID,
		Title:       params.Title,
		Message:     params.Message,
		Type:        params.Type,
		Status:      models.NotificationStatusUnread,
		FolderID:    params.FolderID,
		SentAt:      time.Now(),
	}
	if len(params.Metadata) > 0 {
		bytes, err := json.Marshal(params.Metadata)
		if err != nil {
			return models.Notification{}, err
		}
		notif.Metadata = bytes
	}
	f.notifications[notif.ID] = notif
	return notif, nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, notificationID int64) (models.Notification, error) {
	if f.failAll != nil {
		return models.Notification{}, f.failAll
	}
	notif, ok := f.notifications[notificationID]
	if !ok {
		return models.Notification{}, sql.ErrNoRows
	}
	return notif, nil
}

func (f *fakeNotificationRepo) UpdateStatus(_ context.Context, notificationID int64, status models.NotificationStatus) (models.Notification, error) {
	notif, ok := f.notifications[notificationID]
	if !ok {
		return models.Notification{}, sql.ErrNoRows
	}
	notif.Status = status
	f.notifications[notificationID] = notif
	return notif, nil
}

func (f *fakeNotificationRepo) UpdateFolder(_ context.Context, notificationID, folderID int64) (models.Notification, error) {
	notif, ok := f.notifications[notificationID]
	if !ok {
		return models.Notification{}, sql.ErrNoRows
	}
	notif.FolderID = folderID
	f.notifications[notificationID] = notif
	return notif, nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID int64, filter repository.ListFilter) ([]models.Notification, error) {
	if f.failAll != nil {
		return nil, f.failAll
	}
	search := strings.ToLower(filter.Search)
	var notifications []models.Notification
	for _, notif := range f.notifications {
		if notif.RecipientID != userID {
			continue
		}
		if filter.FolderID != nil && notif.FolderID != *filter.FolderID {
			continue
		}
		if filter.Type != "" && notif.Type != filter.Type {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(notif.Title), search) &&
			!strings.Contains(strings.ToLower(notif.Message), search) {
			continue
		}
		notifications = append(notifications, notif)
	}
	sort.Slice(notifications, func(i, j int) bool {
		if !notifications[i].SentAt.Equal(notifications[j].SentAt) {
			return notifications[i].SentAt.After(notifications[j].SentAt)
		}
		return notifications[i].ID > notifications[j].ID
	})
	return notifications, nil
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]models.User)}
}

func (f *fakeUserRepo) addUser(email string) models.User {
	f.nextID++
	user := models.User{ID: f.nextID, Email: email, IsActive: true, CreatedAt: time.Now()}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) CreateUser(_ context.Context, email, _, displayName string) (models.User, error) {
	user := f.addUser(email)
	user.DisplayName = displayName
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) AuthenticateUser(_ context.Context, email, _ string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(_ context.Context, userID int64) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, sql.ErrNoRows
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, sql.ErrNoRows
}
