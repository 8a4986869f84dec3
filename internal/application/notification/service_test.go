package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/caravanly/caravan-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) Put(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}
func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockNotificationStore) ListUnread(ctx context.Context, userID string) ([]domain.Notification, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Notification), args.Error(1)
}
func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSMS struct{ mock.Mock }

func (m *mockSMS) SendSMS(ctx context.Context, to, message string) error {
	return m.Called(ctx, to, message).Error(0)
}

func TestNotify_StoresRecord(t *testing.T) {
	repo := &mockNotificationStore{}
	var stored *domain.Notification
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Notification")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*domain.Notification) }).
		Return(nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo})
	svc.Notify(context.Background(), "u2", domain.NotifMatchRequested, "u1", "hello")

	require.NotNil(t, stored)
	assert.Equal(t, "u2", stored.UserID)
	assert.Equal(t, domain.NotifMatchRequested, stored.Kind)
	assert.Equal(t, "u1", stored.ActorID)
	assert.Equal(t, 0, stored.Readed)
	assert.NotEmpty(t, stored.NotificationID)
}

func TestNotify_SendsSMSWhenPhonePresent(t *testing.T) {
	repo := &mockNotificationStore{}
	us := &mockUserStore{}
	sms := &mockSMS{}

	phone := "+15550100"
	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2", Phone: &phone}, nil)
	sms.On("SendSMS", mock.Anything, phone, "hello").Return(nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo, UserRepo: us, SMS: sms})
	svc.Notify(context.Background(), "u2", domain.NotifVouchReceived, "u1", "hello")

	sms.AssertExpectations(t)
}

func TestNotify_SkipsSMSWithoutPhone(t *testing.T) {
	repo := &mockNotificationStore{}
	us := &mockUserStore{}
	sms := &mockSMS{}

	repo.On("Put", mock.Anything, mock.Anything).Return(nil)
	us.On("Get", mock.Anything, "u2").Return(&domain.User{UserID: "u2"}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo, UserRepo: us, SMS: sms})
	svc.Notify(context.Background(), "u2", domain.NotifVouchReceived, "u1", "hello")

	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotify_SwallowsStoreFailure(t *testing.T) {
	repo := &mockNotificationStore{}
	sms := &mockSMS{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("dynamo down"))

	svc := NewService(ServiceDeps{NotificationRepo: repo, SMS: sms})
	// Must not panic or propagate.
	svc.Notify(context.Background(), "u2", domain.NotifMatchAccepted, "u1", "hello")

	sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAsRead_OwnerOnly(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u2"}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo})
	_, err := svc.MarkAsRead(context.Background(), "n1", "u9")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestMarkAsRead_HappyPath(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u2"}, nil)
	repo.On("MarkAsRead", mock.Anything, "n1").Return(&domain.Notification{NotificationID: "n1", UserID: "u2", Readed: 1}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo})
	n, err := svc.MarkAsRead(context.Background(), "n1", "u2")

	require.NoError(t, err)
	assert.Equal(t, 1, n.Readed)
}

func TestListUnread_PassesThrough(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("ListUnread", mock.Anything, "u2").Return([]domain.Notification{{NotificationID: "n1"}}, nil)

	svc := NewService(ServiceDeps{NotificationRepo: repo})
	list, err := svc.ListUnread(context.Background(), "u2")

	require.NoError(t, err)
	assert.Len(t, list, 1)
}
