package handlers

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/well-broomed/cleaning-api/internal/constants"
	"github.com/well-broomed/cleaning-api/internal/database"
	"github.com/well-broomed/cleaning-api/internal/models"
	"github.com/well-broomed/cleaning-api/internal/repository"
	"github.com/well-broomed/cleaning-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeNotifier records notifications synchronously so tests can assert on
// exactly which mails a write produced.
type fakeNotifier struct {
	assigned   []string
	unassigned []string
	invited    []string
}

func (f *fakeNotifier) GuestAssigned(cleaner models.User, guestName, propertyName string, checkin time.Time) {
	f.assigned = append(f.assigned, cleaner.Email)
}

func (f *fakeNotifier) GuestUnassigned(cleaner models.User, guestName, propertyName string) {
	f.unassigned = append(f.unassigned, cleaner.Email)
}

func (f *fakeNotifier) InviteCreated(email, code string) {
	f.invited = append(f.invited, email)
}

type testEnv struct {
	db       *gorm.DB
	notifier *fakeNotifier

	authService     *services.AuthService
	propertyService *services.PropertyService
	cleanerService  *services.CleanerService
	guestService    *services.GuestService
	inviteService   *services.InviteService

	authHandler     *AuthHandler
	propertyHandler *PropertyHandler
	guestHandler    *GuestHandler
	cleanerHandler  *CleanerHandler
	inviteHandler   *InviteHandler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Partner{},
		&models.AvailableCleaner{},
		&models.Guest{},
		&models.Task{},
		&models.Invite{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	guestRepo := repository.NewGuestRepository(db)
	inviteRepo := repository.NewInviteRepository(db)

	notifier := &fakeNotifier{}

	authService := services.NewAuthService(userRepo)
	propertyService := services.NewPropertyService(propertyRepo, userRepo)
	cleanerService := services.NewCleanerService(userRepo, propertyRepo)
	guestService := services.NewGuestService(guestRepo, propertyRepo, userRepo, notifier)
	inviteService := services.NewInviteService(inviteRepo, userRepo, notifier)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return testEnv{
		db:              db,
		notifier:        notifier,
		authService:     authService,
		propertyService: propertyService,
		cleanerService:  cleanerService,
		guestService:    guestService,
		inviteService:   inviteService,
		authHandler:     NewAuthHandler(authService, inviteService),
		propertyHandler: NewPropertyHandler(propertyService, cleanerService, nil),
		guestHandler:    NewGuestHandler(guestService),
		cleanerHandler:  NewCleanerHandler(cleanerService),
		inviteHandler:   NewInviteHandler(inviteService),
	}
}

// testContext builds a gin context with the authenticated user already
// resolved, as RequireUser would leave it.
func testContext(method, url string, body []byte, user *models.User) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUserRole, user.Role)
	}

	return c, w
}

func createTestUser(t *testing.T, db *gorm.DB, name string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		UserName: name,
		Email:    name + "@example.com",
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPartner(t *testing.T, db *gorm.DB, manager, cleaner *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Partner{ManagerID: manager.ID, CleanerID: cleaner.ID}).Error)
}

func createTestProperty(t *testing.T, db *gorm.DB, manager *models.User, name string) *models.Property {
	t.Helper()

	property := &models.Property{
		ManagerID:    manager.ID,
		PropertyName: name,
		Address:      name + " street 1",
	}
	require.NoError(t, db.Create(property).Error)
	return property
}

func createTestGuest(t *testing.T, db *gorm.DB, property *models.Property, name string, cleanerID *uint64) *models.Guest {
	t.Helper()

	guest := &models.Guest{
		PropertyID: property.ID,
		CleanerID:  cleanerID,
		GuestName:  name,
		Checkin:    time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		Checkout:   time.Date(2026, 9, 8, 11, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(guest).Error)
	return guest
}
