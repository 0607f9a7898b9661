package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/access"
	"github.com/hugh/go-taskboard/internal/auth"
	"github.com/hugh/go-taskboard/internal/database"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/projects"
	"github.com/hugh/go-taskboard/internal/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestPassword is the password of every user created by CreateTestUser.
const TestPassword = "testpassword123"

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Every pooled connection would otherwise see its own empty database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := database.Close(db); err != nil {
		t.Logf("warning: failed to close test database: %v", err)
	}
}

// CreateTestUser creates a user with TestPassword. An empty username gets a
// random one.
func CreateTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(TestPassword)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if username == "" {
		username = "user-" + uuid.New().String()[:8]
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// CreateTestProject creates a project owned by owner.
func CreateTestProject(t *testing.T, st *store.Store, owner *models.User, name string) *models.Project {
	t.Helper()

	project := &models.Project{Name: name, Description: "Test project"}
	if err := st.CreateProject(context.Background(), project, owner.ID); err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}

	return project
}

// AddTestMember adds user to a project with role.
func AddTestMember(t *testing.T, st *store.Store, projectID uuid.UUID, user *models.User, role models.Role) {
	t.Helper()

	member := &models.ProjectMember{ProjectID: projectID, UserID: user.ID, Role: role}
	if err := st.AddMember(context.Background(), member); err != nil {
		t.Fatalf("failed to add test member: %v", err)
	}
}

// CreateTestBoard creates a board in a project.
func CreateTestBoard(t *testing.T, st *store.Store, projectID uuid.UUID, title string) *models.Board {
	t.Helper()

	board := &models.Board{ProjectID: projectID, Title: title}
	if err := st.CreateBoard(context.Background(), board, nil); err != nil {
		t.Fatalf("failed to create test board: %v", err)
	}

	return board
}

// CreateTestTask creates a task on a board.
func CreateTestTask(t *testing.T, st *store.Store, boardID, creatorID uuid.UUID, title string) *models.Task {
	t.Helper()

	task := &models.Task{BoardID: boardID, CreatorID: creatorID, Title: title}
	if err := st.CreateTask(context.Background(), task, nil); err != nil {
		t.Fatalf("failed to create test task: %v", err)
	}

	return task
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB          *gorm.DB
	Store       *store.Store
	JWTService  *auth.JWTService
	AuthService *auth.Service
	Projects    *projects.Service
	User        *models.User
	Token       string
}

// NewTestContext creates a complete test setup with DB, services, a user
// named "alice" and her token.
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	st := store.New(db)
	jwtService := CreateTestJWTService()
	authService := auth.NewService(st, jwtService, auth.NewRevoker(nil), nil)
	projectService := projects.NewService(st, access.NewAuthorizer(st), nil)
	user := CreateTestUser(t, db, "alice")
	token := GenerateTestToken(t, jwtService, user)

	return &TestSetup{
		DB:          db,
		Store:       st,
		JWTService:  jwtService,
		AuthService: authService,
		Projects:    projectService,
		User:        user,
		Token:       token,
	}
}

// NewUser creates another user and a token for it.
func (ts *TestSetup) NewUser(t *testing.T, username string) (*models.User, string) {
	t.Helper()
	user := CreateTestUser(t, ts.DB, username)
	return user, GenerateTestToken(t, ts.JWTService, user)
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		_ = database.Close(ts.DB)
	}
}
