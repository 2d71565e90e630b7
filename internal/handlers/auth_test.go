package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/soratani/task-tracker-api/internal/dto"
	"github.com/soratani/task-tracker-api/internal/models"
	"github.com/soratani/task-tracker-api/internal/repository"
	"github.com/soratani/task-tracker-api/internal/services"
	"github.com/soratani/task-tracker-api/internal/token"
)

// AuthHandlerTestSuite defines the test suite for AuthHandler
type AuthHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
	tokens *token.Service
}

// SetupTest runs before each test
func (suite *AuthHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.UserRole{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	suite.tokens = token.NewService("auth-handler-test-secret")
	handler := NewAuthHandler(services.NewAuthService(userRepo, suite.tokens))

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	auth := suite.router.Group("/api/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
	}
}

// TearDownTest runs after each test
func (suite *AuthHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *AuthHandlerTestSuite) post(url string, body any) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	suite.Require().NoError(err)

	req := httptest.NewRequest("POST", url, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthHandlerTestSuite) register(username, password string) *httptest.ResponseRecorder {
	return suite.post("/api/auth/register", map[string]any{
		"username": username,
		"password": password,
		"roles":    []string{"USER"},
	})
}

// TestRegister_Success tests account creation
func (suite *AuthHandlerTestSuite) TestRegister_Success() {
	w := suite.register("alice", "s3cret!")
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.UserDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.NotZero(suite.T(), response.ID)
	assert.Equal(suite.T(), "alice", response.Username)
	assert.Equal(suite.T(), []string{"USER"}, response.Roles)

	// The password hash never leaves the server.
	assert.NotContains(suite.T(), w.Body.String(), "s3cret!")
	assert.NotContains(suite.T(), w.Body.String(), "password")
}

// TestRegister_DuplicateUsername tests the uniqueness conflict
func (suite *AuthHandlerTestSuite) TestRegister_DuplicateUsername() {
	w := suite.register("alice", "s3cret!")
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.register("alice", "another1")
	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestRegister_ShortPassword tests the minimum password length
func (suite *AuthHandlerTestSuite) TestRegister_ShortPassword() {
	w := suite.register("alice", "short")
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestRegister_MissingRoles tests that at least one role is required
func (suite *AuthHandlerTestSuite) TestRegister_MissingRoles() {
	w := suite.post("/api/auth/register", map[string]any{
		"username": "alice",
		"password": "s3cret!",
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestLogin_Success tests credential verification and token issuance
func (suite *AuthHandlerTestSuite) TestLogin_Success() {
	w := suite.register("alice", "s3cret!")
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.post("/api/auth/login", map[string]any{
		"username": "alice",
		"password": "s3cret!",
	})
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))

	subject, err := suite.tokens.SubjectOf(response["token"])
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "alice", subject)
}

// TestLogin_WrongPassword tests rejection of bad credentials
func (suite *AuthHandlerTestSuite) TestLogin_WrongPassword() {
	w := suite.register("alice", "s3cret!")
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.post("/api/auth/login", map[string]any{
		"username": "alice",
		"password": "wrong-password",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_UnknownUser tests that a missing user looks like bad credentials
func (suite *AuthHandlerTestSuite) TestLogin_UnknownUser() {
	w := suite.post("/api/auth/login", map[string]any{
		"username": "nobody",
		"password": "whatever1",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

// TestLogin_InvalidBody tests malformed request handling
func (suite *AuthHandlerTestSuite) TestLogin_InvalidBody() {
	req := httptest.NewRequest("POST", "/api/auth/login", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

// TestSuite runs the test suite
func TestAuthHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}
