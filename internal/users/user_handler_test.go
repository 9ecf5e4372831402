package users

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"prodtrack/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	args := m.Called(req, hashedPassword)
	return args.Error(0)
}

func (m *MockUserRepository) GetUser(id int) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetUsers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(id int, changes *models.UserChanges) error {
	args := m.Called(id, changes)
	return args.Error(0)
}

func performRequest(handler gin.HandlerFunc, method, path string, params gin.Params, body interface{}) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = params

	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	c.Request = httptest.NewRequest(method, path, &buf)
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestRegisterUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	payload := models.CreateUserRequest{
		Username: "wayan",
		Password: "password123",
		Fullname: "Wayan Sari",
		Role:     "operator",
	}

	mockRepo.On("PersistUser", payload, mock.Anything).Return(nil).Once()

	w := performRequest(handler.RegisterUser, http.MethodPost, "/users", nil, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestRegisterUserBadPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	w := performRequest(handler.RegisterUser, http.MethodPost, "/users", nil, gin.H{"username": "wayan"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "PersistUser", mock.Anything, mock.Anything)
}

func TestUpdateUserShortPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUser", 3).Return(&models.User{ID: 3, Username: "wayan", Role: "operator"}, nil).Once()

	short := "abc"
	w := performRequest(handler.UpdateUser, http.MethodPatch, "/users/3",
		gin.Params{{Key: "id", Value: "3"}}, models.UpdateUserRequest{Password: &short})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestUpdateUserNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUser", 99).Return(nil, errors.New("user not found")).Once()

	fullname := "New Name"
	w := performRequest(handler.UpdateUser, http.MethodPatch, "/users/99",
		gin.Params{{Key: "id", Value: "99"}}, models.UpdateUserRequest{Fullname: &fullname})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUser", 3).Return(&models.User{ID: 3, Username: "wayan", Fullname: "Wayan Sari", Role: "operator"}, nil).Once()

	w := performRequest(handler.GetUser, http.MethodGet, "/users/3",
		gin.Params{{Key: "id", Value: "3"}}, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var user models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "wayan", user.Username)
}

func TestGetUserList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockRepo := new(MockUserRepository)
	handler := NewHandler(mockRepo)

	mockRepo.On("GetUsers").Return([]models.User{
		{ID: 1, Username: "admin", Role: "admin"},
		{ID: 2, Username: "wayan", Role: "operator"},
	}, nil).Once()

	w := performRequest(handler.GetUserList, http.MethodGet, "/users", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var users []models.User
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)
}
