package handlers

import (
	"bytes"
	"context"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"taskplanner/internal/auth"
	dom "taskplanner/internal/domain"
	"taskplanner/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

// In-memory fakes mirroring the Postgres repository contracts.

type fakeTaskRepo struct {
	nextID int64
	tasks  map[int64]dom.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[int64]dom.Task{}}
}

func (r *fakeTaskRepo) Create(_ context.Context, t dom.Task) (dom.Task, error) {
	r.nextID++
	t.ID = r.nextID
	t.CreatedAt = time.Now().UTC()
	t.UpdatedAt = t.CreatedAt
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, userID, id int64) (dom.Task, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return dom.Task{}, pgx.ErrNoRows
	}
	return t, nil
}

func (r *fakeTaskRepo) List(_ context.Context, userID int64) ([]dom.Task, error) {
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sortTasks(list)
	return list, nil
}

func (r *fakeTaskRepo) ListOpen(_ context.Context, userID int64) ([]dom.Task, error) {
	var list []dom.Task
	for _, t := range r.tasks {
		if t.UserID == userID && !t.Completed {
			list = append(list, t)
		}
	}
	sortTasks(list)
	return list, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, t dom.Task) (dom.Task, error) {
	stored, ok := r.tasks[t.ID]
	if !ok || stored.UserID != t.UserID {
		return dom.Task{}, pgx.ErrNoRows
	}
	t.CreatedAt = stored.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	r.tasks[t.ID] = t
	return t, nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, userID, id int64) (bool, error) {
	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *fakeTaskRepo) Search(_ context.Context, userID int64, start, end *time.Time) ([]dom.Task, error) {
	all, _ := r.List(context.Background(), userID)
	var list []dom.Task
	for _, t := range all {
		if start != nil && t.StartDate.Before(*start) {
			continue
		}
		if end != nil && t.DueDate != nil && t.DueDate.After(*end) {
			continue
		}
		list = append(list, t)
	}
	return list, nil
}

func sortTasks(list []dom.Task) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].StartDate.Equal(list[j].StartDate) {
			return list[i].StartDate.Before(list[j].StartDate)
		}
		return list[i].ID < list[j].ID
	})
}

type fakeUserRepo struct {
	nextID int64
	users  map[int64]dom.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]dom.User{}}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (dom.User, error) {
	u, ok := r.users[id]
	if !ok {
		return dom.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (dom.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (dom.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return dom.User{}, pgx.ErrNoRows
}

func (r *fakeUserRepo) Create(_ context.Context, u dom.User) (dom.User, error) {
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now().UTC()
	r.users[u.ID] = u
	return u, nil
}

type fakeRefreshStore struct {
	tokens map[string]int64
}

func newFakeRefreshStore() *fakeRefreshStore {
	return &fakeRefreshStore{tokens: map[string]int64{}}
}

func (s *fakeRefreshStore) Save(_ context.Context, jti string, userID int64) error {
	s.tokens[jti] = userID
	return nil
}

func (s *fakeRefreshStore) UserID(_ context.Context, jti string) (int64, bool, error) {
	id, ok := s.tokens[jti]
	return id, ok, nil
}

func (s *fakeRefreshStore) Revoke(_ context.Context, jti string) error {
	delete(s.tokens, jti)
	return nil
}

// testEnv wires real services and handlers over the fakes, with the real
// bearer middleware on the task routes.
type testEnv struct {
	router   *gin.Engine
	tokens   *auth.Manager
	refresh  *fakeRefreshStore
	taskRepo *fakeTaskRepo
	userRepo *fakeUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		tokens:   auth.NewManager("test-secret", time.Minute, time.Hour),
		refresh:  newFakeRefreshStore(),
		taskRepo: newFakeTaskRepo(),
		userRepo: newFakeUserRepo(),
	}

	r := gin.New()
	api := r.Group("/api/v1")

	authHandler := NewAuthHandler(env.tokens, env.refresh, service.NewUserService(env.userRepo))
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	protected := api.Group("", auth.RequireAuth(env.tokens))
	taskHandler := NewTaskHandler(service.NewTaskService(env.taskRepo))
	protected.POST("/tasks", taskHandler.Create)
	protected.GET("/tasks", taskHandler.List)
	protected.GET("/tasks/search", taskHandler.Search)
	protected.GET("/tasks/:id", taskHandler.GetByID)
	protected.PATCH("/tasks/:id", taskHandler.Update)
	protected.PUT("/tasks/:id", taskHandler.Update)
	protected.DELETE("/tasks/:id", taskHandler.Delete)

	env.router = r
	return env
}

func (e *testEnv) accessToken(t *testing.T, userID int64) string {
	t.Helper()
	token, err := e.tokens.NewAccessToken(userID)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedTask(t *testing.T, userID int64, title, start string, due *time.Time, completed bool) dom.Task {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", start)
	require.NoError(t, err)
	task, err := e.taskRepo.Create(context.Background(), dom.Task{
		UserID:    userID,
		Title:     title,
		StartDate: parsed,
		DueDate:   due,
		Completed: completed,
	})
	require.NoError(t, err)
	return task
}
