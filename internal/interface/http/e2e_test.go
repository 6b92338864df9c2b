package handlers_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub-api/internal/application"
	"github.com/taskhub/taskhub-api/internal/domain/entity"
	"github.com/taskhub/taskhub-api/internal/domain/repository"
	handlers "github.com/taskhub/taskhub-api/internal/interface/http"
	"github.com/taskhub/taskhub-api/internal/router"
	"github.com/taskhub/taskhub-api/internal/router/modules"
	"github.com/taskhub/taskhub-api/pkg/helpers"
	"github.com/taskhub/taskhub-api/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

// memUserRepo keeps users in a map and enforces email uniqueness the way
// the database index does.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*entity.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// memTaskRepo mirrors the SQL store, including newest-first listing.
type memTaskRepo struct {
	mu    sync.Mutex
	seq   int
	tasks map[string]*entity.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: make(map[string]*entity.Task)}
}

func (r *memTaskRepo) Create(ctx context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	t.ID = uuid.NewString()
	// Spread creation times so ordering is deterministic.
	t.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	t.UpdatedAt = t.CreatedAt
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTaskRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memTaskRepo) Update(ctx context.Context, t *entity.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *memTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type testServer struct {
	engine *gin.Engine
	jwt    *helpers.JWTManager
}

func newTestServer() *testServer {
	jwt := helpers.NewJWTManager("e2e-secret", time.Hour)
	users := newMemUserRepo()
	tasks := newMemTaskRepo()

	authSvc := application.NewAuthService(users, jwt, nil, 4)
	taskSvc := application.NewTaskService(tasks, nil)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, nil, "test"), users, jwt))
	reg.Add(modules.NewTaskModule(handlers.NewTaskHandler(taskSvc, nil, "test"), users, jwt))
	reg.RegisterAll()

	return &testServer{engine: engine, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func (s *testServer) register(t *testing.T, email, password, name string) (token string, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"name":%q}`, email, password, name)
	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
	token = env.Data["token"].(string)
	user := env.Data["user"].(map[string]any)
	return token, user["id"].(string)
}

func taskField(env envelope, key string) any {
	return env.Data["task"].(map[string]any)[key]
}

func TestAuthFlow(t *testing.T) {
	srv := newTestServer()

	t.Run("register", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/auth/register", "",
			`{"email":"  Alice@X.com ","password":"password123","name":"Alice"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Data["token"])

		user := env.Data["user"].(map[string]any)
		assert.Equal(t, "alice@x.com", user["email"])
		assert.Equal(t, "Alice", user["name"])
		assert.NotContains(t, user, "passwordHash")
		assert.NotContains(t, user, "password")
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/auth/register", "",
			`{"email":" ALICE@x.com ","password":"password456","name":"Alice Again"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, env.Success)
		assert.Equal(t, "account already exists", env.Message)
	})

	t.Run("short password rejected with field detail", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/auth/register", "",
			`{"email":"bob@x.com","password":"short","name":"Bob"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotEmpty(t, env.Errors)
		assert.Equal(t, "password", env.Errors[0].Field)
	})

	t.Run("login", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/auth/login", "",
			`{"email":"alice@x.com","password":"password123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, env.Data["token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/auth/login", "",
			`{"email":"alice@x.com","password":"wrongpassword"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", env.Message)
	})

	t.Run("profile requires token", func(t *testing.T) {
		w, env := srv.do(t, http.MethodGet, "/api/auth/profile", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "No token provided", env.Message)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := helpers.NewJWTManager("e2e-secret", -time.Minute)
		token, _, err := expired.Generate("someone", "alice@x.com")
		require.NoError(t, err)

		w, env := srv.do(t, http.MethodGet, "/api/auth/profile", token, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token expired", env.Message)
	})

	t.Run("profile with valid token", func(t *testing.T) {
		token, userID := srv.register(t, "carol@x.com", "password123", "Carol")

		w, env := srv.do(t, http.MethodGet, "/api/auth/profile", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		user := env.Data["user"].(map[string]any)
		assert.Equal(t, userID, user["id"])
		assert.Equal(t, "carol@x.com", user["email"])
	})
}

func TestTaskFlow(t *testing.T) {
	srv := newTestServer()
	token, _ := srv.register(t, "alice@x.com", "password123", "Alice")

	var taskID string

	t.Run("create with defaults", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPost, "/api/tasks", token, `{"title":"Buy milk"}`)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())
		assert.Equal(t, "Buy milk", taskField(env, "title"))
		assert.Equal(t, "todo", taskField(env, "status"))
		assert.Equal(t, "medium", taskField(env, "priority"))
		assert.Nil(t, taskField(env, "dueDate"))
		taskID = taskField(env, "id").(string)
	})

	t.Run("create with past due date fails", func(t *testing.T) {
		yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
		body := fmt.Sprintf(`{"title":"Late","dueDate":%q}`, yesterday)
		w, env := srv.do(t, http.MethodPost, "/api/tasks", token, body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		require.NotEmpty(t, env.Errors)
		assert.Equal(t, "dueDate", env.Errors[0].Field)
	})

	t.Run("create with bad status enum fails", func(t *testing.T) {
		w, _ := srv.do(t, http.MethodPost, "/api/tasks", token, `{"title":"X","status":"started"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("list newest first", func(t *testing.T) {
		w2, _ := srv.do(t, http.MethodPost, "/api/tasks", token, `{"title":"Second","priority":"high"}`)
		require.Equal(t, http.StatusCreated, w2.Code)

		w, env := srv.do(t, http.MethodGet, "/api/tasks", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		list := env.Data["tasks"].([]any)
		require.Len(t, list, 2)
		assert.Equal(t, "Second", list[0].(map[string]any)["title"])
		assert.Equal(t, "Buy milk", list[1].(map[string]any)["title"])
	})

	t.Run("list filters compose", func(t *testing.T) {
		w, env := srv.do(t, http.MethodGet, "/api/tasks?priority=high&search=sec", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		list := env.Data["tasks"].([]any)
		require.Len(t, list, 1)
		assert.Equal(t, "Second", list[0].(map[string]any)["title"])
	})

	t.Run("list rejects unknown status value", func(t *testing.T) {
		w, _ := srv.do(t, http.MethodGet, "/api/tasks?status=started", token, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("partial update touches only sent fields", func(t *testing.T) {
		w, env := srv.do(t, http.MethodPut, "/api/tasks/"+taskID, token, `{"status":"done"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "done", taskField(env, "status"))
		assert.Equal(t, "Buy milk", taskField(env, "title"))
		assert.Equal(t, "medium", taskField(env, "priority"))
	})

	t.Run("due date set then cleared with null", func(t *testing.T) {
		future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
		w, env := srv.do(t, http.MethodPut, "/api/tasks/"+taskID, token,
			fmt.Sprintf(`{"dueDate":%q}`, future))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, future, taskField(env, "dueDate"))

		// Absent key keeps the date.
		w, env = srv.do(t, http.MethodPut, "/api/tasks/"+taskID, token, `{"title":"Buy milk"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, future, taskField(env, "dueDate"))

		// Explicit null clears it.
		w, env = srv.do(t, http.MethodPut, "/api/tasks/"+taskID, token, `{"dueDate":null}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Nil(t, taskField(env, "dueDate"))
	})

	t.Run("foreign task reads as missing", func(t *testing.T) {
		otherToken, _ := srv.register(t, "mallory@x.com", "password123", "Mallory")

		for _, probe := range []struct {
			method string
			body   string
		}{
			{http.MethodGet, ""},
			{http.MethodPut, `{"status":"done"}`},
			{http.MethodDelete, ""},
		} {
			w, env := srv.do(t, probe.method, "/api/tasks/"+taskID, otherToken, probe.body)
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", probe.method)
			assert.Equal(t, "task not found", env.Message, "method %s", probe.method)
		}
	})

	t.Run("garbled id reads as missing", func(t *testing.T) {
		w, env := srv.do(t, http.MethodGet, "/api/tasks/not-a-uuid", token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "task not found", env.Message)
	})

	t.Run("delete then gone", func(t *testing.T) {
		w, _ := srv.do(t, http.MethodDelete, "/api/tasks/"+taskID, token, "")
		require.Equal(t, http.StatusOK, w.Code)

		w, env := srv.do(t, http.MethodGet, "/api/tasks/"+taskID, token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "task not found", env.Message)

		w, _ = srv.do(t, http.MethodDelete, "/api/tasks/"+taskID, token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
