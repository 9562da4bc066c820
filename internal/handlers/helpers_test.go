package handlers_test

import (
	"DreamInterpreter/internal/config"
	"DreamInterpreter/internal/handlers"
	"DreamInterpreter/internal/middleware"
	"DreamInterpreter/internal/model"
	"DreamInterpreter/internal/repo"
	"DreamInterpreter/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// Minimal mocks
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockDreamRepo struct{ mock.Mock }

func (m *mockDreamRepo) Create(ctx context.Context, d *model.Dream) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDreamRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]model.Dream, error) {
	args := m.Called(ctx, userID, limit, offset)
	if v, ok := args.Get(0).([]model.Dream); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDreamRepo) CountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

var _ repo.DreamRepository = (*mockDreamRepo)(nil)

// stubInterpreter возвращает фиксированный текст и запоминает описания
type stubInterpreter struct {
	mu    sync.Mutex
	reply string
	calls []string
}

func (s *stubInterpreter) Interpret(_ context.Context, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, description)
	return s.reply
}

func (s *stubInterpreter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

type testEnv struct {
	router  http.Handler
	users   *mockUserRepo
	dreams  *mockDreamRepo
	interp  *stubInterpreter
	healthy error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:  &mockUserRepo{},
		dreams: &mockDreamRepo{},
		interp: &stubInterpreter{reply: "It means Y."},
	}
	cfg := &config.Config{AuthSecret: testSecret, PageSize: 5}
	logger := zap.NewNop().Sugar()

	userSvc := service.NewUserService(env.users, bcrypt.MinCost)
	dreamSvc := service.NewDreamService(env.dreams, cfg.PageSize)
	health := func(context.Context) error { return env.healthy }

	h := handlers.NewHandler(userSvc, dreamSvc, env.interp, health, logger, cfg)
	env.router = h.Router
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func addAuthCookie(t *testing.T, req *http.Request, userID int64) {
	t.Helper()
	rr := httptest.NewRecorder()
	if err := middleware.SetLoginCookie(rr, userID, testSecret); err != nil {
		t.Fatalf("SetLoginCookie: %v", err)
	}
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
