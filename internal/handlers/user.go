package handlers

import (
	"DreamInterpreter/internal/config"
	"DreamInterpreter/internal/middleware"
	"DreamInterpreter/internal/model"
	"DreamInterpreter/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgUsernameTaken      = "Username already taken. Please choose a different one."
	msgEmailTaken         = "Email already registered. Please use a different one."
	msgInvalidCredentials = "Invalid username/password."
	msgGoodbye            = "Goodbye!"
	msgPasswordTooLong    = "Field cannot be longer than 72 bytes."
)

// UserHandler регистрация, вход, выход и профиль.
type UserHandler struct {
	UserService  *service.UserService
	DreamService *service.DreamService
	Logger       *zap.SugaredLogger
	Config       *config.Config

	views      *renderer
	cookieOpts []middleware.CookieOption
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(
	userService *service.UserService,
	dreamService *service.DreamService,
	views *renderer,
	logger *zap.SugaredLogger,
	cfg *config.Config,
	cookieOpts []middleware.CookieOption,
) *UserHandler {
	return &UserHandler{
		UserService:  userService,
		DreamService: dreamService,
		Logger:       logger,
		Config:       cfg,
		views:        views,
		cookieOpts:   cookieOpts,
	}
}

type registerView struct {
	page
	Form   registerForm
	Errors FieldErrors
}

type loginView struct {
	page
	Form   loginForm
	Errors FieldErrors
}

type profileView struct {
	page
	User   *model.User
	Dreams service.DreamPage
}

// Register форма регистрации и её обработка.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if uid, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, profileURL(uid), http.StatusSeeOther)
		return
	}

	view := registerView{page: page{Title: "Register", Flash: popFlash(w, r)}}
	if r.Method != http.MethodPost {
		h.views.render(w, http.StatusOK, "register.html", view)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view.Form = registerForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
	}
	if errs := validateForm(view.Form); errs != nil {
		view.Form.Password = ""
		view.Errors = errs
		h.views.render(w, http.StatusOK, "register.html", view)
		return
	}

	user, err := h.UserService.Register(r.Context(), view.Form.Username, view.Form.Email, view.Form.Password)
	view.Form.Password = ""
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		view.Errors = FieldErrors{"email": {msgEmailTaken}}
		h.views.render(w, http.StatusOK, "register.html", view)
		return
	case errors.Is(err, service.ErrDuplicateIdentity):
		view.Errors = FieldErrors{"username": {msgUsernameTaken}}
		h.views.render(w, http.StatusOK, "register.html", view)
		return
	case errors.Is(err, service.ErrPasswordTooLong):
		view.Errors = FieldErrors{"password": {msgPasswordTooLong}}
		h.views.render(w, http.StatusOK, "register.html", view)
		return
	case err != nil:
		h.Logger.Errorw("Register: service error", "username", view.Form.Username, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret, h.cookieOpts...); err != nil {
		h.Logger.Errorw("Register: failed to set session", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("User registered", "user_id", user.ID)
	http.Redirect(w, r, profileURL(user.ID), http.StatusSeeOther)
}

// Login форма входа и её обработка.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	view := loginView{page: page{Title: "Login", Flash: popFlash(w, r)}}
	if r.Method != http.MethodPost {
		h.views.render(w, http.StatusOK, "login.html", view)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	form := loginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	view.Form = loginForm{Username: form.Username}
	if errs := validateForm(form); errs != nil {
		view.Errors = errs
		h.views.render(w, http.StatusOK, "login.html", view)
		return
	}

	user, err := h.UserService.Authenticate(r.Context(), form.Username, form.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		view.Errors = FieldErrors{"username": {msgInvalidCredentials}}
		h.views.render(w, http.StatusOK, "login.html", view)
		return
	}
	if err != nil {
		h.Logger.Errorw("Login: service error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := middleware.SetLoginCookie(w, user.ID, h.Config.AuthSecret, h.cookieOpts...); err != nil {
		h.Logger.Errorw("Login: failed to set session", "user_id", user.ID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, profileURL(user.ID), http.StatusSeeOther)
}

// Logout завершает сессию в любом состоянии.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearLoginCookie(w, h.cookieOpts...)
	setFlash(w, msgGoodbye)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Profile страница пользователя со списком снов. Доступна только владельцу.
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	// проверка владельца до любого чтения данных
	if err := middleware.RequireOwner(r, id); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetByID(r.Context(), id)
	if errors.Is(err, service.ErrUserNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.Logger.Errorw("Profile: get user failed", "user_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	dreams, err := h.DreamService.ListForUser(r.Context(), id, pageParam(r))
	if err != nil {
		h.Logger.Errorw("Profile: list dreams failed", "user_id", id, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	h.views.render(w, http.StatusOK, "profile.html", profileView{
		page:   page{Title: user.Username, LoggedIn: true, UserID: id, Flash: popFlash(w, r)},
		User:   user,
		Dreams: dreams,
	})
}

// pageParam номер страницы из ?page=, по умолчанию 1.
func pageParam(r *http.Request) int {
	p, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

func profileURL(id int64) string {
	return fmt.Sprintf("/users/%d", id)
}
