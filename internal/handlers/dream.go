package handlers

import (
	"DreamInterpreter/internal/middleware"
	"DreamInterpreter/internal/service"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

const (
	msgDreamSaved  = "Dream submitted successfully!"
	msgLoginToSave = "Please log in to save your dreams."
	dreamPageTitle = "Interpret a dream"
)

// DreamHandler форма отправки сна.
type DreamHandler struct {
	DreamService *service.DreamService
	Interpreter  Interpreter
	Logger       *zap.SugaredLogger

	views *renderer
}

func NewDreamHandler(dreamService *service.DreamService, interpreter Interpreter, views *renderer, logger *zap.SugaredLogger) *DreamHandler {
	return &DreamHandler{DreamService: dreamService, Interpreter: interpreter, Logger: logger, views: views}
}

type dreamView struct {
	page
	Form           dreamForm
	Errors         FieldErrors
	Interpretation string
	Saved          bool
}

// Submit показывает форму любому посетителю; интерпретация сохраняется только для вошедших.
func (h *DreamHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, loggedIn := middleware.GetUserIDFromContext(r.Context())
	view := dreamView{page: page{Title: dreamPageTitle, LoggedIn: loggedIn, UserID: userID, Flash: popFlash(w, r)}}

	if r.Method != http.MethodPost {
		h.views.render(w, http.StatusOK, "dream.html", view)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	view.Form = dreamForm{DreamDescription: strings.TrimSpace(r.PostFormValue("dream_description"))}
	if errs := validateForm(view.Form); errs != nil {
		view.Errors = errs
		h.views.render(w, http.StatusOK, "dream.html", view)
		return
	}

	view.Interpretation = h.Interpreter.Interpret(r.Context(), view.Form.DreamDescription)

	if !loggedIn {
		view.Flash = msgLoginToSave
		h.views.render(w, http.StatusOK, "dream.html", view)
		return
	}

	d, err := h.DreamService.Save(r.Context(), userID, view.Form.DreamDescription, view.Interpretation)
	if err != nil {
		h.Logger.Errorw("Submit: save failed", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	h.Logger.Infow("Dream saved", "user_id", userID, "dream_id", d.ID)

	view.Saved = true
	view.Flash = msgDreamSaved
	h.views.render(w, http.StatusOK, "dream.html", view)
}
