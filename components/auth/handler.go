package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/macro-obs/obsportal/internal/httpflash"
	"github.com/macro-obs/obsportal/internal/store"
	"github.com/macro-obs/obsportal/pkg/render"
)

type handler struct {
	opts    Options
	limiter *loginLimiter
}

func newHandler(opts Options) *handler {
	return &handler{
		opts:    opts,
		limiter: newLoginLimiter(opts.LoginRate, opts.LoginBurst),
	}
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderLogin(w, r, http.StatusOK, nil, nil)
	case http.MethodPost:
		h.handleLogin(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r) {
		http.Error(w, "too many login attempts, slow down", http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	password := r.PostFormValue("password")

	user, err := h.opts.Store.UserByEmail(r.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		h.renderLogin(w, r, http.StatusUnprocessableEntity,
			map[string]string{"email": email},
			map[string][]string{"password": {"Unknown email or wrong password."}})
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		h.renderLogin(w, r, http.StatusUnprocessableEntity,
			map[string]string{"email": email},
			map[string][]string{"password": {"Unknown email or wrong password."}})
		return
	}

	if err := h.opts.Sessions.Issue(w, user); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	httpflash.Set(w, "Welcome back, "+user.FirstName+".")
	http.Redirect(w, r, h.opts.AfterLogin, http.StatusSeeOther)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderRegister(w, r, http.StatusOK, nil, nil)
	case http.MethodPost:
		h.handleRegister(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	firstName := strings.TrimSpace(r.PostFormValue("first_name"))
	lastName := strings.TrimSpace(r.PostFormValue("last_name"))
	email := strings.ToLower(strings.TrimSpace(r.PostFormValue("email")))
	institution := strings.TrimSpace(r.PostFormValue("institution"))
	password := r.PostFormValue("password")
	confirm := r.PostFormValue("confirm_password")

	values := map[string]string{
		"first_name":  firstName,
		"last_name":   lastName,
		"email":       email,
		"institution": institution,
	}
	fieldErrors := map[string][]string{}

	if firstName == "" {
		fieldErrors["first_name"] = append(fieldErrors["first_name"], "First name is required.")
	}
	if lastName == "" {
		fieldErrors["last_name"] = append(fieldErrors["last_name"], "Last name is required.")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		fieldErrors["email"] = append(fieldErrors["email"], "A valid email address is required.")
	}
	if len(password) < h.opts.MinPasswordLength {
		fieldErrors["password"] = append(fieldErrors["password"], "Password is too short.")
	}
	if confirm != password {
		fieldErrors["confirm_password"] = append(fieldErrors["confirm_password"], "Passwords do not match.")
	}

	if len(fieldErrors) == 0 {
		taken, err := h.opts.Store.EmailTaken(r.Context(), email)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		if taken {
			fieldErrors["email"] = append(fieldErrors["email"], "An account already exists for this email.")
		}
	}

	if len(fieldErrors) > 0 {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, values, fieldErrors)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	user := &store.User{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: string(hash),
		Institution:  institution,
	}
	if err := h.opts.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fieldErrors["institution"] = append(fieldErrors["institution"], "Pick one of the listed institutions.")
			h.renderRegister(w, r, http.StatusUnprocessableEntity, values, fieldErrors)
			return
		}
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if err := h.opts.Sessions.Issue(w, user); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	httpflash.Set(w, "Account created. Your observer code is "+user.ObserverCode+".")
	http.Redirect(w, r, h.opts.AfterLogin, http.StatusSeeOther)
}

// account shows the viewer's stored details. The route is wrapped in
// RequireLogin, so a viewer is always on the context here.
func (h *handler) account(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	viewer, _ := ViewerFrom(r.Context())
	user, err := h.opts.Store.UserByEmail(r.Context(), viewer.Email)
	if errors.Is(err, store.ErrNotFound) {
		// Session outlived the account; drop it.
		h.opts.Sessions.Clear(w)
		http.Redirect(w, r, h.opts.LoginPath, http.StatusSeeOther)
		return
	}
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := render.Page{
		Name:  "account",
		Title: "Account",
		Data:  map[string]any{"account": user},
	}
	h.renderPage(w, r, http.StatusOK, page, nil, nil)
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	h.opts.Sessions.Clear(w)
	httpflash.Set(w, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handler) renderLogin(w http.ResponseWriter, r *http.Request, status int, values map[string]string, fieldErrors map[string][]string) {
	page := render.Page{Name: "login", Title: "Log in"}
	h.renderPage(w, r, status, page, values, fieldErrors)
}

func (h *handler) renderRegister(w http.ResponseWriter, r *http.Request, status int, values map[string]string, fieldErrors map[string][]string) {
	institutions, err := h.opts.Store.Institutions(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := render.Page{
		Name:  "register",
		Title: "Register",
		Data:  map[string]any{"institutions": institutions},
	}
	h.renderPage(w, r, status, page, values, fieldErrors)
}

func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page render.Page, values map[string]string, fieldErrors map[string][]string) {
	viewer, _ := ViewerFrom(r.Context())
	options := render.Options{
		Values:  values,
		Errors:  fieldErrors,
		Flashes: httpflash.Take(w, r),
		Viewer:  viewer,
	}

	body, err := h.opts.Renderer.Render(r.Context(), page, options)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.opts.Renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
