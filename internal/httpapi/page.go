package httpapi

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"regexp"

	"task-manager/internal/view"
)

//go:embed templates/index.html
var templateFS embed.FS

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	// color passes category colors into the style attribute. Anything that is
	// not a hex color renders as nothing.
	"color": func(s string) template.CSS {
		if hexColor.MatchString(s) {
			return template.CSS(s)
		}
		return ""
	},
}).ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Draft      view.Draft
	Categories []view.CategoryOption
	List       view.ListState
}

// page renders the form and the task list.
func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	ctrl := view.NewController(h.tasks)
	ctrl.Mount(r.Context())
	h.render(w, http.StatusOK, ctrl)
}

// submit creates a task from the posted form. A rejected draft is rendered
// back with the user's input kept.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctrl := view.NewController(h.tasks)
	for _, field := range []string{view.FieldTitle, view.FieldDescription, view.FieldCategory} {
		ctrl.Dispatch(view.FieldChanged{Field: field, Value: r.PostForm.Get(field)})
	}

	if _, err := ctrl.Submit(r.Context()); err != nil {
		ctrl.Refresh(r.Context())
		h.render(w, http.StatusUnprocessableEntity, ctrl)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctrl *view.Controller, id uint) error {
		return ctrl.Toggle(r.Context(), id)
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctrl *view.Controller, id uint) error {
		return ctrl.Delete(r.Context(), id)
	})
}

// mutate runs one list action and sends the browser back to the page.
// A failed action leaves the list as stored and still redirects.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, action func(*view.Controller, uint) error) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	ctrl := view.NewController(h.tasks)
	ctrl.Mount(r.Context())
	if err := action(ctrl, id); err != nil {
		log.Printf("[info] %s %s not applied: %v", r.Method, r.URL.Path, err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, status int, ctrl *view.Controller) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := pageData{
		Draft:      ctrl.Draft(),
		Categories: view.Categories,
		List:       ctrl.List(),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		log.Printf("[error] render page: %v", err)
	}
}
