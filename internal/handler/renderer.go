package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/DukeRupert/authui/internal/notify"
	"github.com/DukeRupert/authui/internal/templ/components/toast"
)

// Renderer manages template parsing and rendering with isolated template sets.
// Every page uses the "auth" layout.
//
// Templates are organized as:
//   - layouts/auth.html - base layout with header, footer and toast container
//   - components/*.html - reusable components
//   - partials/*.html - standalone fragments for htmx responses
//   - pages/auth/*.html - pages (use auth layout)
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
	isDev     bool
	mu        sync.RWMutex

	fsys fs.FS
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// FS holds the templates, usually web.Templates().
	FS fs.FS
	// TemplatesDir overrides FS with a directory on disk.
	TemplatesDir string
	Logger       *slog.Logger
	// IsDev reloads templates on every render.
	IsDev bool
}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	fsys := cfg.FS
	if cfg.TemplatesDir != "" {
		fsys = os.DirFS(cfg.TemplatesDir)
	}
	if fsys == nil {
		return nil, fmt.Errorf("renderer: no template source configured")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		logger:    cfg.Logger,
		isDev:     cfg.IsDev,
		fsys:      fsys,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	fsys := r.fsys
	templates := make(map[string]*template.Template)

	// Get component templates - recursively from all subdirs
	var componentFiles []string
	err := fs.WalkDir(fsys, "components", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".html") {
			componentFiles = append(componentFiles, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk components dir: %w", err)
	}

	// Get partial templates (standalone fragments for htmx)
	partialFiles, err := fs.Glob(fsys, "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob partials: %w", err)
	}

	// Parse each partial as a standalone template
	for _, partial := range partialFiles {
		partialTmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(fsys, partial)
		if err != nil {
			return fmt.Errorf("failed to parse partial %s: %w", partial, err)
		}

		// Store with base name as key (e.g., "auth_card" for "auth_card.html")
		templates["partial/"+baseName(partial)] = partialTmpl
	}

	// Parse auth layout
	authBaseTmpl, err := template.New("auth").Funcs(TemplateFuncs()).ParseFS(fsys, "layouts/auth.html")
	if err != nil {
		return fmt.Errorf("failed to parse auth layout: %w", err)
	}

	// Parse components into auth layout
	if len(componentFiles) > 0 {
		authBaseTmpl, err = authBaseTmpl.ParseFS(fsys, componentFiles...)
		if err != nil {
			return fmt.Errorf("failed to parse components into auth layout: %w", err)
		}
	}

	// Parse partials into auth layout (so pages can use {{template "partial_name"}})
	if len(partialFiles) > 0 {
		authBaseTmpl, err = authBaseTmpl.ParseFS(fsys, partialFiles...)
		if err != nil {
			return fmt.Errorf("failed to parse partials into auth layout: %w", err)
		}
	}

	authPages, err := fs.Glob(fsys, "pages/auth/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob auth pages: %w", err)
	}

	for _, page := range authPages {
		pageTmpl, err := authBaseTmpl.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone auth template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(fsys, page)
		if err != nil {
			return fmt.Errorf("failed to parse auth page %s: %w", page, err)
		}

		// Store as "auth/form", "auth/success", etc.
		templates["auth/"+baseName(page)] = pageTmpl
	}

	r.templates = templates
	r.logger.Debug("templates loaded", "count", len(templates))
	return nil
}

func baseName(p string) string {
	name := path.Base(p)
	return strings.TrimSuffix(name, path.Ext(name))
}

// Reload reloads all templates from the source. Useful for development.
func (r *Renderer) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadTemplates()
}

func (r *Renderer) lookup(name string) (*template.Template, error) {
	// In dev mode, reload templates on each request
	if r.isDev {
		if err := r.Reload(); err != nil {
			return nil, fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	return tmpl, nil
}

// Render renders a page template to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, err := r.lookup(name)
	if err != nil {
		return err
	}
	return tmpl.ExecuteTemplate(w, r.getBaseTemplateName(name), data)
}

// RenderHTTP renders a page template directly to an http.ResponseWriter.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a page template with the given status code.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	// Render to buffer first to catch errors before writing headers
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderPartial renders a partial template (for htmx responses).
// The partial file should contain {{define "name"}}...{{end}} where name matches the file name.
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) {
	r.RenderPartialWithToasts(w, http.StatusOK, name, data, nil)
}

// RenderPartialWithToasts renders a partial and appends the notifications as
// an out-of-band swap into the toast container.
func (r *Renderer) RenderPartialWithToasts(w http.ResponseWriter, status int, name string, data interface{}, notes []notify.Notification) {
	tmpl, err := r.lookup("partial/" + name)
	if err != nil {
		r.logger.Error("partial template not found", "name", name, "error", err)
		http.Error(w, "Partial not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		r.logger.Error("partial execution failed", "name", name, "error", err)
		http.Error(w, "Partial execution failed", http.StatusInternalServerError)
		return
	}

	if err := toast.List(notes, true).Render(context.Background(), &buf); err != nil {
		r.logger.Error("toast rendering failed", "name", name, "error", err)
		http.Error(w, "Partial execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderToasts writes only the out-of-band toast fragment.
func (r *Renderer) RenderToasts(w http.ResponseWriter, notes []notify.Notification) {
	var buf bytes.Buffer
	if err := toast.List(notes, true).Render(context.Background(), &buf); err != nil {
		r.logger.Error("toast rendering failed", "error", err)
		http.Error(w, "Toast rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// getBaseTemplateName determines which base template to execute.
func (r *Renderer) getBaseTemplateName(name string) string {
	switch {
	case strings.HasPrefix(name, "partial/"):
		return path.Base(name)
	default:
		return "auth"
	}
}

// ListTemplates returns the sorted names of all loaded templates.
// Useful for debugging.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
