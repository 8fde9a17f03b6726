// Package view renders the console's html/template pages. Every page is
// parsed together with layout.html and the files under partials/.
package view

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-pharmacy/auth"
	"github.com/diewo77/go-pharmacy/i18n"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/validation"
)

var (
	mu       sync.RWMutex
	baseDir  string
	devMode  bool
	tplCache = map[string]*template.Template{}

	langResolver    = func(r *http.Request) string { return i18n.LangFromContext(r.Context()) }
	canResolver     func(*http.Request, string, string) bool
	isAdminResolver func(*http.Request) bool
	isStaffResolver func(*http.Request) bool
	flashResolver   func(*http.Request) any
)

// SetCanProfileResolver sets the callback behind the can template func.
func SetCanProfileResolver(f func(r *http.Request, resource, action string) bool) {
	canResolver = f
}

// SetIsAdminResolver sets the callback behind isAdmin.
func SetIsAdminResolver(f func(*http.Request) bool) { isAdminResolver = f }

// SetIsStaffResolver sets the callback behind isStaff.
func SetIsStaffResolver(f func(*http.Request) bool) { isStaffResolver = f }

// SetFlashResolver sets where the one-shot flash message comes from.
func SetFlashResolver(f func(*http.Request) any) { flashResolver = f }

// SetLangResolver overrides the request language lookup.
func SetLangResolver(f func(*http.Request) string) {
	if f != nil {
		langResolver = f
	}
}

// SetDevMode disables the template cache so edits show up on reload.
func SetDevMode(on bool) {
	mu.Lock()
	devMode = on
	mu.Unlock()
}

// SetBaseDir overrides the template directory and drops cached templates.
func SetBaseDir(path string) {
	mu.Lock()
	defer mu.Unlock()
	if path != "" {
		baseDir = filepath.Clean(path)
	}
	tplCache = map[string]*template.Template{}
}

func detectBase() string {
	for _, c := range []string{"templates", "../templates", "../../templates", "../../../templates"} {
		if fi, err := os.Stat(c); err == nil && fi.IsDir() {
			return filepath.Clean(c)
		}
	}
	return "templates"
}

// Funcs returns the template helpers bound to r. A nil request yields the
// placeholder set used at parse time.
func Funcs(r *http.Request) template.FuncMap {
	lang := i18n.DefaultLang
	if r != nil {
		lang = langResolver(r)
	}
	check := func(f func(*http.Request) bool) bool { return r != nil && f != nil && f(r) }
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"can": func(resource, action string) bool {
			return r != nil && canResolver != nil && canResolver(r, resource, action)
		},
		"isAdmin": func() bool { return check(isAdminResolver) },
		"isStaff": func() bool { return check(isStaffResolver) },
		"money":   Money,
		// errorFor returns the translated violation for field, if any.
		"errorFor": func(errs any, field string) string {
			if v, ok := errs.(validation.Violations); ok && v[field] != "" {
				return i18n.T(lang, v[field])
			}
			return ""
		},
		"shortID": ShortID,
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("2006-01-02")
			case *time.Time:
				if v != nil {
					return v.Format("2006-01-02")
				}
			case models.Date:
				return v.String()
			case *models.Date:
				if v != nil {
					return v.String()
				}
			}
			return ""
		},
		"add":  func(a, b int) int { return a + b },
		"mulf": func(a float64, b int) float64 { return a * float64(b) },
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i
			}
			return s
		},
		"year":  func() int { return time.Now().Year() },
		"asset": versionedAsset,
		// dict builds a map for passing several values to a partial.
		"dict": func(values ...any) map[string]any {
			m := make(map[string]any, len(values)/2)
			for i := 0; i+1 < len(values); i += 2 {
				if k, ok := values[i].(string); ok {
					m[k] = values[i+1]
				}
			}
			return m
		},
	}
}

// Money formats an amount in rupees.
func Money(v float64) string { return fmt.Sprintf("LKR %.2f", v) }

// ShortID is the tail of a backend id, enough to tell records apart on screen.
func ShortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

func versionedAsset(rel string) string {
	if strings.HasPrefix(rel, "http://") || strings.HasPrefix(rel, "https://") || strings.HasPrefix(rel, "//") {
		return rel
	}
	b, err := os.ReadFile(filepath.Join("static", rel))
	if err != nil {
		return "/static/" + rel
	}
	h := sha1.Sum(b)
	return fmt.Sprintf("/static/%s?v=%x", rel, h[:8])
}

func load(name string) (*template.Template, error) {
	mu.RLock()
	t, ok := tplCache[name]
	dev, dir := devMode, baseDir
	mu.RUnlock()
	if ok && !dev {
		return t, nil
	}
	if dir == "" {
		dir = detectBase()
		mu.Lock()
		baseDir = dir
		mu.Unlock()
	}
	files := []string{filepath.Join(dir, "layout.html"), filepath.Join(dir, name)}
	partials, _ := filepath.Glob(filepath.Join(dir, "partials", "*.html"))
	files = append(files, partials...)
	t, err := template.New("layout.html").Funcs(Funcs(nil)).ParseFiles(files...)
	if err != nil {
		return nil, err
	}
	if !dev {
		mu.Lock()
		tplCache[name] = t
		mu.Unlock()
	}
	return t, nil
}

// Render executes page name inside the layout with status 200.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus renders into a buffer first so a template error never leaves a
// half-written page behind.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	t, err := load(name)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	t, err = t.Clone()
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	t.Funcs(Funcs(r))

	if data == nil {
		data = map[string]any{}
	}
	u, loggedIn := auth.UserFromContext(r.Context())
	if _, ok := data["IsLoggedIn"]; !ok {
		data["IsLoggedIn"] = loggedIn
	}
	if _, ok := data["User"]; !ok && loggedIn {
		data["User"] = u
	}
	if _, ok := data["Flash"]; !ok && flashResolver != nil {
		data["Flash"] = flashResolver(r)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = io.Copy(w, &buf)
	return err
}
