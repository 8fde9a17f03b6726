package handlers

import (
	"net/http"
	"sort"

	"github.com/diewo77/go-pharmacy/httpx"
	"github.com/diewo77/go-pharmacy/internal/models"
	"github.com/diewo77/go-pharmacy/internal/pharmacy"
)

type UserHandler struct {
	api *pharmacy.Client
}

func NewUserHandler(api *pharmacy.Client) *UserHandler {
	return &UserHandler{api: api}
}

// List shows all users, optionally filtered by ?type=.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := client(h.api, r).ListUsers(r.Context())
	if err != nil {
		fail(w, r, err, "/")
		return
	}
	filter := models.UserType(r.URL.Query().Get("type"))
	if filter != "" {
		kept := users[:0]
		for _, u := range users {
			if u.UserType == filter {
				kept = append(kept, u)
			}
		}
		users = kept
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, users)
		return
	}
	render(w, r, http.StatusOK, "admin/users.html", map[string]any{
		"Users":  users,
		"Filter": filter,
		"Types":  []models.UserType{models.UserTypeClient, models.UserTypePharmacist, models.UserTypeAdmin},
	})
}
