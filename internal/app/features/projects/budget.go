// internal/app/features/projects/budget.go
package projects

import (
	"net/http"

	"github.com/taskhive/taskhive/internal/app/policy/projectpolicy"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ServeBudget handles GET /api/projects/{id}/budget.
func (h *Handler) ServeBudget(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "view budget")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	team := h.owningTeam(ctx, project)
	if d := projectpolicy.CanView(u, project, team); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{
		"budget": map[string]any{
			"totalBudget": project.TotalBudget,
			"spent":       project.Spent,
			"remaining":   project.TotalBudget - project.Spent,
		},
	})
}

type updateBudgetRequest struct {
	TotalBudget *float64 `json:"totalBudget"`
	AddSpent    *float64 `json:"addSpent"`
}

// HandleUpdateBudget handles PUT /api/projects/{id}/budget. The total
// can be set outright; spend is only ever added, via an atomic
// increment, so concurrent expense postings do not clobber each other.
func (h *Handler) HandleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateBudgetRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TotalBudget == nil && req.AddSpent == nil {
		httpjson.Error(w, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.TotalBudget != nil && *req.TotalBudget < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Budget cannot be negative")
		return
	}
	if req.AddSpent != nil && *req.AddSpent < 0 {
		httpjson.Error(w, http.StatusBadRequest, "Spent amount cannot be negative")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update budget")
	defer cancel()

	project, ok := h.loadProject(ctx, w, r)
	if !ok {
		return
	}
	if d := projectpolicy.CanEdit(u, project); !d.Allowed {
		httpjson.Error(w, http.StatusForbidden, d.Reason)
		return
	}

	if req.TotalBudget != nil {
		if err := h.projects.UpdateFields(ctx, project.ID, bson.M{"total_budget": *req.TotalBudget}); err != nil {
			h.Log.Error("projects: budget update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not update budget")
			return
		}
	}
	if req.AddSpent != nil && *req.AddSpent > 0 {
		if err := h.projects.AddSpent(ctx, project.ID, *req.AddSpent); err != nil {
			h.Log.Error("projects: recording spend failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "Could not update budget")
			return
		}
	}

	project, err := h.projects.GetByID(ctx, project.ID)
	if err != nil {
		h.Log.Error("projects: reload after budget update failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not update budget")
		return
	}

	httpjson.OK(w, http.StatusOK, map[string]any{
		"budget": map[string]any{
			"totalBudget": project.TotalBudget,
			"spent":       project.Spent,
			"remaining":   project.TotalBudget - project.Spent,
		},
	})
}
