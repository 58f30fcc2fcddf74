/*
Package handler provides HTTP handler functions for expert discovery and search.
*/
package handler

import (
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SADD1990/kkhebrah/internal/pkg/errs"
	"github.com/SADD1990/kkhebrah/internal/pkg/resp"
)

// DefaultInterest seeds the recommendation feed when the client does not name
// an interest.
const DefaultInterest = "ريادة الأعمال"

// HandleRecommendations serves the AI-generated expert feed for an interest.
// The feed is ephemeral and never empty: on model failure a static sample
// derived from the interest is served instead.
func HandleRecommendations(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interest := strings.TrimSpace(r.URL.Query().Get("interest"))
		if interest == "" {
			interest = DefaultInterest
		}

		recommendations := deps.Gateway.Recommendations(r.Context(), interest)

		resp.RespondSuccess(w, r, map[string]any{
			"recommendations": recommendations,
		})
	}
}

// HandleSearch serves expert results for a free-text query. The query doubles
// as the recommendation interest; `sort=newest` reorders the results randomly,
// while the default smart order keeps the model's ranking.
func HandleSearch(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawQuery := chi.URLParam(r, "query")

		query, err := url.PathUnescape(rawQuery)
		if err != nil {
			query = rawQuery
		}

		query = strings.TrimSpace(query)
		if query == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		results := deps.Gateway.Recommendations(r.Context(), query)

		if r.URL.Query().Get("sort") == "newest" {
			rand.Shuffle(len(results), func(i, j int) {
				results[i], results[j] = results[j], results[i]
			})
		}

		resp.RespondSuccess(w, r, map[string]any{
			"results": results,
		})
	}
}

// HandleGetExpert serves one expert profile from the static directory.
// Unknown identifiers resolve to the default demo expert so expert pages
// always render.
func HandleGetExpert(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		expert := deps.Experts.Lookup(id)

		resp.RespondSuccess(w, r, map[string]any{
			"expert": expert,
		})
	}
}
