package handlers

import (
	"net/http"

	"github.com/avshev/prediction-league/middleware"
	"github.com/avshev/prediction-league/services"
)

// BracketHandler serves the derived tournament views: the projected bracket,
// group standings and the leaderboard. The "view" query parameter switches
// between the real view (confirmed results only) and the predicted view, which
// additionally treats the caller's own bets as results.
type BracketHandler struct {
	projectionService  services.ProjectionService
	leaderboardService services.LeaderboardService
}

func NewBracketHandler(projectionService services.ProjectionService, leaderboardService services.LeaderboardService) *BracketHandler {
	return &BracketHandler{
		projectionService:  projectionService,
		leaderboardService: leaderboardService,
	}
}

// predictedView reports whether the caller asked for the predicted view and
// resolves who the caller is. The real view works without authentication.
func predictedView(r *http.Request) (bool, int, error) {
	if r.URL.Query().Get("view") != "predicted" {
		return false, 0, nil
	}
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		return false, 0, err
	}
	return true, userID, nil
}

func (h *BracketHandler) GetBracket(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	includePredictions, userID, err := predictedView(r)
	if err != nil {
		unauthorizedResponse(w, r, "the predicted view requires authentication")
		return
	}

	matches, err := h.projectionService.ProjectBracket(r.Context(), tournamentID, userID, includePredictions)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"matches": matches}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	includePredictions, userID, err := predictedView(r)
	if err != nil {
		unauthorizedResponse(w, r, "the predicted view requires authentication")
		return
	}

	standings, err := h.projectionService.Standings(r.Context(), tournamentID, userID, includePredictions)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *BracketHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	entries, err := h.leaderboardService.Tournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
