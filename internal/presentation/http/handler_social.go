package httppresentation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	domsocial "github.com/corpz/marketplace/internal/domain/social"
)

type favoriteResponse struct {
	ItemID    string    `json:"item_id"`
	CreatedAt time.Time `json:"created_at"`
}

type followResponse struct {
	FollowerID string    `json:"follower_id"`
	FolloweeID string    `json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *Handler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	fav, err := h.social.Favorite(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "itemID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, favoriteResponse{ItemID: fav.ItemID, CreatedAt: fav.CreatedAt})
}

func (h *Handler) handleUnfavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.social.Unfavorite(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "itemID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.social.ListFavorites(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]favoriteResponse, 0, len(favs))
	for _, f := range favs {
		out = append(out, favoriteResponse{ItemID: f.ItemID, CreatedAt: f.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) handleFollow(w http.ResponseWriter, r *http.Request) {
	edge, err := h.social.Follow(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "userID"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFollowResponse(edge))
}

func (h *Handler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	if err := h.social.Unfollow(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "userID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListFollowing(w http.ResponseWriter, r *http.Request) {
	edges, err := h.social.ListFollowing(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFollowResponses(edges))
}

func (h *Handler) handleListFollowers(w http.ResponseWriter, r *http.Request) {
	edges, err := h.social.ListFollowers(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFollowResponses(edges))
}

func toFollowResponse(f *domsocial.Follow) followResponse {
	return followResponse{FollowerID: f.FollowerID, FolloweeID: f.FolloweeID, CreatedAt: f.CreatedAt}
}

func toFollowResponses(edges []*domsocial.Follow) []followResponse {
	out := make([]followResponse, 0, len(edges))
	for _, f := range edges {
		out = append(out, toFollowResponse(f))
	}
	return out
}
