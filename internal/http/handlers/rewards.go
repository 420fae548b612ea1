package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"focusflow/internal/catalog"
	"focusflow/internal/domain"
)

// rewardView pairs a catalog entry with the user's unlock state.
type rewardView struct {
	domain.RewardDefinition
	Unlocked bool `json:"unlocked"`
}

func (h *Handler) listRewards(c *gin.Context, kind domain.RewardKind) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	var views []rewardView
	for _, def := range catalog.Rewards() {
		if def.Kind != kind {
			continue
		}
		views = append(views, rewardView{RewardDefinition: def, Unlocked: user.HasUnlocked(def.ID)})
	}
	c.JSON(http.StatusOK, gin.H{string(kind) + "s": views})
}

func (h *Handler) ListAchievements(c *gin.Context) {
	h.listRewards(c, domain.RewardAchievement)
}

func (h *Handler) ListBadges(c *gin.Context) {
	h.listRewards(c, domain.RewardBadge)
}

// GetFeatures returns the premium feature flags for the user's tier; free
// users see every gated feature listed but disabled.
func (h *Handler) GetFeatures(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, err := h.Users.Get(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tier":     user.SubscriptionTier,
		"features": catalog.FeatureFlags(user.SubscriptionTier),
	})
}

// GetTheme returns today's weekday color theme.
func (h *Handler) GetTheme(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.ThemeForDay(time.Now().UTC()))
}

// ListChallenges returns the daily challenge rotation.
func (h *Handler) ListChallenges(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"challenges": catalog.Challenges()})
}

// GetDailyChallenges returns today's challenge progress for the user.
func (h *Handler) GetDailyChallenges(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	statuses, err := h.Users.DailyChallenges(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"daily_challenges": statuses})
}
