package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/gate"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
)

// GateMiddleware blocks the request when the caller's plan or usage does
// not allow the action. The gate itself only returns booleans; the reason
// is fetched separately, after the denial.
func GateMiddleware(db *gorm.DB, g *gate.Gate, action gate.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.MustGet(ContextUserID).(uint)

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "user_not_found"})
			return
		}

		if !g.Allowed(c.Request.Context(), &user, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "plan_restricted",
				"message": g.RestrictionReason(c.Request.Context(), &user, action),
			})
			return
		}

		c.Next()
	}
}
