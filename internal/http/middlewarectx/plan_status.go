package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/level-4u/level-backend/internal/http/response"
	"github.com/level-4u/level-backend/internal/lib/sl"
	"github.com/level-4u/level-backend/internal/models"
)

// PlanInfoProvider определяет интерфейс для получения тарифной сводки пользователя.
type PlanInfoProvider interface {
	GetPlanInfo(ctx context.Context, userUID string) (*models.PlanInfo, error)
}

// PlanStatusMiddleware создает middleware для проверки состояния тарифа пользователя.
// Когда тариф истёк и пробный период закончился, изменяющие операции кабинета
// запрещаются до продления.
func PlanStatusMiddleware(log *slog.Logger, planService PlanInfoProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			info, err := planService.GetPlanInfo(r.Context(), userUID)
			if err != nil {
				log.Error("failed to get plan info", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			if info.UpgradeRequired() {
				log.Error("plan expired, access denied")
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("plan expired, access denied"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
