// Package create реализует HTTP-обработчик оформления подписки по почте
// пользователя.
//
// Handler принимает JSON-запрос с почтой, тарифом и платформой, валидирует
// их и вызывает бизнес-логику: для пользователя с существующей записью
// подписки действие трактуется как продление, иначе вставляется новая запись.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	services "github.com/magabrotheeeer/admin-dashboard/internal/services/subscription"

	"github.com/magabrotheeeer/admin-dashboard/internal/http/middlewarectx"
	"github.com/magabrotheeeer/admin-dashboard/internal/http/response"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/plan"
	"github.com/magabrotheeeer/admin-dashboard/internal/lib/sl"
	"github.com/magabrotheeeer/admin-dashboard/internal/models"
	"github.com/magabrotheeeer/admin-dashboard/internal/storage/repository"
)

// Handler управляет HTTP-запросами на оформление подписок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Create(ctx context.Context, actor string, req models.DummySubscriptionCreate) (*services.CreateResult, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Оформляет подписку для пользователя по его почте. Существующая запись продлевается от конца периода, новая создаётся от текущего момента.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscriptionCreate true "Почта, тариф и платформа"
// @Success 200 {object} response.Response "Идентификатор записи и признак продления"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, неизвестный тариф или пользователь не найден"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при оформлении"
// @Security BearerAuth
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscriptionCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	actor, _ := r.Context().Value(middlewarectx.User).(string)
	result, err := h.service.Create(r.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProfileNotFound):
			log.Info("profile not found", slog.String("email", req.Email))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, plan.ErrUnknownPlan):
			log.Info("unknown plan", slog.String("plan", req.Plan))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("unknown plan"))
		default:
			log.Error("failed to create subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create subscription"))
		}
		return
	}

	log.Info("subscription created", slog.String("id", result.ID), slog.Bool("renewed", result.Renewed))
	render.JSON(w, r, response.OKWithData(result))
}
