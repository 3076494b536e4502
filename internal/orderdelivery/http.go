// Package orderdelivery manages delivery layer of orders.
package orderdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/errorspkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/web"
)

// Object names reported in validation envelopes.
const (
	newOrderObject    = "newOrderRequest"
	getOrderObject    = "getOrderRequest"
	updateOrderObject = "updateOrderRequest"
)

// Service provides service layer interface needed by order delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package orderdelivery
type Service interface {
	Create(ctx context.Context, customer string, items []string) (domain.Order, error)
	Get(ctx context.Context, id int64) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateState(ctx context.Context, id int64, state string) (domain.Order, error)
}

// Handler facilitates order delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns order handler.
func NewHandler(os Service) Handler {
	return Handler{service: os}
}

type data struct {
	Order domain.Order `json:"order"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	Customer string   `json:"customer" binding:"required"`
	Items    []string `json:"items" binding:"required,min=1,dive,required"`
}

// Create handles http request to place an order for the named coffees.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		if vs, ok := web.Violations(err); ok {
			l.Info().Int("error_count", len(vs)).Msg("invalid new order request")
			gctx.JSON(http.StatusBadRequest,
				web.BuildValidationError(newOrderObject, vs, gctx.Request.URL.Path))

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	createdOrder, err := h.service.Create(ctx, req.Customer, req.Items)
	if err != nil {
		if err == domain.ErrCoffeeNotFound {
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{createdOrder},
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get one order by id.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		if vs, ok := web.Violations(err); ok {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest,
				web.BuildValidationError(getOrderObject, vs, gctx.Request.URL.Path))

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	order, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrOrderNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{order},
	}

	gctx.JSON(http.StatusOK, res)
}

type dataOrders struct {
	Orders []domain.Order `json:"orders"`
}
type responseOrders struct {
	Data dataOrders `json:"data,omitempty"`
}

// List handles http request to list all orders.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	orders, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := responseOrders{
		Data: dataOrders{orders},
	}

	gctx.JSON(http.StatusOK, res)
}

type updateStateRequest struct {
	State string `json:"state" binding:"required"`
}

// UpdateState handles http request to move an order through its lifecycle.
func (h *Handler) UpdateState(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri getRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		if vs, ok := web.Violations(err); ok {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest,
				web.BuildValidationError(updateOrderObject, vs, gctx.Request.URL.Path))

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	var req updateStateRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		if vs, ok := web.Violations(err); ok {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest,
				web.BuildValidationError(updateOrderObject, vs, gctx.Request.URL.Path))

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	order, err := h.service.UpdateState(ctx, uri.ID, req.State)
	if err != nil {
		switch err {
		case domain.ErrOrderNotFound:
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		case domain.ErrUnknownOrderState, domain.ErrInvalidStateTransition:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{order},
	}

	gctx.JSON(http.StatusOK, res)
}
