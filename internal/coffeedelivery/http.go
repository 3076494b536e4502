// Package coffeedelivery manages delivery layer of coffees.
package coffeedelivery

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/domain"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/errorspkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/web"
)

// Object names reported in validation envelopes.
const (
	newCoffeeObject = "newCoffeeRequest"
	getCoffeeObject = "getCoffeeRequest"
)

// Service provides service layer interface needed by coffee delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package coffeedelivery
type Service interface {
	Create(ctx context.Context, name string, price moneypkg.Money) (domain.Coffee, error)
	BatchCreate(ctx context.Context, items []domain.CreateCoffeeParams) ([]domain.Coffee, error)
	Get(ctx context.Context, id int64) (domain.Coffee, error)
	GetByName(ctx context.Context, name string) (domain.Coffee, error)
	List(ctx context.Context) ([]domain.Coffee, error)
}

// Handler facilitates coffee delivery layer logic.
type Handler struct {
	service Service
	codec   moneypkg.Codec
}

// NewHandler returns coffee handler.
func NewHandler(cs Service, codec moneypkg.Codec) Handler {
	return Handler{service: cs, codec: codec}
}

type data struct {
	Coffee domain.Coffee `json:"coffee"`
}
type response struct {
	Data data `json:"data,omitempty"`
}

type createRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Price string `json:"price" form:"price" binding:"required"`
}

// Create handles http request to add a coffee. It accepts JSON and form
// encoded bodies alike; the price arrives as raw text and goes through the
// money codec. All field problems of one request are reported together.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var (
		req        createRequest
		violations []web.Violation
	)

	if err := gctx.ShouldBind(&req); err != nil {
		vs, ok := web.Violations(err)
		if !ok {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		violations = vs
	}

	var price moneypkg.Money

	if req.Price != "" {
		parsed, err := h.codec.Parse(req.Price)

		var malformed *moneypkg.MalformedAmountError

		switch {
		case err == nil:
			price = parsed
		case errors.As(err, &malformed):
			violations = append(violations, web.BindingViolation{
				Field:         "price",
				RejectedValue: malformed.Text,
			})
		}
	}

	if len(violations) > 0 {
		l.Info().Int("error_count", len(violations)).Msg("invalid new coffee request")
		gctx.JSON(http.StatusBadRequest,
			web.BuildValidationError(newCoffeeObject, violations, gctx.Request.URL.Path))

		return
	}

	createdCoffee, err := h.service.Create(ctx, req.Name, price)
	if err != nil {
		if err == domain.ErrCoffeeAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{createdCoffee},
	}

	gctx.JSON(http.StatusOK, res)
}

type dataCoffees struct {
	Coffees []domain.Coffee `json:"coffees"`
}
type responseCoffees struct {
	Data dataCoffees `json:"data,omitempty"`
}

// BatchCreate handles http request to add coffees from an uploaded text file.
//
// Each line holds a name and a price, e.g. "mocha 150.00" or
// "latte TWD 125.00". Lines that do not parse are logged and skipped.
func (h *Handler) BatchCreate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	fileHeader, err := gctx.FormFile("file")
	if err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}
	defer file.Close()

	var params []domain.CreateCoffeeParams

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.SplitN(line, " ", 2)
		if len(tokens) != 2 {
			l.Warn().Str("line", line).Msg("skipping batch line without a price")
			continue
		}

		price, err := h.codec.Parse(strings.TrimSpace(tokens[1]))
		if err != nil {
			l.Warn().Str("line", line).Msg("skipping batch line with malformed price")
			continue
		}

		params = append(params, domain.CreateCoffeeParams{Name: tokens[0], Price: price})
	}

	if err := scanner.Err(); err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	if len(params) == 0 {
		gctx.JSON(http.StatusBadRequest, web.Error(domain.ErrBatchEmpty))
		return
	}

	createdCoffees, err := h.service.BatchCreate(ctx, params)
	if err != nil {
		if err == domain.ErrCoffeeAlreadyExists {
			gctx.JSON(http.StatusConflict, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := responseCoffees{
		Data: dataCoffees{createdCoffees},
	}

	gctx.JSON(http.StatusOK, res)
}

type getRequest struct {
	ID int64 `uri:"id" binding:"required,min=1"`
}

// Get handles http request to get one coffee by id.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		if vs, ok := web.Violations(err); ok {
			l.Info().Err(err).Send()
			gctx.JSON(http.StatusBadRequest,
				web.BuildValidationError(getCoffeeObject, vs, gctx.Request.URL.Path))

			return
		}

		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	coffee, err := h.service.Get(ctx, req.ID)
	if err != nil {
		if err == domain.ErrCoffeeNotFound {
			gctx.JSON(http.StatusNotFound, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	res := response{
		Data: data{coffee},
	}

	gctx.JSON(http.StatusOK, res)
}

type listRequest struct {
	Name string `form:"name"`
}

// List handles http request to list coffees, optionally filtered by name.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	if req.Name != "" {
		coffee, err := h.service.GetByName(ctx, req.Name)
		if err != nil {
			if err == domain.ErrCoffeeNotFound {
				gctx.JSON(http.StatusNotFound, web.Error(err))
				return
			}

			gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

			return
		}

		gctx.JSON(http.StatusOK, response{Data: data{coffee}})

		return
	}

	coffees, err := h.service.List(ctx)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
		return
	}

	res := responseCoffees{
		Data: dataCoffees{coffees},
	}

	gctx.JSON(http.StatusOK, res)
}
