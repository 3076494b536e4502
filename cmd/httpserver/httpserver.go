// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeedelivery"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeerepo"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/coffeeservice"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/middleware"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/orderdelivery"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/orderrepo"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/internal/orderservice"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/configpkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/moneypkg"
	"github.com/SpringMicroservicesCourse/more-complex-controller-demo/pkg/web"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	coffeeRepo := coffeerepo.NewRepoPGS(conn)
	orderRepo := orderrepo.NewRepoPGS(conn)

	codec := moneypkg.NewCodec(language.Make("zh-TW"))

	coffeeService := coffeeservice.New(coffeeRepo)
	orderService := orderservice.New(orderRepo, coffeeService)

	coffeeHandler := coffeedelivery.NewHandler(coffeeService, codec)
	orderHandler := orderdelivery.NewHandler(orderService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/coffee/", coffeeHandler.Create)
	engine.POST("/coffee/batch", coffeeHandler.BatchCreate)
	engine.GET("/coffee/", coffeeHandler.List)
	engine.GET("/coffee/:id", coffeeHandler.Get)

	engine.POST("/order/", orderHandler.Create)
	engine.GET("/order/", orderHandler.List)
	engine.GET("/order/:id", orderHandler.Get)
	engine.PUT("/order/:id", orderHandler.UpdateState)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		web.RegisterFieldNames(v)
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
