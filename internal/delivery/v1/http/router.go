package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/DRSN-tech/shop-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/shop-backend/internal/cfg"
	"github.com/DRSN-tech/shop-backend/internal/usecase"
	"github.com/DRSN-tech/shop-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(catalogUC usecase.CatalogUC, orderUC usecase.OrderUC, userUC usecase.UserUC, minioCfg *cfg.MinIOCfg) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	validate := validator.New()

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerCatalogRoutes(v1, NewCatalogHandler(catalogUC, validate, minioCfg, r.logger))
		registerOrderRoutes(v1, NewOrderHandler(orderUC, validate, r.logger))
		registerUserRoutes(v1, NewUserHandler(userUC, validate, r.logger))
	})
}

func registerCatalogRoutes(router chi.Router, h *CatalogHandler) {
	router.Post("/addcategory", h.addCategory)
	router.Get("/categories", h.listCategories)
	router.Put("/updatecategory/{id}", h.updateCategory)
	router.Delete("/deletecategory/{id}", h.deleteCategory)

	router.Post("/addproducts", h.addProduct)
	router.Get("/products-with-categories", h.listProductsWithCategories)
	router.Put("/updateproduct/{id}", h.updateProduct)
	router.Post("/updateproduct/{id}", h.updateProduct)
	router.Put("/adddescriptionproducts/{id}", h.addDescription)
	router.Get("/products/{id}", h.getProduct)
	router.Delete("/products/{id}", h.deleteProduct)
	router.Get("/productforhomepage", h.productForHomepage)
}

func registerOrderRoutes(router chi.Router, h *OrderHandler) {
	router.Post("/addorder", h.addOrder)
	router.Post("/getorderforuser", h.getOrderForUser)
	router.Post("/getorderforadmin", h.getOrderForAdmin)
	router.Put("/updateorderstatus/{id}", h.updateOrderStatus)
}

func registerUserRoutes(router chi.Router, h *UserHandler) {
	router.Get("/getusers", h.getUsers)
	router.Post("/updatebanneduserstrue", h.banUser)
	router.Post("/updatebannedusersfalse", h.unbanUser)
	router.Put("/updateusersbyadmin", h.updateUserByAdmin)
}
