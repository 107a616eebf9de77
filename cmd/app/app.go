package main

import (
	"github.com/joho/godotenv"

	"github.com/DRSN-tech/shop-backend/internal/app"
)

// @title			Shop Backend API
// @version		1.0
// @description	Бэкенд каталога, заказов и админки магазина
// @BasePath		/api/v1
func main() {
	// .env опционален: в контейнере переменные приходят из окружения
	_ = godotenv.Load()

	app.Run()
}
