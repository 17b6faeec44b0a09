// @title           Agencia API
// @version         1.0
// @description     Backend for the agency client and admin portals: subscription billing, invoices, dashboards and media uploads.
// @contact.name    Agencia
// @contact.email   soporte@agencia.uy
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"agencia_backend/internal/app"

	_ "agencia_backend/docs"
)

func main() {
	app.Run()
}
