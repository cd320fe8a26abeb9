// cmd/main.go
package main

import (
	"go-finance-api/app"
	_ "go-finance-api/docs"
)

// @title           Go-Finance API
// @version         1.0
// @description     Personal finance tracker: accounts, categories, income and expense transactions.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
