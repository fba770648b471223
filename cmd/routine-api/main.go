package main

// @title Class Routine API
// @version 1.0.0
// @description Conflict-checked weekly class routine: placements, free rooms, published grid and exports.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	Execute()
}
