package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/princebhanderi/ed-tech-platform/core/catalog"
)

type catalogApi struct {
	reader *catalog.Reader
}

func registerCatalogAPI(g *echo.Group, reader *catalog.Reader) {
	api := catalogApi{reader: reader}

	cg := g.Group("/course")
	cg.POST("/getCategoryPageDetails", api.categoryPageDetails)
	cg.GET("/showAllCategories", api.showAllCategories)
}

type categoryPageRequest struct {
	CategoryID string `json:"categoryId"`
}

func (api *catalogApi) categoryPageDetails(ctx echo.Context) error {
	var data categoryPageRequest
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	page, err := api.reader.CategoryPageDetails(ctx.Request().Context(), data.CategoryID)
	if err != nil {
		return failed("Internal server error", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": page})
}

func (api *catalogApi) showAllCategories(ctx echo.Context) error {
	categories, err := api.reader.ShowAllCategories(ctx.Request().Context())
	if err != nil {
		return failed("Internal server error", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "data": categories})
}
