package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/princebhanderi/ed-tech-platform/core"
	"github.com/princebhanderi/ed-tech-platform/core/admin"
	"github.com/princebhanderi/ed-tech-platform/core/cascade"
	"github.com/princebhanderi/ed-tech-platform/core/category"
	"github.com/princebhanderi/ed-tech-platform/core/user"
)

type adminApi struct {
	svc    *admin.Service
	logger core.Logger
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *admin.Service, logger core.Logger) {
	api := adminApi{svc: svc, logger: logger}

	ag := g.Group("/admin", jwt, isAdmin)
	ag.GET("/users", api.listUsers)
	ag.GET("/courses", api.listCourses)
	ag.DELETE("/course/:id", api.deleteCourse)
	ag.GET("/stats", api.stats)
	ag.GET("/stats/overview", api.overview)
	ag.DELETE("/user/:id", api.deleteUser)
	ag.GET("/categories", api.listCategories)
	ag.POST("/category", api.createCategory)
	ag.DELETE("/category/:id", api.deleteCategory)
}

// Handlers

func (api *adminApi) listUsers(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return err
	}
	users, err := api.svc.ListUsers(ctx.Request().Context(), filter)
	if err != nil {
		return failed("Failed to fetch users", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

func (api *adminApi) listCourses(ctx echo.Context) error {
	courses, err := api.svc.ListCourses(ctx.Request().Context())
	if err != nil {
		return failed("Failed to fetch courses", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "courses": courses})
}

func (api *adminApi) deleteCourse(ctx echo.Context) error {
	report, err := api.svc.DeleteCourse(ctx.Request().Context(), ctx.Param("id"))
	api.logCascade(ctx, report, err)
	if err != nil {
		return failed("Failed to delete course", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Course deleted successfully"})
}

func (api *adminApi) stats(ctx echo.Context) error {
	stats, err := api.svc.PlatformStats(ctx.Request().Context())
	if err != nil {
		return failed("Failed to fetch stats", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}

func (api *adminApi) overview(ctx echo.Context) error {
	overview, err := api.svc.PlatformOverview(ctx.Request().Context())
	if err != nil {
		return failed("Failed to fetch stats", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "overview": overview})
}

func (api *adminApi) deleteUser(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	// an admin cannot delete their own account
	if core.CleanString(ctx.Param("id"), true /* lower */) == claims.ID {
		return errHttpForbidden
	}

	report, err := api.svc.DeleteUser(ctx.Request().Context(), ctx.Param("id"))
	api.logCascade(ctx, report, err)
	if err != nil {
		return failed("Failed to delete user", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "User deleted successfully"})
}

func (api *adminApi) listCategories(ctx echo.Context) error {
	categories, err := api.svc.ListCategories(ctx.Request().Context())
	if err != nil {
		return failed("Failed to fetch categories", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "categories": categories})
}

func (api *adminApi) createCategory(ctx echo.Context) error {
	var data category.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return err
	}
	cat, err := api.svc.CreateCategory(ctx.Request().Context(), data)
	if err != nil {
		return failed("Failed to create category", err)
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"success": true, "category": cat})
}

func (api *adminApi) deleteCategory(ctx echo.Context) error {
	report, err := api.svc.DeleteCategory(ctx.Request().Context(), ctx.Param("id"))
	api.logCascade(ctx, report, err)
	if err != nil {
		return failed("Failed to delete category", err)
	}
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "Category deleted successfully"})
}

// logCascade records what a delete did. Runs that never started are not recorded.
func (api *adminApi) logCascade(ctx echo.Context, report cascade.Report, err error) {
	if report.Plan == "" {
		return
	}
	observeCascade(report)

	usr, _ := contextUser(ctx)
	msg := fmt.Sprintf("%s %s: %d steps, %d documents", report.Plan, ctx.Param("id"), len(report.Results), report.Affected())
	if err != nil {
		api.logger.Warn(fmt.Sprintf("%s, failed at %s", msg, report.Failed), err, usr)
		return
	}
	api.logger.Info(msg, usr)
}
