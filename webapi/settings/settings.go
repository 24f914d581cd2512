package settings

import (
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the preference endpoints.
func Routes(app *fiber.App, store *config.PreferenceStore) {
	group := app.Group("/api/settings")
	group.Get("/", GetSettings(store))
	group.Put("/", UpdateSettings(store))
}

// GetSettings returns the active preferences.
// @Summary Get preferences
// @Tags settings
// @Produce json
// @Success 200 {object} common.Response
// @Router /api/settings [get]
func GetSettings(store *config.PreferenceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Settings fetched successfully", store.Current())
	}
}

// UpdateSettings replaces the preferences after validating them. The proxy
// fields are operator configuration and keep their current values.
// @Summary Update preferences
// @Tags settings
// @Accept json
// @Produce json
// @Param request body config.Preferences true "Preferences"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /api/settings [put]
func UpdateSettings(store *config.PreferenceStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[config.Preferences](c)
		if input == nil {
			return err // error response already written
		}
		current := store.Current()
		input.UseProxy = current.UseProxy
		input.ProxyURL = current.ProxyURL
		updated, err := store.Update(*input)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid settings", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Settings saved", updated)
	}
}
