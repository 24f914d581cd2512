package convert

import (
	"math"
	"strconv"
	"strings"

	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/service/conversion"
	"github.com/amirasaad/quickcurrency/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the conversion, parse and quote endpoints.
func Routes(app *fiber.App, svc *conversion.Service) {
	app.Get("/convert", ProxyConvert(svc))

	api := app.Group("/api")
	api.Post("/convert", Convert(svc))
	api.Post("/parse", Parse(svc))
	api.Post("/quote", Quote(svc))
}

// ProxyConvert returns a Fiber handler compatible with a proxy URL template.
// @Summary Convert an amount (proxy compatible)
// @Tags conversion
// @Produce json
// @Param from query string true "Source currency"
// @Param to query string false "Target currency, defaults to the configured target"
// @Param amount query number false "Amount, defaults to 1"
// @Success 200 {object} ProxyResponse
// @Failure 400 {object} common.ErrorBody
// @Failure 502 {object} common.ErrorBody
// @Router /convert [get]
func ProxyConvert(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := strings.ToUpper(strings.TrimSpace(c.Query("from")))
		to := strings.ToUpper(strings.TrimSpace(c.Query("to")))
		if to == "" {
			to = svc.Settings().Current().TargetCurrency
		}
		amount, err := strconv.ParseFloat(c.Query("amount", "1"), 64)
		if err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Invalid amount parameter")
		}
		if from == "" {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Missing 'from' parameter")
		}

		res := svc.ConvertDirect(c.UserContext(), conversion.Input{
			From:   from,
			To:     to,
			Amount: amount,
		})
		if !res.Ok() {
			return common.ErrorJSON(c, resultStatus(res), res.Error)
		}
		return c.JSON(ProxyResponse{
			Result: math.Round(res.Result*1e6) / 1e6,
			Cached: res.Cached,
			From:   from,
			To:     to,
			Source: res.Source,
		})
	}
}

// Convert returns a Fiber handler for JSON conversion requests.
// @Summary Convert an amount
// @Tags conversion
// @Accept json
// @Produce json
// @Param request body conversion.Input true "Conversion request"
// @Success 200 {object} domain.ConversionResult
// @Failure 400 {object} common.ErrorBody
// @Failure 502 {object} common.ErrorBody
// @Router /api/convert [post]
func Convert(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in conversion.Input
		if err := c.BodyParser(&in); err != nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, domain.ErrInvalidRequest.Error())
		}
		res := svc.Convert(c.UserContext(), in)
		return c.Status(resultStatus(res)).JSON(res)
	}
}

// Parse returns a Fiber handler that extracts a currency amount from text.
// @Summary Parse a selection
// @Tags conversion
// @Accept json
// @Produce json
// @Param request body TextRequest true "Selection"
// @Success 200 {object} ParseResponse
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /api/parse [post]
func Parse(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TextRequest](c)
		if input == nil {
			return err // error response already written
		}
		m, rule := svc.Parse(input.Text)
		if m == nil {
			return common.ProblemDetailsJSON(c, "No currency found", domain.ErrNoCurrencyFound)
		}
		return c.JSON(ParseResponse{Currency: m.Currency, Amount: m.Amount, Rule: rule})
	}
}

// Quote returns a Fiber handler that parses a selection and converts it to
// the configured target currency.
// @Summary Quote a selection
// @Tags conversion
// @Accept json
// @Produce json
// @Param request body TextRequest true "Selection"
// @Success 200 {object} conversion.Quote
// @Failure 400 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 502 {object} common.ProblemDetails
// @Router /api/quote [post]
func Quote(svc *conversion.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[TextRequest](c)
		if input == nil {
			return err // error response already written
		}
		q, err := svc.Quote(c.UserContext(), input.Text)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Quote failed", err)
		}
		return c.JSON(q)
	}
}

func resultStatus(res domain.ConversionResult) int {
	if res.Ok() {
		return fiber.StatusOK
	}
	return common.ErrorToStatusCode(conversion.ResultError(res))
}
