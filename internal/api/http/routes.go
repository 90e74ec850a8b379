package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/uvwatch/uv-index-aggregator/internal/uv"
)

var validate = validator.New()

// Geocoder resolves a place name to coordinates when the client does not
// supply lat/lon directly.
type Geocoder interface {
	Enabled() bool
	Lookup(city, country string) (lat, lon float64, err error)
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *uv.Service, geocoder Geocoder) {
	v1 := app.Group("/api/v1")

	v1.Get("/providers", func(c *fiber.Ctx) error {
		return c.JSON(service.ProviderStatuses())
	})

	v1.Get("/uv", func(c *fiber.Ctx) error {
		req, err := parseUVQuery(c, geocoder)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		resp, err := service.Aggregate(c.Context(), uv.Coordinate{Lat: req.Lat, Lon: req.Lon}, req.Date, req.TZ)
		if err != nil {
			if errors.Is(err, uv.ErrNoProvidersEnabled) {
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to aggregate uv data")
		}

		return c.JSON(resp)
	})
}

// uvQuery holds query parameters for the uv endpoint.
type uvQuery struct {
	Lat  float64 `validate:"min=-90,max=90"`
	Lon  float64 `validate:"min=-180,max=180"`
	Date string  `validate:"omitempty,datetime=2006-01-02"`
	TZ   string
}

func parseUVQuery(c *fiber.Ctx, geocoder Geocoder) (uvQuery, error) {
	var q uvQuery

	q.Date = c.Query("date")
	q.TZ = c.Query("tz")

	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	city := c.Query("city")

	switch {
	case latStr != "" || lonStr != "":
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return q, errors.New("invalid lat; must be a number")
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return q, errors.New("invalid lon; must be a number")
		}
		q.Lat, q.Lon = lat, lon
	case city != "":
		if geocoder == nil || !geocoder.Enabled() {
			return q, errors.New("city lookup requires geocoding to be configured; pass lat and lon instead")
		}
		lat, lon, err := geocoder.Lookup(city, c.Query("country"))
		if err != nil {
			return q, err
		}
		q.Lat, q.Lon = lat, lon
	default:
		return q, errors.New("lat and lon query parameters are required")
	}

	if err := validate.Struct(q); err != nil {
		return q, err
	}

	return q, nil
}
