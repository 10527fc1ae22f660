package httpapi

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/antonkh/space-weather-forecast/internal/forecast"
	"github.com/antonkh/space-weather-forecast/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/forecast/latest", func(c *fiber.Ctx) error {
		source, err := resolveSource(c, service)
		if err != nil {
			return err
		}

		issue, err := service.Latest(source)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast for requested source")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		return c.JSON(issue)
	})

	v1.Get("/forecast/live", func(c *fiber.Ctx) error {
		source, err := resolveSource(c, service)
		if err != nil {
			return err
		}

		issue, err := service.Live(c.Context(), source)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast available for requested source")
			}
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(issue)
	})

	v1.Get("/forecast/chart", func(c *fiber.Ctx) error {
		source, err := resolveSource(c, service)
		if err != nil {
			return err
		}

		issue, err := service.Latest(source)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast for requested source")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		return c.JSON(fiber.Map{
			"source": source,
			"points": forecast.ChartPoints(issue.Days),
		})
	})

	v1.Get("/forecast/summary", func(c *fiber.Ctx) error {
		source, err := resolveSource(c, service)
		if err != nil {
			return err
		}

		summary, err := service.Summary(source)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no forecast for requested source")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch forecast")
		}
		return c.JSON(fiber.Map{
			"source":  source,
			"summary": summary,
		})
	})

	v1.Get("/historical", func(c *fiber.Ctx) error {
		var req historyQuery
		req.bind(c)

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		records, err := service.History(req.Start, req.End)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no historical data for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch historical data")
		}

		if req.Format == "csv" {
			body, err := historyCSV(records)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "failed to encode csv")
			}
			c.Set(fiber.HeaderContentType, "text/csv")
			c.Set(fiber.HeaderContentDisposition, `attachment; filename=historical.csv`)
			return c.Send(body)
		}
		return c.JSON(records)
	})

	v1.Post("/sync/run", func(c *fiber.Ctx) error {
		run, err := service.SyncAll(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(run)
	})

	v1.Get("/sync/runs/latest", func(c *fiber.Ctx) error {
		run, err := service.LastRun()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no sync run recorded yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch sync run")
		}
		return c.JSON(run)
	})
}

// resolveSource reads the optional source query parameter, defaulting to the
// first configured source.
func resolveSource(c *fiber.Ctx, service *forecast.Service) (string, error) {
	source := c.Query("source")
	if source != "" {
		return source, nil
	}
	names := service.SourceNames()
	if len(names) == 0 {
		return "", fiber.NewError(fiber.StatusServiceUnavailable, "no forecast sources configured")
	}
	return names[0], nil
}

// historyQuery holds query parameters for the historical endpoint.
type historyQuery struct {
	Start  string `validate:"omitempty,datetime=2006-01-02"`
	End    string `validate:"omitempty,datetime=2006-01-02"`
	Format string `validate:"oneof=json csv"`
}

func (h *historyQuery) bind(c *fiber.Ctx) {
	h.Start = c.Query("start")
	h.End = c.Query("end")
	h.Format = c.Query("format", "json")
}

// historyCSV renders day records in the date,f107,ap,kp column layout used
// for spreadsheet export. Nil values become empty cells.
func historyCSV(records []forecast.DayRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "f107", "ap", "kp"}); err != nil {
		return nil, err
	}
	for _, rec := range records {
		row := []string{rec.Date, formatCell(rec.F107), formatCell(rec.Ap), formatCell(rec.Kp)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
