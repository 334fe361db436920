package http

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/alerting"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/domain"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/service"
	"github.com/ANIKETSHETTY47/biogas-plant-operations/internal/table"
)

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	g := app.Group("/")
	g.Get("rules", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Alerts.ListRules())
	})
	g.Post("rules", func(c *fiber.Ctx) error {
		var rule domain.AlertRule
		if err := c.BodyParser(&rule); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid rule body"})
		}
		if err := alerting.ValidateRule(rule); err != nil {
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				return c.Status(400).JSON(fiber.Map{"error": domain.ErrValidation.Error(), "details": verr.Details})
			}
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		rule.ID = uuid.NewString()
		svcs.Alerts.AddRule(rule)
		return c.Status(201).JSON(rule)
	})
	g.Delete("rules/:id", func(c *fiber.Ctx) error {
		svcs.Alerts.RemoveRule(c.Params("id"))
		return c.SendStatus(204)
	})

	g.Get("alerts/triggered", func(c *fiber.Ctx) error {
		return c.JSON(svcs.Alerts.TriggeredAlerts())
	})

	g.Get("alarms", func(c *fiber.Ctx) error {
		items, err := svcs.Alarms.View(c.UserContext())
		resp := fiber.Map{}
		if err != nil {
			// Custom alerts are local and still shown next to the error.
			if !errors.Is(err, domain.ErrFetchFailure) {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			resp["systemAlarmsError"] = err.Error()
		}

		if sev := domain.Severity(c.Query("severity")); sev != "" {
			kept := items[:0]
			for _, it := range items {
				if it.Severity == sev {
					kept = append(kept, it)
				}
			}
			items = kept
		}

		sorter := table.NewSorter(alarmColumns, "timestamp", table.Descending)
		if key := c.Query("sort"); key != "" {
			if !sorter.HasColumn(key) {
				return c.Status(400).JSON(fiber.Map{"error": "unknown sort column " + key})
			}
			sorter.Set(key, table.ParseDirection(c.Query("order"), table.Ascending))
		} else if order := c.Query("order"); order != "" {
			sorter.Set("timestamp", table.ParseDirection(order, table.Descending))
		}
		filter := table.Filter{Column: c.Query("field", "description"), Query: c.Query("q")}
		if !sorter.HasColumn(filter.Column) {
			return c.Status(400).JSON(fiber.Map{"error": "unknown filter column " + filter.Column})
		}

		resp["items"] = sorter.Apply(items, filter)
		resp["sort"] = fiber.Map{"key": sorter.Key(), "order": sorter.Direction()}
		return c.JSON(resp)
	})

	g.Post("kpis/evaluate", func(c *fiber.Ctx) error {
		var body map[string]*float64
		if err := c.BodyParser(&body); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid snapshot body"})
		}
		snap := make(domain.KpiSnapshot, len(body))
		for k, v := range body {
			if v == nil {
				snap[domain.Parameter(k)] = math.NaN()
				continue
			}
			snap[domain.Parameter(k)] = *v
		}
		triggered := svcs.Alerts.Evaluate(snap)
		if triggered == nil {
			triggered = []domain.TriggeredAlert{}
		}
		return c.JSON(fiber.Map{"triggered": triggered})
	})
	g.Get("kpis/summary", func(c *fiber.Ctx) error {
		hours := c.QueryInt("hours", 24)
		if hours <= 0 {
			return c.Status(400).JSON(fiber.Map{"error": "hours must be positive"})
		}
		items, err := svcs.Kpis.Summary(c.UserContext(), time.Duration(hours)*time.Hour)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(items)
	})
}

var alarmColumns = map[string]table.Accessor[domain.AlarmDisplayItem]{
	"id":           alarmID,
	"timestamp":    func(a domain.AlarmDisplayItem) any { return a.Timestamp },
	"description":  func(a domain.AlarmDisplayItem) any { return a.Description },
	"alarmType":    func(a domain.AlarmDisplayItem) any { return a.AlarmType },
	"severity":     func(a domain.AlarmDisplayItem) any { return a.Severity },
	"isResolved":   func(a domain.AlarmDisplayItem) any { return a.IsResolved },
	"isCustom":     func(a domain.AlarmDisplayItem) any { return a.IsCustom },
	"equipmentRef": func(a domain.AlarmDisplayItem) any { return a.EquipmentRef },
}


// alarmID orders system alarm ids numerically. Custom alert ids are not
// numeric and sort as text after them.
func alarmID(a domain.AlarmDisplayItem) any {
	if !a.IsCustom {
		if n, err := strconv.ParseInt(a.ID, 10, 64); err == nil {
			return n
		}
	}
	return a.ID
}
