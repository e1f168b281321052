// Package portal serves the HTML dashboard and the scenario form.
package portal

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/threatinsight/portal-backend/graphql/session"
	"github.com/threatinsight/portal-backend/internal/metrics"
	"github.com/threatinsight/portal-backend/ml/labelenc"
	"github.com/threatinsight/portal-backend/model"
)

//go:embed templates/portal.html
var templates embed.FS

var printer = message.NewPrinter(language.English)

var page = template.Must(template.New("portal.html").Funcs(template.FuncMap{
	"money": func(v float64) string { return printer.Sprintf("%.2f", v) },
	"grouped": func(v int64) string {
		return printer.Sprintf("%d", v)
	},
	"barWidth": func(v, top float64) string {
		if top <= 0 {
			return "0"
		}
		return fmt.Sprintf("%.1f", v/top*100)
	},
	"maxCV": func(vs []model.Variability) float64 {
		m := 0.0
		for _, v := range vs {
			m = max(m, v.CV)
		}
		return m
	},
	"maxValue": func(vs []model.YearValue) float64 {
		m := 0.0
		for _, v := range vs {
			m = max(m, v.Value)
		}
		return m
	},
}).ParseFS(templates, "templates/portal.html"))

// pageData is everything the page template renders. Error replaces the whole
// dashboard; FormError only annotates the form.
type pageData struct {
	Report     model.Report
	Options    model.FormOptions
	Scenario   model.Scenario
	Prediction *model.Prediction
	Error      string
	FormError  string
}

// Index renders the dashboard with the form prefilled from the dataset.
func Index(load session.Loader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, err := load(c.UserContext())
		if err != nil {
			return render(c, fiber.StatusInternalServerError, pageData{Error: "The dataset could not be processed."})
		}
		return render(c, fiber.StatusOK, pageData{
			Report:   s.Report(),
			Options:  s.Options,
			Scenario: defaultScenario(s.Options),
		})
	}
}

// Predict handles a form submission. The submitted values are echoed back in
// the form and in the input summary.
func Predict(load session.Loader, reg *metrics.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var scenario model.Scenario
		parseErr := c.BodyParser(&scenario)

		s, err := load(c.UserContext())
		if err != nil {
			return render(c, fiber.StatusInternalServerError, pageData{Error: "The dataset could not be processed."})
		}

		data := pageData{Report: s.Report(), Options: s.Options, Scenario: scenario}
		if parseErr != nil {
			data.Scenario = defaultScenario(s.Options)
			data.FormError = "The form could not be read: " + parseErr.Error()
			return render(c, fiber.StatusBadRequest, data)
		}
		if err := scenario.Validate(); err != nil {
			data.FormError = err.Error()
			return render(c, fiber.StatusBadRequest, data)
		}

		pred, err := s.Predictor.Predict(scenario)
		if reg != nil {
			reg.RecordPrediction(err)
		}
		switch {
		case errors.Is(err, labelenc.ErrUnseenLabel):
			data.FormError = err.Error()
			return render(c, fiber.StatusBadRequest, data)
		case err != nil:
			zap.S().Errorf("Prediction failed: %v", err)
			return render(c, fiber.StatusInternalServerError, pageData{Error: "The prediction could not be computed."})
		}

		data.Prediction = &pred
		return render(c, fiber.StatusOK, data)
	}
}

func defaultScenario(opts model.FormOptions) model.Scenario {
	first := func(vs []string) string {
		if len(vs) == 0 {
			return ""
		}
		return vs[0]
	}
	return model.Scenario{
		Country:           first(opts.Countries),
		AttackSource:      first(opts.AttackSources),
		VulnerabilityType: first(opts.VulnerabilityTypes),
		DefenseMechanism:  first(opts.DefenseMechanisms),
		Year:              opts.YearDefault,
		AffectedUsers:     opts.UsersDefault,
		ResolutionHours:   opts.HoursDefault,
	}
}

func render(c *fiber.Ctx, status int, data pageData) error {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		zap.S().Errorf("Failed to render portal page: %v", err)
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render page")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).Send(buf.Bytes())
}
