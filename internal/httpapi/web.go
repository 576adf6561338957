package httpapi

import (
	"embed"
	"html/template"
	"net/http"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type indexData struct {
	ModelLoaded   bool
	FeaturesCount int
	Features      []struct {
		Index      int
		Name       string
		Type       string
		Importance float64
	}
	Models []struct {
		ID          string
		DisplayName string
		Available   bool
	}
}

// indexHandler serves the interactive page at GET /.
func indexHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := svc.Health()
		data := indexData{
			ModelLoaded:   h.ModelLoaded,
			FeaturesCount: h.FeaturesCount,
		}
		if features, err := svc.Features(); err == nil {
			for _, f := range features {
				data.Features = append(data.Features, struct {
					Index      int
					Name       string
					Type       string
					Importance float64
				}{f.Index, f.Name, f.Type, f.Importance})
			}
		}
		for _, m := range svc.LLMModels() {
			data.Models = append(data.Models, struct {
				ID          string
				DisplayName string
				Available   bool
			}{m.ID, m.DisplayName, m.Available})
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, data); err != nil && zlog != nil {
			zlog.Error().Err(err).Msg("render index")
		}
	}
}
