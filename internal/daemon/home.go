package daemon

import (
	_ "embed"
	"html/template"
	"net/http"

	"antenna/internal/logging"
)

//go:embed index.html.tmpl
var indexTemplate string

var homeTemplate = template.Must(template.New("index").Parse(indexTemplate))

type homeData struct {
	DefaultURL      string
	DefaultPassword string
	Domain          string
}

func (s *apiServer) handleHome(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		DefaultURL:      s.daemon.cfg.MediaFlow.URL,
		DefaultPassword: s.daemon.cfg.MediaFlow.Password,
		Domain:          s.daemon.cfg.Server.ExternalDomain,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTemplate.Execute(w, data); err != nil {
		s.log().Error("failed to render landing page", logging.Error(err))
	}
}
