package server

import (
	"fmt"
	"net/http"
)

type indexPageData struct {
	AppName   string
	AuthURL   string
	SampleURL string
}

// IndexHandler renders the landing page
func (s *Server) IndexHandler() (http.HandlerFunc, error) {
	tmpl, err := ParseTemplate("index.html")
	if err != nil {
		return nil, fmt.Errorf("[Server IndexHandler] parse index template: %w", err)
	}

	data := indexPageData{
		AppName:   s.config.GetAppName(),
		AuthURL:   RouteAuthPolar,
		SampleURL: "/health-data/" + defaultUserID,
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	}, nil
}
