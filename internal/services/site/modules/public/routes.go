package public

import (
	"net/http"

	"github.com/s2design/site/internal/services/site/routepath"
)

func registerRoutes(mux *http.ServeMux, h handlers) {
	if mux == nil {
		return
	}
	mux.HandleFunc(http.MethodGet+" "+routepath.Root+"{$}", h.handleHome)
	mux.HandleFunc(http.MethodGet+" "+routepath.Health, h.handleHealth)
	mux.HandleFunc(http.MethodGet+" "+routepath.Portfolio, h.handlePortfolio)
	mux.HandleFunc(http.MethodGet+" "+routepath.PortfolioViewPattern, h.handlePortfolioView)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProjectPattern, h.handleProject)
	mux.HandleFunc(http.MethodGet+" "+routepath.ProjectImagePattern, h.handleProjectImage)
	mux.HandleFunc(http.MethodPost+" "+routepath.Contact, h.handleContact)
	mux.HandleFunc(routepath.Root, h.handleNotFound)
}
