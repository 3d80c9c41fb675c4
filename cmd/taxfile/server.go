package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taxfile/taxfile/internal/api"
	"github.com/taxfile/taxfile/internal/domain"
)

// newAPIHandler builds the HTTP surface for one tax year. No EITC provider
// is wired by default; deployments with a real table inject it here.
func newAPIHandler(cfg domain.TaxYearConfig, logger *zap.Logger) http.Handler {
	h := api.NewHandler(cfg, nil, logger)
	return api.NewRouter(h)
}
