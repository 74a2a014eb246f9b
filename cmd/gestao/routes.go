package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getadmin "gestao-diaristas/http-server/admin/get"
	saveadmin "gestao-diaristas/http-server/admin/save"
	upadmin "gestao-diaristas/http-server/admin/update"
	"gestao-diaristas/http-server/auth/login"
	getcc "gestao-diaristas/http-server/cost-centers/get"
	savecc "gestao-diaristas/http-server/cost-centers/save"
	upcc "gestao-diaristas/http-server/cost-centers/update"
	getdiarias "gestao-diaristas/http-server/diarias/get"
	rmdiarias "gestao-diaristas/http-server/diarias/remove"
	savediarias "gestao-diaristas/http-server/diarias/save"
	updiarias "gestao-diaristas/http-server/diarias/update"
	generate_excel "gestao-diaristas/http-server/generate-report/generate-excel"
	rmdays "gestao-diaristas/http-server/production-days/remove"
	savedays "gestao-diaristas/http-server/production-days/save"
	getprod "gestao-diaristas/http-server/productions/get"
	saveprod "gestao-diaristas/http-server/productions/save"
	upprod "gestao-diaristas/http-server/productions/update"
	getservicos "gestao-diaristas/http-server/servicos/get"
	rmservicos "gestao-diaristas/http-server/servicos/remove"
	saveservicos "gestao-diaristas/http-server/servicos/save"
	getsettings "gestao-diaristas/http-server/settings/get"
	upsettings "gestao-diaristas/http-server/settings/update"
	getsummary "gestao-diaristas/http-server/summary/get"
	getworkers "gestao-diaristas/http-server/workers/get"
	rmworkers "gestao-diaristas/http-server/workers/remove"
	saveworkers "gestao-diaristas/http-server/workers/save"
	upworkers "gestao-diaristas/http-server/workers/update"
	"gestao-diaristas/internal/config"
	"gestao-diaristas/internal/middleware/auth"
	authsvc "gestao-diaristas/internal/service/auth"
	"gestao-diaristas/internal/storage"
	"gestao-diaristas/internal/tenant"
)

// scoped builds the handler from the tenant session of each request, so a
// handler only ever sees the storage of the company the user logged into.
func scoped(build func(s *tenant.Session) http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := tenant.FromContext(r.Context())
		if !ok {
			http.Error(w, "sessão ausente", http.StatusUnauthorized)
			return
		}
		build(sess).ServeHTTP(w, r)
	}
}

func routes(cfg config.Config, log *slog.Logger, registry *tenant.Registry, loginSvc *authsvc.Service, tokens *authsvc.Tokens) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Post("/api/login", login.Login(log, loginSvc))

	router.Group(func(r chi.Router) {
		r.Use(auth.Bearer(log, tokens, registry))

		r.Get("/api/settings/unit-price", scoped(func(s *tenant.Session) http.HandlerFunc {
			return getsettings.GetUnitPrice(log, s.Store)
		}))

		// cadastros
		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(storage.PermCadastros))

			r.Get("/api/workers", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getworkers.GetWorkers(log, s.Store)
			}))
			r.Get("/api/workers/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getworkers.GetWorker(log, s.Store)
			}))
			r.Post("/api/workers", scoped(func(s *tenant.Session) http.HandlerFunc {
				return saveworkers.SaveWorker(log, s.Store)
			}))
			r.Put("/api/workers/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return upworkers.UpdateWorker(log, s.Store)
			}))
			r.Put("/api/workers/{id}/status", scoped(func(s *tenant.Session) http.HandlerFunc {
				return upworkers.SetWorkerStatus(log, s.Store)
			}))
			r.With(auth.RequireAdmin).Delete("/api/workers/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return rmworkers.DeleteWorker(log, s.Store)
			}))

			r.Get("/api/cost-centers", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getcc.GetCostCenters(log, s.Store)
			}))
			r.Post("/api/cost-centers", scoped(func(s *tenant.Session) http.HandlerFunc {
				return savecc.SaveCostCenter(log, s.Store)
			}))
			r.Put("/api/cost-centers/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return upcc.UpdateCostCenter(log, s.Store)
			}))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(storage.PermDiarias))

			r.Get("/api/diarias", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getdiarias.GetDiarias(log, s.Store)
			}))
			r.Post("/api/diarias", scoped(func(s *tenant.Session) http.HandlerFunc {
				return savediarias.SaveDiaria(log, s.Store)
			}))
			r.Put("/api/diarias/{id}/paid", scoped(func(s *tenant.Session) http.HandlerFunc {
				return updiarias.SetDiariaPaid(log, s.Store)
			}))
			r.Delete("/api/diarias/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return rmdiarias.DeleteDiaria(log, s.Store)
			}))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(storage.PermServicos))

			r.Get("/api/servicos", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getservicos.GetServicos(log, s.Store)
			}))
			r.Post("/api/servicos", scoped(func(s *tenant.Session) http.HandlerFunc {
				return saveservicos.SaveServico(log, s.Store)
			}))
			r.Delete("/api/servicos/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return rmservicos.DeleteServico(log, s.Store)
			}))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(storage.PermProducao))

			r.Put("/api/settings/unit-price", scoped(func(s *tenant.Session) http.HandlerFunc {
				return upsettings.SetUnitPrice(log, s.Store)
			}))

			r.Get("/api/productions", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getprod.GetProductions(log, s.Store)
			}))
			r.Post("/api/productions", scoped(func(s *tenant.Session) http.HandlerFunc {
				return saveprod.SaveProduction(log, s.Allocation)
			}))
			r.Get("/api/productions/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getprod.GetProduction(log, s.Allocation)
			}))
			r.Get("/api/productions/{id}/totals", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getprod.GetWorkerTotals(log, s.Allocation)
			}))
			r.Get("/api/productions/{id}/consistency", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getprod.GetConsistency(log, s.Allocation)
			}))
			r.Post("/api/productions/{id}/days", scoped(func(s *tenant.Session) http.HandlerFunc {
				return savedays.SaveProductionDay(log, s.Allocation)
			}))
			r.Post("/api/productions/{id}/close", scoped(func(s *tenant.Session) http.HandlerFunc {
				return upprod.CloseProduction(log, s.Allocation)
			}))
			r.Delete("/api/production-days/{id}", scoped(func(s *tenant.Session) http.HandlerFunc {
				return rmdays.DeleteProductionDay(log, s.Allocation)
			}))
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequirePermission(storage.PermRelatorios))

			r.Get("/api/summary/period", scoped(func(s *tenant.Session) http.HandlerFunc {
				return getsummary.GetPeriodSummary(log, s.Store)
			}))
			r.Get("/api/report/production/{id}/excel", scoped(func(s *tenant.Session) http.HandlerFunc {
				return generate_excel.GenerateProductionExcel(log, s.Reports)
			}))
			r.Get("/api/report/period/excel", scoped(func(s *tenant.Session) http.HandlerFunc {
				return generate_excel.GenerateReportExcel(log, s.Reports)
			}))
		})
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/companies", getadmin.GetCompaniesAdmin(log, registry.Master()))
	adminRouter.Post("/companies", saveadmin.SaveCompanyAdmin(log, registry))
	adminRouter.Get("/users", getadmin.GetUsersAdmin(log, registry.Master()))
	adminRouter.Post("/users", saveadmin.SaveUserAdmin(log, registry.Master()))
	adminRouter.Put("/users/{id}", upadmin.UpdateUserAdmin(log, registry.Master()))

	router.Mount("/api/admin", adminRouter)

	mountFrontend(router, cfg, log)

	return router
}

// mountFrontend serves the built SPA when its directory exists. The API
// works without it.
func mountFrontend(router *chi.Mux, cfg config.Config, log *slog.Logger) {
	frontendDir := cfg.FrontendDir
	if _, err := os.Stat(frontendDir); os.IsNotExist(err) {
		log.Warn("pasta do frontend não encontrada, servindo só a API", slog.String("path", frontendDir))
		return
	}

	fileServer := http.FileServer(http.Dir(frontendDir))
	index := filepath.Join(frontendDir, "index.html")

	router.Handle("/assets/*", fileServer)

	router.With(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass)).Handle("/admin/*",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, index)
		}),
	)

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, index)
	})
}
