package httptransport

import (
	"expvar"
	"fmt"
	"net/http"
	"sort"
	"strings"

	apppublic "mastermind-arena/internal/app/public"
	"mastermind-arena/internal/arena"
	"mastermind-arena/internal/chain"
	"mastermind-arena/internal/config"
	"mastermind-arena/internal/referral"
	"mastermind-arena/internal/store"
	"mastermind-arena/internal/vault"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func NewRouter(st store.Store, cfg config.ServerConfig, coord *arena.Coordinator, v *vault.Vault, reader chain.Reader) *chi.Mux {
	publicSvc := apppublic.NewService(st, reader)
	referralSvc := referral.NewService(st)

	publicHandlers := NewPublicHandlers(publicSvc, st)
	vaultHandlers := NewVaultHandlers(v)
	gameHandlers := NewGameHandlers(coord)
	referralHandlers := NewReferralHandlers(referralSvc)
	adminHandlers := NewAdminHandlers(st, coord)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", publicHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/public/games", gameHandlers.List())
		r.Get("/public/games/{game_id}", gameHandlers.Get())
		r.Get("/public/leaderboard", publicHandlers.Leaderboard())
		r.Get("/public/players/{address}", publicHandlers.Player())

		r.Post("/vault/deposit", vaultHandlers.Deposit())
		r.Post("/vault/withdraw", vaultHandlers.Withdraw())
		r.Get("/vault/{address}", vaultHandlers.Balance())

		r.Post("/games/{game_id}/join", gameHandlers.Join())
		r.Post("/games/{game_id}/commit", gameHandlers.Commit())
		r.Post("/games/{game_id}/reveal", gameHandlers.Reveal())

		r.Post("/referrals/code", referralHandlers.Code())
		r.Post("/referrals/use", referralHandlers.Use())
		r.Get("/referrals/stats", referralHandlers.Stats())
		r.Post("/rewards/claim-medals", referralHandlers.ClaimMedals())

		r.Post("/socials/link", referralHandlers.LinkSocial())
		r.Post("/socials/unlink", referralHandlers.UnlinkSocial())
		r.Get("/socials/state", referralHandlers.SocialState())

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.AdminAPIKey))
			r.Post("/admin/games", adminHandlers.CreateGame())
			r.Post("/admin/games/{game_id}/cancel", adminHandlers.CancelGame())
			r.Post("/admin/games/{game_id}/finalize", adminHandlers.FinalizeRound())
			r.Post("/admin/games/{game_id}/distribute", adminHandlers.DistributePrize())
			r.Get("/admin/ledger", adminHandlers.Ledger())

			r.Route("/admin/debug", func(r chi.Router) {
				r.Use(BodyCaptureMiddleware(4096))
				r.Get("/vars", expvar.Handler().ServeHTTP)
			})
		})
	})

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 64)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
