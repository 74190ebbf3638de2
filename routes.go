package main

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geoQuestAPI/handlers"
	"geoQuestAPI/middleware"
)

type routerDeps struct {
	verifier    middleware.TokenVerifier
	limiter     *middleware.RateLimiter
	metricsUser string
	metricsPass string
	pprofSecret string

	health         *handlers.HealthHandler
	challenges     *handlers.ChallengeHandler
	userChallenges *handlers.UserChallengeHandler
	proximity      *handlers.ProximityHandler
	finalPages     *handlers.FinalPageHandler
	leaderboard    *handlers.LeaderboardHandler
	directions     *handlers.DirectionsHandler
}

func newRouter(d routerDeps) *mux.Router {
	r := mux.NewRouter()

	standardRouter := r.PathPrefix("/").Subrouter()
	standardRouter.Use(d.limiter.Middleware)
	standardRouter.Use(middleware.MonitorMiddleware)

	standardRouter.Handle("/metrics", middleware.BasicAuthMiddleware(d.metricsUser, d.metricsPass)(promhttp.Handler()))
	standardRouter.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(d.pprofSecret)(http.DefaultServeMux))
	standardRouter.HandleFunc("/health", d.health.Health).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER
	// -------------------------------------------------------------------------
	api := standardRouter.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/check-location", d.proximity.CheckLocation).Methods("POST")
	api.HandleFunc("/challenges", d.challenges.ListChallenges).Methods("GET")
	api.Handle("/challenges/{id}", middleware.NewOptionalAuthMiddleware(d.verifier)(http.HandlerFunc(d.challenges.GetChallenge))).Methods("GET")
	api.HandleFunc("/challenges/{id}/share", d.challenges.ShareChallenge).Methods("GET")

	// -------------------------------------------------------------------------
	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	// -------------------------------------------------------------------------
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.NewAuthMiddleware(d.verifier))

	protected.HandleFunc("/challenges", d.challenges.CreateChallenge).Methods("POST")
	protected.HandleFunc("/user/created-challenges", d.challenges.GetCreatedChallenges).Methods("GET")

	protected.HandleFunc("/user/challenges", d.userChallenges.ListMyChallenges).Methods("GET")
	protected.HandleFunc("/user/challenges/{id}", d.userChallenges.GetMyChallenge).Methods("GET")
	protected.HandleFunc("/user/challenges/{id}/accept", d.userChallenges.AcceptChallenge).Methods("POST")
	protected.HandleFunc("/user/challenges/{id}/drop", d.userChallenges.DropChallenge).Methods("POST")
	protected.HandleFunc("/user/challenges/{id}/complete", d.userChallenges.CompleteChallenge).Methods("POST")

	protected.HandleFunc("/final-pages/{challengeId}", d.finalPages.GetFinalPage).Methods("GET")
	protected.HandleFunc("/final-pages/{challengeId}", d.finalPages.UpsertFinalPage).Methods("PUT")
	protected.HandleFunc("/final-pages/{challengeId}/posts", d.finalPages.AddPost).Methods("POST")
	protected.HandleFunc("/final-pages/{challengeId}/posts/{postId}", d.finalPages.RemovePost).Methods("DELETE")
	protected.HandleFunc("/final-pages/{challengeId}/stories", d.finalPages.AddStory).Methods("POST")
	protected.HandleFunc("/final-pages/{challengeId}/stories/{storyId}", d.finalPages.RemoveStory).Methods("DELETE")

	protected.HandleFunc("/leaderboard", d.leaderboard.GetLeaderboard).Methods("GET")
	protected.HandleFunc("/directions", d.directions.GetDirections).Methods("POST")

	return r
}
