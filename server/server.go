package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pizzashack/service/handlers"
	"github.com/pizzashack/service/middlewares"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

// SetupRoutes wires the full API surface. Identity resolution runs on every
// request; handlers that need an authenticated or privileged caller enforce
// that themselves, since several paths mix open and protected methods.
func SetupRoutes(h *handlers.Handler, sessions middlewares.SessionChecker, secret []byte) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.SetAuthUser(sessions, secret))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{"alive": true}`)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth", h.Login).Methods(http.MethodPut)
	api.HandleFunc("/auth", h.Logout).Methods(http.MethodDelete)

	api.HandleFunc("/user/me", h.Me).Methods(http.MethodGet)
	api.HandleFunc("/user/{userId}", h.UpdateUser).Methods(http.MethodPut)
	api.HandleFunc("/user/{userId}", h.DeleteUser).Methods(http.MethodDelete)
	api.HandleFunc("/user", h.ListUsers).Methods(http.MethodGet)

	api.HandleFunc("/franchise", h.ListFranchises).Methods(http.MethodGet)
	api.HandleFunc("/franchise", h.CreateFranchise).Methods(http.MethodPost)
	api.HandleFunc("/franchise/{userId}", h.UserFranchises).Methods(http.MethodGet)
	api.HandleFunc("/franchise/{franchiseId}", h.DeleteFranchise).Methods(http.MethodDelete)
	api.HandleFunc("/franchise/{franchiseId}/store", h.CreateStore).Methods(http.MethodPost)
	api.HandleFunc("/franchise/{franchiseId}/store/{storeId}", h.DeleteStore).Methods(http.MethodDelete)

	api.HandleFunc("/order/menu", h.GetMenu).Methods(http.MethodGet)
	api.HandleFunc("/order/menu", h.AddMenuItem).Methods(http.MethodPut)
	api.HandleFunc("/order", h.GetOrders).Methods(http.MethodGet)
	api.HandleFunc("/order", h.CreateOrder).Methods(http.MethodPost)

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
