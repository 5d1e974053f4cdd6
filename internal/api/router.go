package api

import (
	"net/http"
	"strings"

	"github.com/example/container-market/internal/api/middleware"
	"github.com/example/container-market/internal/auth"
)

func NewRouter(handlers *Handlers, authHandlers *AuthHandlers, jwtService *auth.JWTService, webDir string) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.AuthMiddleware(jwtService)
	optionalAuth := middleware.OptionalAuthMiddleware(jwtService)
	supplierOnly := middleware.RequireRole("supplier", "operator")
	operatorOnly := middleware.RequireRole("operator")

	// Static files (web UI)
	if webDir != "" {
		fs := http.FileServer(http.Dir(webDir))
		mux.Handle("/", fs)
	}

	// Auth
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			authHandlers.Login(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			authHandlers.Refresh(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			authHandlers.Logout(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.Handle("/auth/me", requireAuth(http.HandlerFunc(authHandlers.Me)))

	// Listings
	mux.Handle("/listings", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetListings(w, r)
		case http.MethodPost:
			requireAuth(supplierOnly(http.HandlerFunc(handlers.PublishListing))).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/listings/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetListing(w, r)
		case http.MethodPut:
			requireAuth(supplierOnly(http.HandlerFunc(handlers.UpdateListing))).ServeHTTP(w, r)
		case http.MethodDelete:
			requireAuth(supplierOnly(http.HandlerFunc(handlers.WithdrawListing))).ServeHTTP(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Cart
	mux.Handle("/cart", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetCart(w, r)
		case http.MethodDelete:
			handlers.ClearCart(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.AddCartItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/cart/items/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut, http.MethodPatch:
			handlers.UpdateCartItem(w, r)
		case http.MethodDelete:
			handlers.RemoveCartItem(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Quotes
	mux.Handle("/quotes", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.GetQuotes(w, r)
		case http.MethodPost:
			handlers.SubmitQuote(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/quotes/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPut:
			requireAuth(supplierOnly(http.HandlerFunc(handlers.UpdateQuoteStatus))).ServeHTTP(w, r)
		case r.Method == http.MethodGet:
			handlers.GetQuote(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Shipping requests
	mux.Handle("/shipping-requests", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.CreateShippingRequest(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/shipping-requests/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/options") && r.Method == http.MethodGet:
			handlers.GetTransportOptions(w, r)
		case strings.HasSuffix(path, "/options") && r.Method == http.MethodPost:
			handlers.RequestTransportOptions(w, r)
		case strings.HasSuffix(path, "/select") && r.Method == http.MethodPost:
			handlers.SelectTransportOption(w, r)
		case r.Method == http.MethodGet:
			handlers.GetShippingRequest(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	// Bookings
	mux.Handle("/bookings", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			handlers.ConfirmBooking(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	mux.Handle("/bookings/", optionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/status") && r.Method == http.MethodPost:
			requireAuth(operatorOnly(http.HandlerFunc(handlers.UpdateBookingStatus))).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/tracking") && r.Method == http.MethodGet:
			handlers.GetTracking(w, r)
		case strings.HasSuffix(path, "/documents") && r.Method == http.MethodGet:
			handlers.GetDocuments(w, r)
		case strings.HasSuffix(path, "/documents") && r.Method == http.MethodPost:
			handlers.GenerateDocuments(w, r)
		case strings.HasSuffix(path, "/download") && r.Method == http.MethodPost:
			handlers.DownloadDocument(w, r)
		case strings.HasSuffix(path, "/incidents") && r.Method == http.MethodGet:
			handlers.GetIncidents(w, r)
		case strings.HasSuffix(path, "/incidents") && r.Method == http.MethodPost:
			handlers.ReportIncident(w, r)
		case strings.Contains(path, "/incidents/") && (r.Method == http.MethodPut || r.Method == http.MethodPatch):
			requireAuth(operatorOnly(http.HandlerFunc(handlers.UpdateIncident))).ServeHTTP(w, r)
		case strings.HasSuffix(path, "/notifications") && r.Method == http.MethodGet:
			handlers.GetNotifications(w, r)
		case r.Method == http.MethodGet:
			handlers.GetBooking(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})))

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		println("[API]", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
