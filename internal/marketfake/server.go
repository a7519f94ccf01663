// Package marketfake реализует in-process marketplace с тем же HTTP контрактом,
// что и настоящий сервер. Используется в интеграционных тестах и командой
// sandbox для работы без сети.
package marketfake

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/iudanet/shopkeeper/pkg/api"
)

// RemoteProduct продукт в каталоге fake сервера
type RemoteProduct struct {
	UpdatedAt time.Time
	RemoteID  string
	LocalID   string
	AgentID   string
	api.ProductSnapshot
}

type challenge struct {
	expiresAt time.Time
	publicKey string
}

type failure struct {
	message string
	status  int
}

// Server fake marketplace. Безопасен для конкурентного использования.
type Server struct {
	now         func() time.Time
	logger      *slog.Logger
	agents      map[string]api.Agent // pubkey -> agent
	challenges  map[string]challenge
	products    map[string]*RemoteProduct // remote_id -> product
	byLocal     map[string]string         // agent_id/local_id -> remote_id
	rejections  map[string]string         // local_id -> reason
	limiter     *rateLimiter
	failures    []failure
	purchases   []api.Purchase
	reviews     []api.Review
	pushes      []api.SyncManifest
	secret      []byte
	tokenTTL    time.Duration
	challengeTT time.Duration
	credits     int64
	nextID      int
	mu          sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithClock overrides the server time source.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCredits sets the starting credit balance reported in billing info.
func WithCredits(credits int64) Option {
	return func(s *Server) {
		s.credits = credits
	}
}

// WithTokenTTL sets the lifetime of issued bearer tokens.
func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.tokenTTL = ttl
	}
}

// WithRateLimit limits every client to rate requests per window.
func WithRateLimit(rate int, window time.Duration) Option {
	return func(s *Server) {
		s.limiter = newRateLimiter(rate, window, func() time.Time { return s.now() })
	}
}

// New создает fake сервер
func New(opts ...Option) *Server {
	s := &Server{
		now:         func() time.Time { return time.Now().UTC() },
		logger:      slog.New(slog.DiscardHandler),
		agents:      make(map[string]api.Agent),
		challenges:  make(map[string]challenge),
		products:    make(map[string]*RemoteProduct),
		byLocal:     make(map[string]string),
		rejections:  make(map[string]string),
		secret:      []byte(uuid.NewString()),
		tokenTTL:    time.Hour,
		challengeTT: 5 * time.Minute,
		credits:     100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler serving the marketplace API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))
	r.Use(s.rateLimitMiddleware)
	r.Use(s.failureMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.sendJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/challenge", s.handleChallenge)
		r.Post("/auth/verify", s.handleVerify)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/sync/push", s.handlePush)
			r.Get("/sync/pull", s.handlePull)
		})
	})

	return r
}

// RegisterAgent добавляет агента. Extra попадает в ответ verify как есть.
func (s *Server) RegisterAgent(agent api.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if agent.ID == "" {
		agent.ID = uuid.NewString()
	}
	s.agents[agent.PublicKey] = agent
}

// FailNext makes the next n requests fail with status and message.
func (s *Server) FailNext(n, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < n; i++ {
		s.failures = append(s.failures, failure{status: status, message: message})
	}
}

// Reject makes every push of localID fail with reason in SyncResult.errors.
func (s *Server) Reject(localID, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejections[localID] = reason
}

// AddPurchase records a sale visible to the next pull.
func (s *Server) AddPurchase(p api.Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = s.now()
	}
	s.purchases = append(s.purchases, p)
}

// AddReview records a review visible to the next pull.
func (s *Server) AddReview(r api.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.reviews = append(s.reviews, r)
}

// Products returns a copy of the remote catalog.
func (s *Server) Products() []RemoteProduct {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]RemoteProduct, 0, len(s.products))
	for _, p := range s.products {
		result = append(result, *p)
	}
	return result
}

// Product returns the remote product with remoteID.
func (s *Server) Product(remoteID string) (RemoteProduct, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[remoteID]
	if !ok {
		return RemoteProduct{}, false
	}
	return *p, true
}

// Pushes returns every manifest received so far.
func (s *Server) Pushes() []api.SyncManifest {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]api.SyncManifest, len(s.pushes))
	copy(result, s.pushes)
	return result
}

// Credits returns the remaining credit balance.
func (s *Server) Credits() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credits
}

// failureMiddleware отдаёт заранее запланированные ошибки
func (s *Server) failureMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			s.sendError(w, f.message, f.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) newRemoteID() string {
	s.nextID++
	return fmt.Sprintf("prod-%d", s.nextID)
}

// sendJSON отправляет JSON ответ
func (s *Server) sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// sendError отправляет JSON ответ с ошибкой
func (s *Server) sendError(w http.ResponseWriter, message string, statusCode int) {
	resp := api.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	s.sendJSON(w, resp, statusCode)
}
