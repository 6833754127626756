package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"sindesk_negotiation/internal/adapters/archive"
	"sindesk_negotiation/internal/config/connections/mongo"
	"sindesk_negotiation/internal/config/connections/postgres"
	rd "sindesk_negotiation/internal/config/connections/redis"
	"sindesk_negotiation/internal/config/connections/s3"
	"sindesk_negotiation/internal/repository/audit"
	"sindesk_negotiation/internal/repository/cache"
	"sindesk_negotiation/internal/repository/database"
	"sindesk_negotiation/internal/services/negotiation"
)

type Handlers struct {
	Postgres *postgres.Postgres
	Mongo    *mongo.Mongo
	S3       *s3.S3
	Redis    *rd.Redis

	Billing *database.BillingItemsRepo
	Service *negotiation.Service

	Logger *log.Logger
}

func New(pg *postgres.Postgres, mg *mongo.Mongo, s3c *s3.S3, r *rd.Redis) *Handlers {
	billing := database.NewBillingItemsRepo(pg)

	svc := negotiation.NewService(
		billing,
		database.NewSettingsRepo(pg),
		database.NewNegotiationStore(pg, billing),
		database.NewNegotiationCodesRepo(pg),
		cache.NewSettingsCache(r),
		audit.NewTrail(mg),
		archive.NewS3Archiver(s3c),
	)

	return &Handlers{
		Postgres: pg,
		Mongo:    mg,
		S3:       s3c,
		Redis:    r,
		Billing:  billing,
		Service:  svc,
		Logger:   log.Default(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Fail maps the error taxonomy onto HTTP: validation problems are 422 and
// echo their message, collisions/guards are 409, everything else is a
// generic 500 (details stay in the log).
func (h *Handlers) Fail(w http.ResponseWriter, err error) {
	switch {
	case negotiation.IsValidation(err):
		h.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
	case errors.Is(err, negotiation.ErrCodeExhausted):
		h.JSON(w, http.StatusConflict, map[string]string{"error": "could not allocate a unique negotiation code, please try again"})
	case errors.Is(err, negotiation.ErrCommitInFlight):
		h.JSON(w, http.StatusConflict, map[string]string{"error": "a commit is already in progress"})
	case errors.Is(err, database.ErrItemsUnavailable):
		h.JSON(w, http.StatusConflict, map[string]string{"error": "some items were negotiated by another session, refresh the selection"})
	default:
		h.Logger.Printf("[HTTP][ERR] %v", err)
		h.JSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
