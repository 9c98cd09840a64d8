package bhttp

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	utils "github.com/brynbellomy/go-orderedset"
	bcoll "github.com/brynbellomy/go-orderedset/coll"
	"github.com/brynbellomy/go-orderedset/errors"
)

// SetServer exposes a registry of int64 ordered sets over HTTP:
//
//	POST   /sets                       {"capacity": n} (optional) -> {"id", "capacity"}
//	GET    /sets/{id}                  -> {"id", "capacity", "size", "values"}
//	DELETE /sets/{id}
//	POST   /sets/{id}/values           {"value": v} -> {"result", "size"}
//	GET    /sets/{id}/values/{value}   -> {"found"}
//	GET    /sets/{id}/range?min=a&max=b -> {"values"}
type SetServer struct {
	sets        *bcoll.SyncMap[string, *hostedSet]
	newID       func() string
	lockTimeout time.Duration
	logger      *slog.Logger
	router      *mux.Router
}

type hostedSet struct {
	capacity *int
	set      *bcoll.SyncOrderedSet[int64]
}

// NewSetServer returns a server with an empty registry. lockTimeout bounds how
// long a request waits for a set's lock; a nil logger means slog.Default().
func NewSetServer(lockTimeout time.Duration, logger *slog.Logger) *SetServer {
	if logger == nil {
		logger = slog.Default()
	}
	s := &SetServer{
		sets:        bcoll.NewSyncMap[string, *hostedSet](),
		newID:       utils.MustUUIDv7,
		lockTimeout: lockTimeout,
		logger:      logger,
	}

	r := mux.NewRouter()
	r.HandleFunc("/sets", s.handleCreateSet).Methods(http.MethodPost)
	r.HandleFunc("/sets/{id}", s.handleGetSet).Methods(http.MethodGet)
	r.HandleFunc("/sets/{id}", s.handleDeleteSet).Methods(http.MethodDelete)
	r.HandleFunc("/sets/{id}/values", s.handleInsert).Methods(http.MethodPost)
	r.HandleFunc("/sets/{id}/values/{value}", s.handleFind).Methods(http.MethodGet)
	r.HandleFunc("/sets/{id}/range", s.handleFindRange).Methods(http.MethodGet)
	r.Use(s.logRequests)
	s.router = r
	return s
}

func (s *SetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *SetServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

func (s *SetServer) lookup(r *http.Request) (string, *hostedSet, error) {
	id := mux.Vars(r)["id"]
	hosted, ok := s.sets.Get(id)
	if !ok {
		return id, nil, errors.WithMetadata(errors.WithMessage(ErrNotFound, "set"), "id", id)
	}
	return id, hosted, nil
}

const maxIDAttempts = 3

// register stores hosted under a fresh id. An id that is already taken is
// never overwritten.
func (s *SetServer) register(hosted *hostedSet) (string, error) {
	for range maxIDAttempts {
		id := s.newID()
		if s.sets.SetIfAbsent(id, hosted) {
			return id, nil
		}
		s.logger.Warn("set id collision", "id", id)
	}
	return "", errors.WithMetadata(ErrIDCollision, "attempts", maxIDAttempts)
}

func parseValue(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.WithMetadata(errors.Wrapf(ErrBadRequest, "invalid %s", name), name, raw)
	}
	return v, nil
}

type createSetRequest struct {
	Capacity *int `json:"capacity"`
}

type createSetResponse struct {
	ID       string `json:"id"`
	Capacity *int   `json:"capacity"`
}

type setResponse struct {
	ID       string  `json:"id"`
	Capacity *int    `json:"capacity"`
	Size     int     `json:"size"`
	Values   []int64 `json:"values"`
}

func (s *SetServer) handleCreateSet(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		RespondError(w, errors.Wrap(ErrBadRequest, "malformed body"))
		return
	}

	var set bcoll.OrderedSet[int64]
	if req.Capacity != nil {
		bounded := bcoll.NewBoundedOrderedUniqueSet[int64](*req.Capacity)
		capacity := bounded.Capacity()
		req.Capacity = &capacity
		set = bounded
	} else {
		set = bcoll.NewOrderedUniqueSet[int64]()
	}

	hosted := &hostedSet{
		capacity: req.Capacity,
		set:      bcoll.NewSyncOrderedSet(set, s.lockTimeout),
	}
	id, err := s.register(hosted)
	if err != nil {
		RespondError(w, err)
		return
	}
	logFields := errors.Fields{"id", id}
	if req.Capacity != nil {
		logFields.Add("capacity", *req.Capacity)
	}
	s.logger.Info("created set", logFields.List()...)

	RespondJSON(w, http.StatusCreated, createSetResponse{ID: id, Capacity: req.Capacity})
}

func (s *SetServer) handleGetSet(w http.ResponseWriter, r *http.Request) {
	id, hosted, err := s.lookup(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	values, err := hosted.set.Snapshot()
	if err != nil {
		RespondError(w, err)
		return
	}
	if values == nil {
		values = []int64{}
	}
	RespondJSON(w, http.StatusOK, setResponse{ID: id, Capacity: hosted.capacity, Size: len(values), Values: values})
}

func (s *SetServer) handleDeleteSet(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.lookup(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	s.sets.Delete(id)
	s.logger.Info("deleted set", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type insertRequest struct {
	Value *int64 `json:"value"`
}

type insertResponse struct {
	Result string `json:"result"`
	Size   int    `json:"size"`
}

func (s *SetServer) handleInsert(w http.ResponseWriter, r *http.Request) {
	id, hosted, err := s.lookup(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var req insertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Value == nil {
		RespondError(w, errors.Wrap(ErrBadRequest, "body must be {\"value\": <int64>}"))
		return
	}

	result, size, err := hosted.set.Insert(*req.Value)
	if err != nil {
		if errors.Is(err, bcoll.ErrCapacityExceeded) {
			s.logger.Warn("insert rejected", "id", id, "value", *req.Value, "err", err)
		}
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, insertResponse{Result: result.String(), Size: size})
}

type findResponse struct {
	Found bool `json:"found"`
}

func (s *SetServer) handleFind(w http.ResponseWriter, r *http.Request) {
	_, hosted, err := s.lookup(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	value, err := parseValue(mux.Vars(r)["value"], "value")
	if err != nil {
		RespondError(w, err)
		return
	}

	found, err := hosted.set.Find(value)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, findResponse{Found: found})
}

type rangeResponse struct {
	Values []int64 `json:"values"`
}

func (s *SetServer) handleFindRange(w http.ResponseWriter, r *http.Request) {
	_, hosted, err := s.lookup(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	query := r.URL.Query()
	minValue, err := parseValue(query.Get("min"), "min")
	if err != nil {
		RespondError(w, err)
		return
	}
	maxValue, err := parseValue(query.Get("max"), "max")
	if err != nil {
		RespondError(w, err)
		return
	}

	values, err := hosted.set.FindRange(minValue, maxValue)
	if err != nil {
		RespondError(w, err)
		return
	}
	if values == nil {
		values = []int64{}
	}
	RespondJSON(w, http.StatusOK, rangeResponse{Values: values})
}
