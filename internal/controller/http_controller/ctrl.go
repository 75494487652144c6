package http_controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/horockey/dirtyhash/internal/controller/http_controller/dto"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/horockey/go-toolbox/http_helpers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const APIKeyHeader = "X-Api-Key"

// HttpController exposes a hash store over HTTP.
type HttpController struct {
	serv    *http.Server
	router  *mux.Router
	apiKey  string
	store   model.Store
	logger  zerolog.Logger
	metrics *metrics
}

func New(
	addr string,
	apiKey string,
	store model.Store,
	logger zerolog.Logger,
) *HttpController {
	ctrl := HttpController{
		serv: &http.Server{
			Addr: addr,
		},
		apiKey:  apiKey,
		store:   store,
		logger:  logger,
		metrics: newMetrics(),
	}

	router := mux.NewRouter().UseEncodedPath()
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotImplemented)
	})

	router.HandleFunc("/hashes/{key}", ctrl.getHashHandler).Methods(http.MethodGet)
	router.HandleFunc("/hashes/{key}", ctrl.deleteHashHandler).Methods(http.MethodDelete)
	router.HandleFunc("/hashes/{key}/fields", ctrl.putFieldsHandler).Methods(http.MethodPut)
	router.HandleFunc("/hashes/{key}/fields", ctrl.deleteFieldsHandler).Methods(http.MethodDelete)
	router.Use(ctrl.metricsMW, ctrl.authMW)

	ctrl.router = router
	ctrl.serv.Handler = router

	return &ctrl
}

func (ctrl *HttpController) Metrics() []prometheus.Collector {
	return ctrl.metrics.list()
}

func (ctrl *HttpController) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	ctrl.router.ServeHTTP(w, req)
}

func (ctrl *HttpController) Start(ctx context.Context) (resErr error) {
	var wg sync.WaitGroup
	defer wg.Wait()

	errCh := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := ctrl.serv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		if ctx.Err() != nil && !errors.Is(ctx.Err(), context.Canceled) {
			resErr = errors.Join(resErr, fmt.Errorf("running context: %w", ctx.Err()))
		}

		sdCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := ctrl.serv.Shutdown(sdCtx); err != nil {
			resErr = errors.Join(resErr, fmt.Errorf("shutting down server: %w", err))
		}
		return resErr

	case err := <-errCh:
		return fmt.Errorf("running server: %w", err)
	}
}

func (ctrl *HttpController) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get(APIKeyHeader) != ctrl.apiKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, req)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (ctrl *HttpController) metricsMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func(ts time.Time) {
			ctrl.metrics.requestsCnt.Inc()
			ctrl.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

			if rec.status < http.StatusBadRequest {
				ctrl.metrics.successProcessCnt.Inc()
				return
			}
			ctrl.metrics.errProcessCnt.Inc()
		}(time.Now())

		next.ServeHTTP(rec, req)
	})
}

func (ctrl *HttpController) getHashHandler(w http.ResponseWriter, req *http.Request) {
	key, err := keyFromRequest(req)
	if err != nil {
		ctrl.respondErr(w, err)
		return
	}

	fields, err := ctrl.store.ReadAllFields(req.Context(), key)
	if err != nil {
		ctrl.respondErr(w, fmt.Errorf("reading fields from store: %w", err))
		return
	}

	_ = http_helpers.RespondOK(w, dto.NewHash(key, fields))
}

func (ctrl *HttpController) deleteHashHandler(w http.ResponseWriter, req *http.Request) {
	key, err := keyFromRequest(req)
	if err != nil {
		ctrl.respondErr(w, err)
		return
	}

	if err := ctrl.store.DeleteKey(req.Context(), key); err != nil {
		ctrl.respondErr(w, fmt.Errorf("deleting key from store: %w", err))
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) putFieldsHandler(w http.ResponseWriter, req *http.Request) {
	key, err := keyFromRequest(req)
	if err != nil {
		ctrl.respondErr(w, err)
		return
	}

	dtoHash := dto.Hash{}
	if err := json.NewDecoder(req.Body).Decode(&dtoHash); err != nil {
		ctrl.respondErr(w, model.InvalidArgumentError{Arg: "body", Reason: err.Error()})
		return
	}

	fields, err := dto.HashToModel(dtoHash)
	if err != nil {
		ctrl.respondErr(w, model.InvalidArgumentError{Arg: "body", Reason: err.Error()})
		return
	}

	if err := ctrl.store.SetFields(req.Context(), key, fields); err != nil {
		ctrl.respondErr(w, fmt.Errorf("setting fields to store: %w", err))
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) deleteFieldsHandler(w http.ResponseWriter, req *http.Request) {
	key, err := keyFromRequest(req)
	if err != nil {
		ctrl.respondErr(w, err)
		return
	}

	if err := ctrl.store.DeleteFields(req.Context(), key, req.URL.Query()["field"]); err != nil {
		ctrl.respondErr(w, fmt.Errorf("deleting fields from store: %w", err))
		return
	}

	_ = http_helpers.RespondOK(w, nil)
}

func (ctrl *HttpController) respondErr(w http.ResponseWriter, err error) {
	ctrl.logger.Error().Err(err).Send()

	var argErr model.InvalidArgumentError
	if errors.As(err, &argErr) {
		_ = http_helpers.RespondWithErr(w, http.StatusBadRequest, err)
		return
	}
	_ = http_helpers.RespondWithErr(w, http.StatusInternalServerError, err)
}

func keyFromRequest(req *http.Request) (string, error) {
	raw, found := mux.Vars(req)["key"]
	if !found {
		return "", model.InvalidArgumentError{Arg: "key", Reason: "missing"}
	}

	key, err := url.PathUnescape(raw)
	if err != nil {
		return "", model.InvalidArgumentError{Arg: "key", Reason: err.Error()}
	}
	return key, nil
}
