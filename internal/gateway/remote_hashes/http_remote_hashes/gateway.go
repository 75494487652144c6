package http_remote_hashes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	controller_dto "github.com/horockey/dirtyhash/internal/controller/http_controller/dto"
	"github.com/horockey/dirtyhash/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

var _ model.Store = &httpRemoteHashes{}

type httpRemoteHashes struct {
	cl      *resty.Client
	metrics *metrics
	logger  zerolog.Logger
}

func New(
	baseURL string,
	apiKey string,
	logger zerolog.Logger,
) *httpRemoteHashes {
	return &httpRemoteHashes{
		metrics: newMetrics(),
		logger:  logger,
		cl: resty.New().
			SetBaseURL(baseURL).
			SetHeader("X-Api-Key", apiKey).
			SetRetryCount(0),
	}
}

func (gw *httpRemoteHashes) Metrics() []prometheus.Collector {
	return gw.metrics.list()
}

func (gw *httpRemoteHashes) ReadAllFields(
	ctx context.Context,
	key string,
) (res map[string]string, resErr error) {
	gw.logger.Debug().Str("key", key).Msg("Reading hash from remote")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return nil, err
	}

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Get("/hashes/{key}")
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	dtoHash := controller_dto.Hash{}
	if err := json.Unmarshal(resp.Body(), &dtoHash); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	fields, err := controller_dto.HashToModel(dtoHash)
	if err != nil {
		return nil, fmt.Errorf("converting dto hash to model: %w", err)
	}

	return fields, nil
}

func (gw *httpRemoteHashes) SetFields(
	ctx context.Context,
	key string,
	fields map[string]string,
) (resErr error) {
	gw.logger.Debug().Str("key", key).Int("fields", len(fields)).Msg("Setting fields on remote")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateSetFields(key, fields); err != nil {
		return err
	}

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetHeader("Content-Type", "application/json").
		SetBody(controller_dto.NewHash(key, fields)).
		Put("/hashes/{key}/fields")
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	return checkResponse(resp)
}

func (gw *httpRemoteHashes) DeleteFields(
	ctx context.Context,
	key string,
	fields []string,
) (resErr error) {
	gw.logger.Debug().Str("key", key).Strs("fields", fields).Msg("Deleting fields on remote")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateDeleteFields(key, fields); err != nil {
		return err
	}

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		SetQueryParamsFromValues(map[string][]string{"field": fields}).
		Delete("/hashes/{key}/fields")
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	return checkResponse(resp)
}

func (gw *httpRemoteHashes) DeleteKey(ctx context.Context, key string) (resErr error) {
	gw.logger.Debug().Str("key", key).Msg("Deleting hash on remote")
	defer gw.observe(time.Now(), &resErr)

	if err := model.ValidateKey(key); err != nil {
		return err
	}

	resp, err := gw.cl.R().
		SetContext(ctx).
		SetPathParam("key", key).
		Delete("/hashes/{key}")
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}

	return checkResponse(resp)
}

func (gw *httpRemoteHashes) observe(ts time.Time, resErr *error) {
	gw.metrics.requestsCnt.Inc()
	gw.metrics.handleTimeHist.Observe(float64(time.Since(ts)))

	switch *resErr {
	case nil:
		gw.metrics.successProcessCnt.Inc()
	default:
		gw.metrics.errProcessCnt.Inc()
	}
}

func checkResponse(resp *resty.Response) error {
	switch resp.StatusCode() {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return model.InvalidArgumentError{Arg: "request", Reason: resp.String()}
	default:
		return fmt.Errorf("got non-ok response (%s): %s", resp.Status(), resp.String())
	}
}
