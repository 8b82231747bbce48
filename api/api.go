package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/bodycomp-io/bodycomp-api/common"
)

type (
	// API struct for the bodycomp service
	API struct {
		charts          ChartDataUseCase
		exporter        ExporterUseCase
		databaseAdapter DatabaseAdapter
		logger          *logrus.Logger
	}

	apiStatus struct {
		Code   int    `json:"code"`
		Reason string `json:"reason"`
	}
)

const (
	// DataAPIPrefix logging prefix
	DataAPIPrefix = "api/bodycomp "
)

var (
	errorStatusCheck   = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_status_check", Message: "checking of the status endpoint showed an error"}
	errorLoadingStatus = common.DetailedError{Status: http.StatusInternalServerError, Code: "json_marshal_error", Message: "internal server error"}
)

func InitAPI(charts ChartDataUseCase, exporter ExporterUseCase, dbAdapter DatabaseAdapter, logger *logrus.Logger) *API {
	return &API{
		charts:          charts,
		exporter:        exporter,
		databaseAdapter: dbAdapter,
		logger:          logger,
	}
}

// SetHandlers set the API routes
func (a *API) SetHandlers(prefix string, rtr *mux.Router) {

	a.setHandlers(prefix+"/v1", rtr)

	rtr.HandleFunc(prefix+"/export", a.middleware(a.exportData)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/status", a.getStatus).Methods(http.MethodGet)
}

func (a *API) setHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/measurements", a.middleware(a.getScatter)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/time-progression", a.middleware(a.getTimeProgression)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/variation-card", a.middleware(a.getVariationCards)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/monthly-stats", a.middleware(a.getMonthlyStats)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/range", a.middleware(a.getDataRange)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/{.*}", a.middleware(a.getNotFound)).Methods(http.MethodGet)
}

func (a *API) getNotFound(ctx context.Context, res *common.HttpResponseWriter) error {
	res.WriteHeader(http.StatusNotFound)
	return nil
}

// getStatus returns the api status, checking the measurement store
// connection on the way.
func (a *API) getStatus(res http.ResponseWriter, req *http.Request) {
	start := time.Now()
	var s apiStatus
	if err := a.databaseAdapter.Ping(); err != nil {
		errorLog := errorStatusCheck.SetInternalMessage(err)
		a.logError(&errorLog, start)
		s = apiStatus{Code: errorLog.Status, Reason: err.Error()}
	} else {
		s = apiStatus{Code: http.StatusOK, Reason: "OK"}
	}
	if jsonDetails, err := json.Marshal(s); err != nil {
		a.jsonError(res, errorLoadingStatus.SetInternalMessage(err), start)
	} else {
		res.Header().Add("content-type", "application/json")
		res.WriteHeader(s.Code)
		res.Write(jsonDetails)
	}
}

// log error detail and write as application/json
func (a *API) jsonError(res http.ResponseWriter, err common.DetailedError, startedAt time.Time) {
	a.logError(&err, startedAt)
	jsonErr, _ := json.Marshal(err)

	res.Header().Add("content-type", "application/json")
	res.WriteHeader(err.Status)
	res.Write(jsonErr)
}

func (a *API) logError(err *common.DetailedError, startedAt time.Time) {
	err.ID = uuid.New().String()
	a.logger.Error(DataAPIPrefix, fmt.Sprintf("[%s][%s] failed after [%.3f]secs with error [%s][%s] ", err.ID, err.Code, time.Since(startedAt).Seconds(), err.Message, err.InternalMessage))
}
