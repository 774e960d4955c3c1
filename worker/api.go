package worker

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"dagsched/task"
)

// Api exposes the worker agent over HTTP: the per-task compute endpoints
// plus stats and health probes.
type Api struct {
	Address string
	Port    int
	Worker  *Worker
	Router  *chi.Mux
	logger  *zap.SugaredLogger
}

type ErrResponse struct {
	HTTPStatusCode int    `json:"status"`
	Message        string `json:"message"`
}

type TaskResponse struct {
	Node       string  `json:"node"`
	Value      int     `json:"value"`
	DurationMs float64 `json:"duration_ms"`
}

type ExecuteRequest struct {
	Value int `json:"value"`
}

func NewApi(address string, port int, w *Worker, logger *zap.SugaredLogger) *Api {

	a := &Api{
		Address: address,
		Port:    port,
		Worker:  w,
		logger:  logger,
	}
	a.initRouter()

	return a
}

func (a *Api) initRouter() {

	r := chi.NewRouter()
	r.Get("/healthz", a.HealthHandler)
	r.Get("/stats", a.StatsHandler)
	r.Get("/task/{value}", a.TaskHandler)
	r.Post("/execute", a.ExecuteHandler)

	a.Router = r
}

func (a *Api) Start() error {
	a.logger.Infow("worker agent listening", "node", a.Worker.Name, "addr", fmt.Sprintf("%s:%d", a.Address, a.Port), "cores", a.Worker.Cores)
	return http.ListenAndServe(fmt.Sprintf("%s:%d", a.Address, a.Port), a.Router)
}

func (a *Api) HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (a *Api) StatsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(GetStats(a.Worker))
}

func (a *Api) TaskHandler(w http.ResponseWriter, r *http.Request) {

	value, err := strconv.Atoi(chi.URLParam(r, "value"))
	if err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("task value must be an integer: %v", err))
		return
	}

	a.runTask(w, value)
}

func (a *Api) ExecuteHandler(w http.ResponseWriter, r *http.Request) {

	var req ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	a.runTask(w, req.Value)
}

func (a *Api) runTask(w http.ResponseWriter, value int) {

	if value < task.MinValue || value > task.MaxValue {
		a.writeError(w, http.StatusBadRequest, fmt.Sprintf("task value %d out of range [%d, %d]", value, task.MinValue, task.MaxValue))
		return
	}

	d, err := a.Worker.Execute(value)
	if err != nil {
		a.writeError(w, http.StatusInternalServerError, fmt.Sprintf("executing task: %v", err))
		return
	}

	resp := TaskResponse{
		Node:       a.Worker.Name,
		Value:      value,
		DurationMs: float64(d.Microseconds()) / 1000.0,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

func (a *Api) writeError(w http.ResponseWriter, code int, msg string) {

	a.logger.Warnw("request rejected", "node", a.Worker.Name, "status", code, "message", msg)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(ErrResponse{HTTPStatusCode: code, Message: msg})
}
