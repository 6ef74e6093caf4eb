package rpc

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/Sultan099/ganache/log"
)

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      json.RawMessage   `json:"id"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeExecution      = -32015
)

func (e *RPCError) Error() string { return e.Message }

var serverLog = log.Default().Module("rpc")

// Server dispatches eth_call and eth_createAccessList over HTTP, with CORS
// enabled the way a locally-run development node needs it (arbitrary origin,
// browser-based dapp clients).
type Server struct {
	api       *EthAPI
	accessLog *log.Logger
}

// NewServer builds a Server around api. accessLog receives one record per
// dispatched call (method, duration, outcome); pass log.Default().Module(...)
// for a plain stderr access log, or a log.NewRotating logger to bound it to
// a rotated file.
func NewServer(api *EthAPI, accessLog *log.Logger) *Server {
	return &Server{api: api, accessLog: accessLog}
}

// Handler returns the http.Handler to mount: JSON-RPC at "/" and Prometheus
// metrics at "/metrics", both with CORS applied.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodPost, http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveHTTP)
	mux.Handle("/metrics", promhttp.Handler())
	return c.Handler(mux)
}

func (s *Server) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeResponse(w, errorResponse(nil, ErrCodeParse, "parse error"))
		return
	}
	writeResponse(w, s.dispatch(&req))
}

func (s *Server) dispatch(req *Request) *Response {
	switch req.Method {
	case "eth_call":
		return s.handleCall(req)
	case "eth_createAccessList":
		return s.handleCreateAccessList(req)
	default:
		serverLog.Warn("unsupported method", "method", req.Method)
		return errorResponse(req.ID, ErrCodeMethodNotFound, "method not found: "+req.Method)
	}
}

// callParams is the three-parameter shape both eth_call and
// eth_createAccessList accept: call args, block tag, optional overrides.
type callParams struct {
	args      CallArgs
	blockNum  BlockNumber
	overrides StateOverride
}

func parseCallParams(raw []json.RawMessage) (callParams, error) {
	var p callParams
	p.blockNum = LatestBlockNumber
	if len(raw) < 1 {
		return p, errParamsRequired
	}
	if err := json.Unmarshal(raw[0], &p.args); err != nil {
		return p, err
	}
	if len(raw) >= 2 {
		if err := json.Unmarshal(raw[1], &p.blockNum); err != nil {
			return p, err
		}
	}
	if len(raw) >= 3 {
		if err := json.Unmarshal(raw[2], &p.overrides); err != nil {
			return p, err
		}
	}
	return p, nil
}

var errParamsRequired = &RPCError{Code: ErrCodeInvalidParams, Message: "at least one parameter required"}

func (s *Server) handleCall(req *Request) *Response {
	start := time.Now()
	p, err := parseCallParams(req.Params)
	if err != nil {
		observeOutcome("eth_call", err)
		s.logAccess("eth_call", time.Since(start), err)
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	result, err := s.api.Call(p.args, p.blockNum, p.overrides)
	duration := time.Since(start)
	metrics.duration.WithLabelValues("eth_call").Observe(duration.Seconds())
	observeOutcome("eth_call", err)
	s.logAccess("eth_call", duration, err)
	if err != nil {
		return errorResponse(req.ID, ErrCodeExecution, err.Error())
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result.ReturnData}
}

func (s *Server) handleCreateAccessList(req *Request) *Response {
	start := time.Now()
	p, err := parseCallParams(req.Params)
	if err != nil {
		observeOutcome("eth_createAccessList", err)
		s.logAccess("eth_createAccessList", time.Since(start), err)
		return errorResponse(req.ID, ErrCodeInvalidParams, err.Error())
	}
	result, err := s.api.CreateAccessList(p.args, p.blockNum, p.overrides)
	duration := time.Since(start)
	metrics.duration.WithLabelValues("eth_createAccessList").Observe(duration.Seconds())
	observeOutcome("eth_createAccessList", err)
	s.logAccess("eth_createAccessList", duration, err)
	if err != nil {
		return errorResponse(req.ID, ErrCodeExecution, err.Error())
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) logAccess(method string, duration time.Duration, err error) {
	if s.accessLog == nil {
		return
	}
	if err != nil {
		s.accessLog.Info("request", "method", method, "durationMs", duration.Milliseconds(), "error", err.Error())
		return
	}
	s.accessLog.Info("request", "method", method, "durationMs", duration.Milliseconds())
}

func errorResponse(id json.RawMessage, code int, msg string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg}}
}

func writeResponse(w http.ResponseWriter, resp *Response) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
