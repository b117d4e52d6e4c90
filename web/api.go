package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kmaddali/mailmon/collect"
	"github.com/kmaddali/mailmon/db"
	"github.com/kmaddali/mailmon/export"
)

const missingParamsMessage = "Missing email or date parameters"

func (s *Server) routes(r *mux.Router) {
	r.HandleFunc("/", s.HomeHandler).Methods("GET")
	r.HandleFunc("/dashboard", s.DashboardHandler).Methods("GET")
	r.HandleFunc("/sent_details", s.SentDetailsHandler).Methods("GET")
	r.Handle("/save_emails_to_file",
		RequestSizeLimitMiddleware(SaveRequestMaxBodySize)(http.HandlerFunc(s.SaveEmailsHandler))).Methods("POST")
	r.HandleFunc("/sync_status", s.SyncStatusHandler).Methods("GET")

	api := r.PathPrefix("/api/").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]bool{"ok": true})
	})
	api.HandleFunc("/queries", s.ListQueriesHandler).Methods("GET").Queries("page", "{page}")
	api.HandleFunc("/queries", s.ListQueriesHandler).Methods("GET")
}

func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Welcome to Email Monitor API (Google Workspace version)"))
}

func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	email := query.Get("email")
	startDate := query.Get("start")
	endDate := query.Get("end")
	if email == "" || startDate == "" || endDate == "" {
		writeJSONResponse(w, errorResponse{Error: missingParamsMessage}, http.StatusBadRequest)
		return
	}

	dateQuery, err := collect.BuildDateQuery(startDate, endDate)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	client, err := s.resolver.Resolve(r.Context(), email)
	if err != nil {
		slog.Error("Failed to resolve delegated credentials", "mailbox", email, "error", err)
		writeQueryError(w, err)
		return
	}

	dateRange := startDate + " to " + endDate
	queryId, err := db.LogQueryStart("counts", email, dateRange, dateQuery)
	if err != nil {
		slog.Error("Failed to log query start", "mailbox", email, "error", err)
	}

	count := collect.CountMessages
	if query.Get("dedupe") == "threads" {
		count = collect.CountThreads
	}

	sent, err := count(r.Context(), client, email, collect.SentQuery(dateQuery))
	if err != nil {
		s.failQuery(w, queryId, email, err)
		return
	}
	received, err := count(r.Context(), client, email, collect.ReceivedQuery(dateQuery))
	if err != nil {
		s.failQuery(w, queryId, email, err)
		return
	}

	if err := db.MarkQueryComplete(queryId, sent, received); err != nil {
		slog.Error("Failed to mark query complete", "query_id", queryId, "error", err)
	}
	slog.Info("Finished count query", "mailbox", email, "sent", sent, "received", received)

	writeJSONResponse(w, dashboardResponse{
		Sent:      sent,
		Received:  received,
		DateRange: dateRange,
	}, http.StatusOK)
}

func (s *Server) SentDetailsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	email := query.Get("email")
	startDate := query.Get("start")
	endDate := query.Get("end")
	if email == "" || startDate == "" || endDate == "" {
		writeJSONResponse(w, errorResponse{Error: missingParamsMessage}, http.StatusBadRequest)
		return
	}

	dateQuery, err := collect.BuildDateQuery(startDate, endDate)
	if err != nil {
		writeQueryError(w, err)
		return
	}

	client, err := s.resolver.Resolve(r.Context(), email)
	if err != nil {
		slog.Error("Failed to resolve delegated credentials", "mailbox", email, "error", err)
		writeQueryError(w, err)
		return
	}

	dateRange := startDate + " to " + endDate
	queryId, err := db.LogQueryStart("details", email, dateRange, dateQuery)
	if err != nil {
		slog.Error("Failed to log query start", "mailbox", email, "error", err)
	}

	details, err := collect.SentEmailDetails(r.Context(), client, email, collect.SentQuery(dateQuery))
	if err != nil {
		s.failQuery(w, queryId, email, err)
		return
	}

	if err := db.MarkQueryComplete(queryId, len(details), 0); err != nil {
		slog.Error("Failed to mark query complete", "query_id", queryId, "error", err)
	}
	slog.Info("Finished details query", "mailbox", email, "messages", len(details))

	writeJSONResponse(w, sentDetailsResponse{EmailDetails: details}, http.StatusOK)
}

func (s *Server) SaveEmailsHandler(w http.ResponseWriter, r *http.Request) {
	decoder := json.NewDecoder(r.Body)
	var saveRequest SaveEmailsRequest
	err := decoder.Decode(&saveRequest)
	if handleMaxBytesError(w, r, err, SaveRequestMaxBodySize) {
		return
	}
	if err != nil {
		slog.Error("Failed to decode save request", "error", err)
		writeJSONResponse(w, errorResponse{Error: "Invalid request body"}, http.StatusBadRequest)
		return
	}

	if err := export.SaveEmailList(s.config.EmailsFilePath, saveRequest.Emails); err != nil {
		slog.Error("Failed to save email list", "path", s.config.EmailsFilePath, "error", err)
		writeJSONResponse(w, errorResponse{Error: "Failed to save emails"}, http.StatusInternalServerError)
		return
	}

	// The bucket mirror is best effort: the local file is the source of
	// truth and a mirror failure does not fail the request.
	if s.config.StorageBucket != "" {
		objectName := filepath.Base(s.config.EmailsFilePath)
		if err := export.MirrorToBucket(r.Context(), s.config.StorageBucket, objectName, saveRequest.Emails); err != nil {
			slog.Warn("Failed to mirror email list to bucket",
				"bucket", s.config.StorageBucket,
				"object", objectName,
				"error", err)
		}
	}

	writeJSONResponse(w, saveEmailsResponse{Message: "Emails saved to file successfully"}, http.StatusOK)
}

func (s *Server) SyncStatusHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	email := query.Get("email")
	if email == "" {
		writeJSONResponse(w, errorResponse{Error: "Missing email parameter"}, http.StatusBadRequest)
		return
	}
	var lastKnownHistoryId uint64
	if raw := query.Get("history_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeJSONResponse(w, errorResponse{Error: "Invalid history_id parameter"}, http.StatusBadRequest)
			return
		}
		lastKnownHistoryId = parsed
	}

	client, err := s.resolver.Resolve(r.Context(), email)
	if err != nil {
		slog.Error("Failed to resolve delegated credentials", "mailbox", email, "error", err)
		writeQueryError(w, err)
		return
	}

	status, err := collect.MailboxSyncStatus(r.Context(), client, lastKnownHistoryId)
	if err != nil {
		slog.Error("Failed to probe mailbox sync status", "mailbox", email, "error", err)
		writeQueryError(w, err)
		return
	}
	writeJSONResponse(w, status, http.StatusOK)
}

func (s *Server) ListQueriesHandler(w http.ResponseWriter, r *http.Request) {
	pageNo := getPageNumber(mux.Vars(r))
	queryLog, totResults, err := db.GetQueryLogFromDb(pageNo)
	if err != nil {
		slog.Error("Failed to get query log from database",
			"page", pageNo,
			"error", err)
		writeJSONResponse(w, errorResponse{Error: "Failed to retrieve query log"}, http.StatusInternalServerError)
		return
	}

	pageInfo := PaginationInfo{Page: pageNo, Size: totResults}
	body := queryLogResponse{
		PageInfo: pageInfo,
		Queries:  queryLog,
	}
	writeJSONResponse(w, body, http.StatusOK)
}

// failQuery records the failure category in the audit log and writes the
// category-only error response.
func (s *Server) failQuery(w http.ResponseWriter, queryId int, email string, err error) {
	slog.Error("Gmail query failed", "mailbox", email, "error", err)
	if dbErr := db.MarkQueryFailed(queryId, collect.KindOf(err).String()); dbErr != nil {
		slog.Error("Failed to mark query failed", "query_id", queryId, "error", dbErr)
	}
	writeQueryError(w, err)
}

// writeQueryError maps the failure taxonomy onto the HTTP surface: input
// errors echo their validation reason with a 400; anything else reports the
// failure category only, never the underlying error text.
func writeQueryError(w http.ResponseWriter, err error) {
	if collect.KindOf(err) == collect.InvalidInput {
		writeJSONResponse(w, errorResponse{Error: collect.UserMessage(err)}, http.StatusBadRequest)
		return
	}
	writeJSONResponse(w, errorResponse{Error: "Failed to fetch Gmail data: " + collect.KindOf(err).String()}, http.StatusInternalServerError)
}

func getIntFromMap(vars map[string]string, field string) (int, bool) {
	field, present := vars[field]
	if !present {
		return 0, false
	}
	fieldInt, err := strconv.Atoi(field)
	if err != nil {
		return 0, false
	}
	return fieldInt, true
}

func getPageNumber(vars map[string]string) int {
	page, present := getIntFromMap(vars, "page")
	if !present {
		return 1
	}
	return page
}

// writeJSONResponse writes a JSON response with the given status code
func writeJSONResponse(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")

	serializedBody, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to marshal JSON", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)

	if _, err := w.Write(serializedBody); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

type PaginationInfo struct {
	Size int `json:"size"`
	Page int `json:"page"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type dashboardResponse struct {
	Sent      int    `json:"sent"`
	Received  int    `json:"received"`
	DateRange string `json:"date_range"`
}

type sentDetailsResponse struct {
	EmailDetails []collect.EmailDetail `json:"email_details"`
}

type SaveEmailsRequest struct {
	Emails []string `json:"emails"`
}

type saveEmailsResponse struct {
	Message string `json:"message"`
}

type queryLogResponse struct {
	PageInfo PaginationInfo `json:"pagination_info"`
	Queries  []db.QueryLog  `json:"queries"`
}
