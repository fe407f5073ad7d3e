package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/zivahealth/admin-console/internal/display"
	"github.com/zivahealth/admin-console/internal/domain"
	"github.com/zivahealth/admin-console/internal/service"
	"github.com/zivahealth/admin-console/internal/tableview"
	"github.com/zivahealth/admin-console/internal/upstream"
)

// APIHandlers exposes HTTP handlers for the console REST API.
type APIHandlers struct {
	logger     *slog.Logger
	aggregator *service.Aggregator
	health     *service.HealthService
	client     upstream.Client

	billing []domain.BillingRecord
	devices []domain.Device

	usersView   *tableview.View[domain.CombinedUserProfile]
	billingView *tableview.View[domain.BillingRecord]
	devicesView *tableview.View[domain.Device]

	nowFn func() time.Time
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, aggregator *service.Aggregator, health *service.HealthService, client upstream.Client, billing []domain.BillingRecord, devices []domain.Device) *APIHandlers {
	h := &APIHandlers{
		logger:      logger,
		aggregator:  aggregator,
		health:      health,
		client:      client,
		billing:     billing,
		devices:     devices,
		billingView: newBillingView(),
		devicesView: newDevicesView(),
		nowFn:       time.Now,
	}
	h.usersView = newUsersView(h.now)
	return h
}

// WithClock overrides the time source used for age and recency rendering.
func (h *APIHandlers) WithClock(nowFn func() time.Time) *APIHandlers {
	h.nowFn = nowFn
	return h
}

func (h *APIHandlers) now() time.Time {
	return h.nowFn().UTC()
}

// newUsersView declares the users table: its sortable columns and the
// derived fields free-text search matches against.
func newUsersView(nowFn func() time.Time) *tableview.View[domain.CombinedUserProfile] {
	columns := []tableview.Column[domain.CombinedUserProfile]{
		{Key: "name", String: func(p domain.CombinedUserProfile) string {
			return display.Name(p.UserProfile)
		}},
		{Key: "email", String: func(p domain.CombinedUserProfile) string {
			return p.Email
		}},
		{Key: "age", Number: func(p domain.CombinedUserProfile) float64 {
			if age, ok := display.Age(p.DateOfBirth, nowFn()); ok {
				return float64(age)
			}
			return tableview.SentinelNumber
		}},
		{Key: "gender", String: func(p domain.CombinedUserProfile) string {
			if p.Gender == nil || *p.Gender == "" {
				return tableview.SentinelString
			}
			return *p.Gender
		}},
		{Key: "riskGroup", String: func(p domain.CombinedUserProfile) string {
			if p.HealthProfile == nil || p.HealthProfile.RiskGroup == nil {
				return tableview.SentinelString
			}
			return string(*p.HealthProfile.RiskGroup)
		}},
		{Key: "lastLogin", Number: func(p domain.CombinedUserProfile) float64 {
			return float64(p.LastLoginAt.UnixMilli())
		}},
		{Key: "createdAt", Number: func(p domain.CombinedUserProfile) float64 {
			return float64(p.CreatedAt.UnixMilli())
		}},
		{Key: "status", Number: func(p domain.CombinedUserProfile) float64 {
			if p.IsActive {
				return 1
			}
			return 0
		}},
	}
	return tableview.New(columns,
		func(p domain.CombinedUserProfile) string { return display.Name(p.UserProfile) },
		func(p domain.CombinedUserProfile) string { return p.Email },
	)
}

func newBillingView() *tableview.View[domain.BillingRecord] {
	columns := []tableview.Column[domain.BillingRecord]{
		{Key: "customer", String: func(r domain.BillingRecord) string { return r.Customer }},
		{Key: "invoice", String: func(r domain.BillingRecord) string { return r.Invoice }},
		{Key: "date", Number: func(r domain.BillingRecord) float64 { return float64(r.Date.UnixMilli()) }},
		{Key: "status", String: func(r domain.BillingRecord) string { return string(r.Status) }},
		{Key: "amount", Number: func(r domain.BillingRecord) float64 { return r.Amount }},
	}
	return tableview.New(columns,
		func(r domain.BillingRecord) string { return r.Customer },
		func(r domain.BillingRecord) string { return r.Invoice },
	)
}

func newDevicesView() *tableview.View[domain.Device] {
	columns := []tableview.Column[domain.Device]{
		{Key: "serial", String: func(d domain.Device) string { return d.Serial }},
		{Key: "model", String: func(d domain.Device) string { return d.Model }},
		{Key: "assigned", String: func(d domain.Device) string {
			if d.AssignedTo == "" {
				return tableview.SentinelString
			}
			return d.AssignedTo
		}},
		{Key: "battery", Number: func(d domain.Device) float64 { return float64(d.Battery) }},
		{Key: "lastSync", Number: func(d domain.Device) float64 {
			if d.LastSyncAt == nil {
				return tableview.SentinelNumber
			}
			return float64(d.LastSyncAt.UnixMilli())
		}},
		{Key: "status", String: func(d domain.Device) string { return string(d.Status) }},
	}
	return tableview.New(columns,
		func(d domain.Device) string { return d.Serial },
		func(d domain.Device) string { return d.Model },
		func(d domain.Device) string { return d.AssignedTo },
	)
}

func (h *APIHandlers) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	combined, err := h.aggregator.CombineProfiles(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err, "failed to load users")
		return
	}

	query := tableQuery(r, "name")
	rows := h.usersView.Apply(combined, query)

	now := h.now()
	resp := listUsersResponse{
		Items: make([]userRowResponse, 0, len(rows)),
		Total: len(combined),
		Sort:  sortResponse{Key: query.SortKey, Direction: string(query.Direction)},
	}
	for _, row := range rows {
		resp.Items = append(resp.Items, toUserRow(row, now))
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleUser(w http.ResponseWriter, r *http.Request) {
	idPart := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getUser(w, r, id)
	case http.MethodPut:
		h.updateUser(w, r, id)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

func (h *APIHandlers) getUser(w http.ResponseWriter, r *http.Request, id int64) {
	combined, err := h.aggregator.CombinedProfile(r.Context(), id)
	if err != nil {
		h.writeUpstreamError(w, err, "failed to load user")
		return
	}
	respondJSON(w, http.StatusOK, toUserDetail(combined))
}

func (h *APIHandlers) updateUser(w http.ResponseWriter, r *http.Request, id int64) {
	var payload profileUpdateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.health.UpdateProfile(r.Context(), id, domain.ProfileUpdate{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
		AvatarURL:   payload.AvatarURL,
	})
	if err != nil {
		h.writeUpstreamError(w, err, "failed to update profile")
		return
	}

	respondJSON(w, http.StatusOK, toUserDetail(domain.CombinedUserProfile{UserProfile: updated}))
}

func (h *APIHandlers) handleRiskGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPatch {
		methodNotAllowed(w, http.MethodPatch)
		return
	}

	idPart := strings.TrimPrefix(r.URL.Path, "/api/health-profiles/")
	idPart = strings.Trim(strings.TrimSuffix(idPart, "/risk-group"), "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid health profile ID")
		return
	}

	var payload riskGroupRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var group *domain.RiskGroup
	if payload.RiskGroup != nil && *payload.RiskGroup != "" {
		g := domain.RiskGroup(*payload.RiskGroup)
		if !g.Valid() {
			writeError(w, http.StatusBadRequest, "invalid risk group")
			return
		}
		group = &g
	}

	current, err := h.findHealthProfile(r, id)
	if err != nil {
		h.writeUpstreamError(w, err, "failed to load health profile")
		return
	}
	if current == nil {
		writeError(w, http.StatusNotFound, "health profile not found")
		return
	}

	result, err := h.health.UpdateRiskGroup(r.Context(), *current, group)
	if err != nil {
		// The pre-mutation snapshot goes back to the caller so displayed
		// state rolls back to exactly what it was.
		respondJSON(w, upstreamStatus(err), riskGroupResponse{
			Profile: toHealthProfileResponse(&result),
			Error:   "risk group update failed",
		})
		return
	}

	respondJSON(w, http.StatusOK, riskGroupResponse{
		Profile: toHealthProfileResponse(&result),
	})
}

// findHealthProfile resolves a health profile by its own ID. The platform
// API has no direct lookup for that, only the full listing.
func (h *APIHandlers) findHealthProfile(r *http.Request, id int64) (*domain.HealthProfile, error) {
	profiles, err := h.client.ListHealthProfiles(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		if profiles[i].ID == id {
			clone := profiles[i].Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

func (h *APIHandlers) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := r.URL.Query()
	eventQuery := domain.EventQuery{
		Limit:     parseIntParam(query.Get("limit"), 10),
		Offset:    parseIntParam(query.Get("offset"), 0),
		Search:    query.Get("search"),
		StartDate: query.Get("startDate"),
		EndDate:   query.Get("endDate"),
		SortBy:    query.Get("sortBy"),
		SortOrder: query.Get("sortOrder"),
	}
	if v := query.Get("profileId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid profileId")
			return
		}
		eventQuery.ProfileID = &id
	}

	page, err := h.client.ListEvents(r.Context(), eventQuery)
	if err != nil {
		h.writeUpstreamError(w, err, "failed to load events")
		return
	}

	resp := eventsResponse{
		Items:      make([]eventResponse, 0, len(page.Data)),
		Total:      page.Total,
		Offset:     page.Offset,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}
	for _, ev := range page.Data {
		resp.Items = append(resp.Items, eventResponse{
			ID:        ev.ID,
			ProfileID: ev.ProfileID,
			Date:      formatTime(ev.Date),
			CreatedAt: formatTime(ev.CreatedAt),
			UpdatedAt: formatTimePtr(ev.UpdatedAt),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleBilling(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := tableQuery(r, "date")
	rows := h.billingView.Apply(h.billing, query)

	resp := billingResponse{
		Items: make([]billingRowResponse, 0, len(rows)),
		Total: len(h.billing),
		Sort:  sortResponse{Key: query.SortKey, Direction: string(query.Direction)},
	}
	for _, rec := range rows {
		resp.Items = append(resp.Items, billingRowResponse{
			ID:          rec.ID,
			Customer:    rec.Customer,
			Invoice:     rec.Invoice,
			Date:        formatTime(rec.Date),
			Status:      string(rec.Status),
			StatusLabel: rec.Status.Label(),
			Amount:      rec.Amount,
			Method:      rec.Method,
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleDevices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	query := tableQuery(r, "serial")
	rows := h.devicesView.Apply(h.devices, query)

	resp := devicesResponse{
		Items: make([]deviceRowResponse, 0, len(rows)),
		Total: len(h.devices),
		Sort:  sortResponse{Key: query.SortKey, Direction: string(query.Direction)},
	}
	for _, dev := range rows {
		assigned := dev.AssignedTo
		if assigned == "" {
			assigned = "Unassigned"
		}
		resp.Items = append(resp.Items, deviceRowResponse{
			ID:           dev.ID,
			Serial:       dev.Serial,
			Firmware:     dev.Firmware,
			Model:        dev.Model,
			AssignedTo:   assigned,
			Battery:      dev.Battery,
			BatteryLevel: display.BatteryLevel(dev.Battery),
			LastSyncAt:   formatTimePtr(dev.LastSyncAt),
			Status:       string(dev.Status),
			StatusLabel:  dev.Status.Label(),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *APIHandlers) handleRiskGroupAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	combined, err := h.aggregator.CombineProfiles(r.Context())
	if err != nil {
		h.writeUpstreamError(w, err, "failed to load analytics")
		return
	}

	respondJSON(w, http.StatusOK, analyticsResponse{
		Distribution: service.RiskGroupDistribution(combined),
		Summary:      service.Summarize(combined),
	})
}

// tableQuery extracts the shared table parameters from the request.
func tableQuery(r *http.Request, defaultKey string) tableview.Query {
	query := r.URL.Query()

	sortKey := query.Get("sortKey")
	if sortKey == "" {
		sortKey = defaultKey
	}
	direction := tableview.Ascending
	if strings.EqualFold(query.Get("sortOrder"), string(tableview.Descending)) {
		direction = tableview.Descending
	}

	return tableview.Query{
		Search:    query.Get("search"),
		SortKey:   sortKey,
		Direction: direction,
		MaxRows:   parseIntParam(query.Get("maxRows"), 0),
	}
}

func toUserRow(p domain.CombinedUserProfile, now time.Time) userRowResponse {
	row := userRowResponse{
		ID:             p.ID,
		Name:           display.Name(p.UserProfile),
		Initials:       display.Initials(p.UserProfile),
		Email:          p.Email,
		Gender:         p.Gender,
		RiskGroup:      "unassigned",
		RiskGroupLabel: "Unassigned",
		HasEvents:      p.HasEvents,
		IsActive:       p.IsActive,
		Status:         display.ActiveLabel(p.IsActive),
		LastLoginAt:    formatTime(p.LastLoginAt),
		LastActive:     display.TimeSinceLogin(p.LastLoginAt, now),
		CreatedAt:      formatTime(p.CreatedAt),
	}
	if age, ok := display.Age(p.DateOfBirth, now); ok {
		row.Age = &age
	}
	if p.HealthProfile != nil && p.HealthProfile.RiskGroup != nil {
		row.RiskGroup = string(*p.HealthProfile.RiskGroup)
		row.RiskGroupLabel = p.HealthProfile.RiskGroup.Label()
	}
	return row
}

func toUserDetail(p domain.CombinedUserProfile) userDetailResponse {
	return userDetailResponse{
		ID:            p.ID,
		Email:         p.Email,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		PhoneNumber:   p.PhoneNumber,
		AvatarURL:     p.AvatarURL,
		IsActive:      p.IsActive,
		LastLoginAt:   formatTime(p.LastLoginAt),
		CreatedAt:     formatTime(p.CreatedAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
		DateOfBirth:   p.DateOfBirth,
		Gender:        p.Gender,
		HasEvents:     p.HasEvents,
		HealthProfile: toHealthProfileResponse(p.HealthProfile),
	}
}

func toHealthProfileResponse(hp *domain.HealthProfile) *healthProfileResponse {
	if hp == nil {
		return nil
	}
	resp := &healthProfileResponse{
		ID:             hp.ID,
		ProfileID:      hp.ProfileID,
		Frequency:      hp.Frequency,
		RiskGroupLabel: domain.RiskGroupLabel(hp.RiskGroup),
		CreatedAt:      formatTime(hp.CreatedAt),
		UpdatedAt:      formatTime(hp.UpdatedAt),
	}
	if hp.RiskGroup != nil {
		g := string(*hp.RiskGroup)
		resp.RiskGroup = &g
	}
	return resp
}

// writeUpstreamError maps upstream failures onto console API responses. A
// 401 is forwarded as-is so the frontend can force re-authentication.
func (h *APIHandlers) writeUpstreamError(w http.ResponseWriter, err error, message string) {
	h.logger.Error(message, "error", err)
	status := upstreamStatus(err)
	if status == http.StatusUnauthorized {
		writeError(w, status, "unauthorized")
		return
	}
	writeError(w, status, message)
}

func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, upstream.ErrNoToken), errors.Is(err, upstream.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

type profileUpdateRequest struct {
	FirstName   *string `json:"firstName"`
	LastName    *string `json:"lastName"`
	PhoneNumber *string `json:"phoneNumber"`
	AvatarURL   *string `json:"avatarUrl"`
}

type riskGroupRequest struct {
	RiskGroup *string `json:"riskGroup"`
}

type sortResponse struct {
	Key       string `json:"key"`
	Direction string `json:"direction"`
}

type listUsersResponse struct {
	Items []userRowResponse `json:"items"`
	Total int               `json:"total"`
	Sort  sortResponse      `json:"sort"`
}

type userRowResponse struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Initials       string  `json:"initials"`
	Email          string  `json:"email"`
	Age            *int    `json:"age"`
	Gender         *string `json:"gender"`
	RiskGroup      string  `json:"riskGroup"`
	RiskGroupLabel string  `json:"riskGroupLabel"`
	HasEvents      bool    `json:"hasEvents"`
	IsActive       bool    `json:"isActive"`
	Status         string  `json:"status"`
	LastLoginAt    string  `json:"lastLoginAt"`
	LastActive     string  `json:"lastActive"`
	CreatedAt      string  `json:"createdAt"`
}

type userDetailResponse struct {
	ID            int64                  `json:"id"`
	Email         string                 `json:"email"`
	FirstName     *string                `json:"firstName"`
	LastName      *string                `json:"lastName"`
	PhoneNumber   *string                `json:"phoneNumber"`
	AvatarURL     *string                `json:"avatarUrl"`
	IsActive      bool                   `json:"isActive"`
	LastLoginAt   string                 `json:"lastLoginAt"`
	CreatedAt     string                 `json:"createdAt"`
	UpdatedAt     string                 `json:"updatedAt"`
	DateOfBirth   *string                `json:"dateOfBirth"`
	Gender        *string                `json:"gender"`
	HasEvents     bool                   `json:"hasEvents"`
	HealthProfile *healthProfileResponse `json:"healthProfile"`
}

type healthProfileResponse struct {
	ID             int64   `json:"id"`
	ProfileID      int64   `json:"profileId"`
	Frequency      string  `json:"frequency"`
	RiskGroup      *string `json:"riskGroup"`
	RiskGroupLabel string  `json:"riskGroupLabel"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

type riskGroupResponse struct {
	Profile *healthProfileResponse `json:"profile"`
	Error   string                 `json:"error,omitempty"`
}

type eventsResponse struct {
	Items      []eventResponse `json:"items"`
	Total      int             `json:"total"`
	Offset     int             `json:"offset"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

type eventResponse struct {
	ID        int64  `json:"id"`
	ProfileID int64  `json:"profileId"`
	Date      string `json:"date"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type billingResponse struct {
	Items []billingRowResponse `json:"items"`
	Total int                  `json:"total"`
	Sort  sortResponse         `json:"sort"`
}

type billingRowResponse struct {
	ID          int64   `json:"id"`
	Customer    string  `json:"customer"`
	Invoice     string  `json:"invoice"`
	Date        string  `json:"date"`
	Status      string  `json:"status"`
	StatusLabel string  `json:"statusLabel"`
	Amount      float64 `json:"amount"`
	Method      string  `json:"method"`
}

type devicesResponse struct {
	Items []deviceRowResponse `json:"items"`
	Total int                 `json:"total"`
	Sort  sortResponse        `json:"sort"`
}

type deviceRowResponse struct {
	ID           int64  `json:"id"`
	Serial       string `json:"serial"`
	Firmware     string `json:"firmware"`
	Model        string `json:"model"`
	AssignedTo   string `json:"assignedTo"`
	Battery      int    `json:"battery"`
	BatteryLevel string `json:"batteryLevel"`
	LastSyncAt   string `json:"lastSyncAt"`
	Status       string `json:"status"`
	StatusLabel  string `json:"statusLabel"`
}

type analyticsResponse struct {
	Distribution []service.RiskGroupSlice `json:"distribution"`
	Summary      service.ActivitySummary  `json:"summary"`
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(ts *time.Time) string {
	if ts == nil || ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
