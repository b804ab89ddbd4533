package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rowanmoss/faultdeck/internal/issues"
	"github.com/rowanmoss/faultdeck/internal/store"
	"github.com/rowanmoss/faultdeck/pkg/models"
)

// updateRequest is the wire shape of a PUT body. JSON and form-encoded
// bodies both normalize into this struct, and statusUpdate() folds the
// legacy spellings into the canonical intent.
type updateRequest struct {
	Status        *string               `json:"status"`
	StatusDetails *statusDetailsRequest `json:"statusDetails"`

	// Legacy flat spellings, still accepted.
	ResolvedInNextRelease bool   `json:"resolvedInNextRelease"`
	IgnoreDuration        int64  `json:"ignoreDuration"`
	IgnoreCount           *int64 `json:"ignoreCount"`
	IgnoreWindow          *int64 `json:"ignoreWindow"`
	IgnoreUserCount       *int64 `json:"ignoreUserCount"`
	IgnoreUserWindow      *int64 `json:"ignoreUserWindow"`

	IsBookmarked *bool   `json:"isBookmarked"`
	IsSubscribed *bool   `json:"isSubscribed"`
	HasSeen      *bool   `json:"hasSeen"`
	IsPublic     *bool   `json:"isPublic"`
	AssignedTo   *string `json:"assignedTo"`
	Merge        bool    `json:"merge"`
	Discard      bool    `json:"discard"`
}

type statusDetailsRequest struct {
	InRelease        string `json:"inRelease"`
	InNextRelease    bool   `json:"inNextRelease"`
	IgnoreDuration   int64  `json:"ignoreDuration"`
	IgnoreCount      *int64 `json:"ignoreCount"`
	IgnoreWindow     *int64 `json:"ignoreWindow"`
	IgnoreUserCount  *int64 `json:"ignoreUserCount"`
	IgnoreUserWindow *int64 `json:"ignoreUserWindow"`
}

func decodeUpdateRequest(r *http.Request) (*updateRequest, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return nil, &issues.ValidationError{Field: "body", Message: "malformed form body"}
		}
		return parseUpdateForm(r.PostForm)
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &issues.ValidationError{Field: "body", Message: "malformed JSON body"}
	}
	return &req, nil
}

func parseUpdateForm(values url.Values) (*updateRequest, error) {
	req := &updateRequest{}
	if v := values.Get("status"); v != "" {
		req.Status = &v
	}
	var err error
	if req.ResolvedInNextRelease, err = formBool(values, "resolvedInNextRelease"); err != nil {
		return nil, err
	}
	if req.Merge, err = formBool(values, "merge"); err != nil {
		return nil, err
	}
	if req.Discard, err = formBool(values, "discard"); err != nil {
		return nil, err
	}
	if req.IsBookmarked, err = formBoolPtr(values, "isBookmarked"); err != nil {
		return nil, err
	}
	if req.IsSubscribed, err = formBoolPtr(values, "isSubscribed"); err != nil {
		return nil, err
	}
	if req.HasSeen, err = formBoolPtr(values, "hasSeen"); err != nil {
		return nil, err
	}
	if req.IsPublic, err = formBoolPtr(values, "isPublic"); err != nil {
		return nil, err
	}
	if values.Has("assignedTo") {
		v := values.Get("assignedTo")
		req.AssignedTo = &v
	}
	if req.IgnoreDuration, err = formInt64(values, "ignoreDuration"); err != nil {
		return nil, err
	}
	if req.IgnoreCount, err = formInt64Ptr(values, "ignoreCount"); err != nil {
		return nil, err
	}
	if req.IgnoreWindow, err = formInt64Ptr(values, "ignoreWindow"); err != nil {
		return nil, err
	}
	if req.IgnoreUserCount, err = formInt64Ptr(values, "ignoreUserCount"); err != nil {
		return nil, err
	}
	if req.IgnoreUserWindow, err = formInt64Ptr(values, "ignoreUserWindow"); err != nil {
		return nil, err
	}
	return req, nil
}

func formBool(values url.Values, key string) (bool, error) {
	if !values.Has(key) {
		return false, nil
	}
	b, err := strconv.ParseBool(values.Get(key))
	if err != nil {
		return false, &issues.ValidationError{Field: key, Message: "must be a boolean"}
	}
	return b, nil
}

func formBoolPtr(values url.Values, key string) (*bool, error) {
	if !values.Has(key) {
		return nil, nil
	}
	b, err := strconv.ParseBool(values.Get(key))
	if err != nil {
		return nil, &issues.ValidationError{Field: key, Message: "must be a boolean"}
	}
	return &b, nil
}

func formInt64(values url.Values, key string) (int64, error) {
	if !values.Has(key) {
		return 0, nil
	}
	n, err := strconv.ParseInt(values.Get(key), 10, 64)
	if err != nil {
		return 0, &issues.ValidationError{Field: key, Message: "must be an integer"}
	}
	return n, nil
}

func formInt64Ptr(values url.Values, key string) (*int64, error) {
	if !values.Has(key) {
		return nil, nil
	}
	n, err := strconv.ParseInt(values.Get(key), 10, 64)
	if err != nil {
		return nil, &issues.ValidationError{Field: key, Message: "must be an integer"}
	}
	return &n, nil
}

// statusUpdate normalizes the request's status fields into one canonical
// intent, or nil when the request does not change status.
func (req *updateRequest) statusUpdate() (*issues.StatusUpdate, error) {
	status := req.Status
	if status == nil && req.ResolvedInNextRelease {
		legacy := "resolvedInNextRelease"
		status = &legacy
	}
	if status == nil {
		return nil, nil
	}

	details := req.StatusDetails
	if details == nil {
		details = &statusDetailsRequest{}
	}

	su := &issues.StatusUpdate{}
	switch *status {
	case "resolved":
		su.Status = models.GroupStatusResolved
		su.InRelease = details.InRelease
		su.InNextRelease = details.InNextRelease
	case "resolvedInNextRelease":
		su.Status = models.GroupStatusResolved
		su.InNextRelease = true
	case "unresolved":
		su.Status = models.GroupStatusUnresolved
	case "ignored", "muted":
		su.Status = models.GroupStatusIgnored
		su.IgnoreDuration = firstInt64(details.IgnoreDuration, req.IgnoreDuration)
		su.IgnoreCount = firstInt64Ptr(details.IgnoreCount, req.IgnoreCount)
		su.IgnoreWindow = firstInt64Ptr(details.IgnoreWindow, req.IgnoreWindow)
		su.IgnoreUserCount = firstInt64Ptr(details.IgnoreUserCount, req.IgnoreUserCount)
		su.IgnoreUserWindow = firstInt64Ptr(details.IgnoreUserWindow, req.IgnoreUserWindow)
	default:
		return nil, &issues.ValidationError{Field: "status", Message: "invalid status " + strconv.Quote(*status)}
	}
	return su, nil
}

func firstInt64(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}

func firstInt64Ptr(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}

// parseSelection reads the shared selection query params: repeated ids, a
// search query, and the legacy status filter.
func parseSelection(values url.Values) ([]int64, string, *models.GroupStatus, error) {
	var ids []int64
	for _, raw := range values["id"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, "", nil, &issues.ValidationError{Field: "id", Message: "must be an integer"}
		}
		ids = append(ids, id)
	}

	var statusFilter *models.GroupStatus
	if label := values.Get("status"); label != "" {
		status, ok := models.GroupStatusFromLabel(label)
		if !ok {
			return nil, "", nil, &issues.ValidationError{Field: "status", Message: "unknown status " + strconv.Quote(label)}
		}
		statusFilter = &status
	}

	return ids, values.Get("query"), statusFilter, nil
}

// parseListParams reads the listing-only query params.
func parseListParams(values url.Values) (store.GroupSort, int, error) {
	switch values.Get("statsPeriod") {
	case "", "24h", "14d":
	default:
		return "", 0, &issues.ValidationError{Field: "statsPeriod", Message: "must be one of 24h, 14d"}
	}

	sort := store.SortDate
	switch values.Get("sort_by") {
	case "", "date":
	case "new":
		sort = store.SortNew
	case "freq":
		sort = store.SortFreq
	default:
		return "", 0, &issues.ValidationError{Field: "sort_by", Message: "must be one of date, new, freq"}
	}

	limit := 0
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return "", 0, &issues.ValidationError{Field: "limit", Message: "must be a positive integer"}
		}
		limit = n
	}
	return sort, limit, nil
}
