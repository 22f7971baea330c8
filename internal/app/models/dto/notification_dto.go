package dto

// RecipientConfigRequest mirrors the recipient selection parameters accepted
// by the notification endpoints
type RecipientConfigRequest struct {
	Type          string   `json:"type" binding:"required"`
	DepartmentIDs []int64  `json:"departmentIds,omitempty"`
	Levels        []string `json:"levels,omitempty"`
	DepartmentID  *int64   `json:"departmentId,omitempty"`
	StudentIDs    []int64  `json:"studentIds,omitempty"`
	Emails        []string `json:"emails,omitempty"`
}

// SendNotificationRequest represents a bulk notification send
type SendNotificationRequest struct {
	Recipients RecipientConfigRequest `json:"recipients" binding:"required"`
	Subject    string                 `json:"subject" binding:"required"`
	Body       string                 `json:"body" binding:"required"`
}

// RefreshCacheRequest represents a cache refresh for a student selection
type RefreshCacheRequest struct {
	StudentIDs []int64 `json:"studentIds,omitempty"`
}
