package domain

import "time"

// Domain contains the Doxly resource models exchanged with the backend.

type Project struct {
	ID           int        `json:"id,omitempty"`
	Name         string     `json:"name"`
	Code         string     `json:"code,omitempty"`
	FolderPath   string     `json:"folder_path,omitempty"`
	Trade        string     `json:"trade,omitempty"`
	SubTrade     string     `json:"sub_trade,omitempty"`
	Abbreviation string     `json:"abbreviation,omitempty"`
	Description  string     `json:"description,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

type Document struct {
	ID            int        `json:"id,omitempty"`
	Project       *int       `json:"project,omitempty"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	ReferenceCode string     `json:"reference_code,omitempty"`
	FileName      string     `json:"file_name,omitempty"`
	FileSize      int64      `json:"file_size,omitempty"`
	FileType      string     `json:"file_type,omitempty"`
	Version       int        `json:"version,omitempty"`
	Status        string     `json:"status,omitempty"`
	IsShared      bool       `json:"is_shared,omitempty"`
	DocID         string     `json:"doc_id,omitempty"`
	UploadedAt    *time.Time `json:"uploaded_at,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
}

type WorkflowStage struct {
	ID               int    `json:"id,omitempty"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Sequence         int    `json:"sequence"`
	RequiresApproval bool   `json:"requires_approval"`
}

type DocumentWorkflow struct {
	ID           int        `json:"id,omitempty"`
	Document     int        `json:"document"`
	CurrentStage *int       `json:"current_stage,omitempty"`
	Status       string     `json:"status,omitempty"`
	AssignedTo   *int       `json:"assigned_to,omitempty"`
	ReviewedBy   *int       `json:"reviewed_by,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

type Notification struct {
	ID             int        `json:"id,omitempty"`
	RecipientEmail string     `json:"recipient_email,omitempty"`
	Subject        string     `json:"subject"`
	Body           string     `json:"body,omitempty"`
	Status         string     `json:"status,omitempty"`
	IsRead         bool       `json:"is_read"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
}
