// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"time"
)

// UploadStatus is the lifecycle state of a ProvisionalUpload.
type UploadStatus string

const (
	// UploadStatusUploading: the row exists, bytes may or may not have reached
	// the object store. Size is NULL.
	UploadStatusUploading UploadStatus = "uploading"
	// UploadStatusCompleted: the multipart upload was acknowledged and Size
	// holds the exact object length. Waiting to be claimed.
	UploadStatusCompleted UploadStatus = "completed"
)

// ProvisionalUpload is a ledger row tracking one object-store upload until it
// is claimed as a File. ID doubles as the object key.
type ProvisionalUpload struct {
	ID        string
	Status    UploadStatus
	Size      sql.NullInt64
	Owner     string
	CreatedAt time.Time
}
