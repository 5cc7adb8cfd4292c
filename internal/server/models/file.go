package models

import "time"

// File is the permanent, user-visible record of a claimed upload. Key is the
// ID of the ProvisionalUpload it was claimed from and names the object in
// the store.
type File struct {
	Key          string
	Name         string
	LastModified time.Time
	Size         int64
	Owner        string
}
