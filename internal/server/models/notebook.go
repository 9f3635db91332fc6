package models

import "time"

// Notebook is the stored notebook of one user. Payload is the JSON document
// exactly as the client sent it; Version and UpdatedAt are kept alongside so
// they can be read without parsing the payload.
type Notebook struct {
	UserID    string
	Payload   string
	Version   int64
	UpdatedAt time.Time
}
