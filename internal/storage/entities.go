package storage

import "time"

type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type ListFilter struct {
	Prefix string
	Limit  int
	Offset int
}
