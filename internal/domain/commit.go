package domain

import "time"

// CommitRecord is the local audit entry for one order commit attempt.
type CommitRecord struct {
	ID          string
	ContentType ContentType
	ItemCount   int
	Succeeded   bool
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

func (r CommitRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
