package domain

import "time"

type Review struct {
	ID        int64
	ProductID int64
	Rating    int
	Text      string
	CreatedAt time.Time
}
