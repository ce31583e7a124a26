package repositories

import (
	"time"

	"github.com/google/uuid"
)

type BaseModel struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Venue struct {
	BaseModel
	Name        string `db:"name"`
	Slug        string `db:"slug"`
	Street      string `db:"street"`
	City        string `db:"city"`
	County      string `db:"county"`
	Country     string `db:"country"`
	Description string `db:"description"`
	Featured    bool   `db:"featured"`
}

type Band struct {
	BaseModel
	Name         string `db:"name"`
	Slug         string `db:"slug"`
	Bio          string `db:"bio"`
	LocationText string `db:"location_text"`
	Featured     bool   `db:"featured"`
}

type Gig struct {
	BaseModel
	Title          string    `db:"title"`
	Slug           string    `db:"slug"`
	VenueID        uuid.UUID `db:"venue_id"`
	HeadlinerID    uuid.UUID `db:"headliner_id"`
	Date           time.Time `db:"date"`
	TicketPrice    float64   `db:"ticket_price"`
	TicketURL      string    `db:"ticket_url"`
	Description    string    `db:"description"`
	Poster         string    `db:"poster"`
	Status         string    `db:"status"`
	AgeRestriction string    `db:"age_restriction"`
	Featured       bool      `db:"featured"`
	Source         string    `db:"source"`
	SourceID       string    `db:"source_id"`
	SourceURL      string    `db:"source_url"`
	ImportedAt     time.Time `db:"imported_at"`
}
