package feedback

import "time"

type Kind string

const (
	KindComplaint  Kind = "complaint"
	KindSuggestion Kind = "suggestion"
)

func (k Kind) Valid() bool {
	return k == KindComplaint || k == KindSuggestion
}

type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
)

// Entry es una queja o sugerencia que una cuenta externa presenta contra una
// tienda a la que tiene acceso.
type Entry struct {
	ID      string
	StoreID string
	OwnerID string

	Kind    Kind
	Subject string
	Message string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}
