// model/person.go
package model

import "time"

type ReaderStatus string

const (
	ReaderActive    ReaderStatus = "ACTIVO"
	ReaderSuspended ReaderStatus = "SUSPENDIDO"
)

func ParseReaderStatus(s string) (ReaderStatus, bool) {
	switch ReaderStatus(s) {
	case ReaderActive, ReaderSuspended:
		return ReaderStatus(s), true
	}
	return "", false
}

// Zone is the physical library location a reader belongs to.
type Zone string

const (
	ZoneCentral Zone = "CENTRAL"
	ZoneNorte   Zone = "NORTE"
	ZoneSur     Zone = "SUR"
	ZoneEste    Zone = "ESTE"
	ZoneOeste   Zone = "OESTE"
)

// Zones returns every defined zone, in report order. Reports iterate this
// list so that zones without loans still show up.
func Zones() []Zone {
	return []Zone{ZoneCentral, ZoneNorte, ZoneSur, ZoneEste, ZoneOeste}
}

func ParseZone(s string) (Zone, bool) {
	for _, z := range Zones() {
		if Zone(s) == z {
			return z, true
		}
	}
	return "", false
}

type Reader struct {
	Identifier   string       `json:"identifier" db:"identifier"`
	Name         string       `json:"name" db:"name"`
	Email        string       `json:"email" db:"email"`
	Address      string       `json:"address" db:"address"`
	Zone         Zone         `json:"zone" db:"zone"`
	Status       ReaderStatus `json:"status" db:"status"`
	RegisteredAt time.Time    `json:"registered_at" db:"registered_at"`
}

type Librarian struct {
	Identifier     string    `json:"identifier" db:"identifier"`
	EmployeeNumber string    `json:"employee_number" db:"employee_number"`
	Name           string    `json:"name" db:"name"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	RegisteredAt   time.Time `json:"registered_at" db:"registered_at"`
}
