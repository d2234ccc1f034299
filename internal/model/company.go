package model

// Company represents a row in the `companies` table.  Companies are seeded
// when the database is initialised and are read-only afterwards.
type Company struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
