package domain

// Record is the canonical form of one valid input row.
// A Record only exists when genre, century and score all resolved; it is
// never partially populated.
type Record struct {
	Genre      GenreCode `json:"genre"`
	Century    int       `json:"century"`     // Century AH, within the active window
	YearApprox int       `json:"year_approx"` // Synthetic position inside the century
	LoveIndex  float64   `json:"love_index"`  // Clamped to [0,2]
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Identifier string    `json:"identifier"`
}

// Bucket is an aggregate over the records of one century.
// Buckets with no records are never produced.
type Bucket struct {
	Century int     `json:"century"`
	Mean    float64 `json:"mean"`
	N       int     `json:"n"`
}

// GenreSeries is the century series of a single genre.
type GenreSeries struct {
	Genre   GenreCode `json:"genre"`
	Label   string    `json:"label"`
	Buckets []Bucket  `json:"buckets"`
}
