package domain

// Role is a semantic column role the pipeline knows how to read.
type Role string

// Semantic roles detected in the header row.
const (
	RoleGenre      Role = "genre"
	RoleEra        Role = "era"
	RoleScore      Role = "score"
	RoleTitle      Role = "title"
	RoleAuthor     Role = "author"
	RoleIdentifier Role = "identifier"
	RoleYear       Role = "year" // optional fallback for era
)

// Roles lists all roles in reporting order.
//
//nolint:gochecknoglobals // Closed enumeration
var Roles = []Role{RoleGenre, RoleEra, RoleScore, RoleTitle, RoleAuthor, RoleIdentifier, RoleYear}

// ColumnMap maps semantic roles onto header names of one dataset.
// It is built once by the column resolver and read-only afterwards.
type ColumnMap struct {
	columns map[Role]string
}

// NewColumnMap copies the given assignments into a ColumnMap.
// Empty column names are treated as undetected.
func NewColumnMap(assign map[Role]string) ColumnMap {
	columns := make(map[Role]string, len(assign))
	for role, col := range assign {
		if col != "" {
			columns[role] = col
		}
	}
	return ColumnMap{columns: columns}
}

// Get returns the column bound to role and whether one was detected.
func (m ColumnMap) Get(role Role) (string, bool) {
	col, ok := m.columns[role]
	return col, ok
}

// Column returns the column bound to role, or "".
func (m ColumnMap) Column(role Role) string {
	return m.columns[role]
}

// Has reports whether role was detected.
func (m ColumnMap) Has(role Role) bool {
	_, ok := m.columns[role]
	return ok
}

// Detected returns a copy of the role assignments, keyed by role name.
func (m ColumnMap) Detected() map[string]string {
	out := make(map[string]string, len(m.columns))
	for role, col := range m.columns {
		out[string(role)] = col
	}
	return out
}

// Missing returns the roles from required that were not detected, in the
// order given.
func (m ColumnMap) Missing(required ...Role) []Role {
	var missing []Role
	for _, role := range required {
		if !m.Has(role) {
			missing = append(missing, role)
		}
	}
	return missing
}
