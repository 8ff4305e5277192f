package rubric

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Role is the logical meaning of a rubric column.
type Role int

const (
	RoleCategory Role = iota
	RoleMetric
	RoleDescription
	RoleKeywords
	RolePoints
	RoleTotal
)

var roleNames = [...]string{"Category", "Metric", "Description", "Keywords", "Points", "Total"}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// The source rubrics spell "criteria" both ways.
var criteriaSpellings = []string{"criteria", "creteria"}

func hasCriteria(s string) bool {
	for _, sp := range criteriaSpellings {
		if strings.Contains(s, sp) {
			return true
		}
	}
	return false
}

// Classify returns every role a header cell matches, in role order.
// A header matching no rule returns nil.
func Classify(header string) []Role {
	h := strings.ToLower(strings.TrimSpace(header))
	var roles []Role
	if hasCriteria(h) && !strings.Contains(h, "scoring") {
		roles = append(roles, RoleCategory)
	}
	if strings.Contains(h, "metric") {
		roles = append(roles, RoleMetric)
	}
	if hasCriteria(h) && strings.Contains(h, "scoring") {
		roles = append(roles, RoleDescription)
	}
	if strings.Contains(h, "key words") {
		roles = append(roles, RoleKeywords)
	}
	if strings.Contains(h, "score attributed") {
		roles = append(roles, RolePoints)
	}
	if strings.Contains(h, "total score") {
		roles = append(roles, RoleTotal)
	}
	return roles
}

// ColumnMap maps each role to a column index.
type ColumnMap map[Role]int

// MapColumns classifies a header row. When several columns claim the same
// role the rightmost one wins.
func MapColumns(header []string) ColumnMap {
	cm := ColumnMap{}
	for i, h := range header {
		for _, role := range Classify(h) {
			cm[role] = i
		}
	}
	return cm
}

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	Role Role
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("rubric header has no %s column", e.Role)
}

func (cm ColumnMap) require(roles ...Role) error {
	for _, r := range roles {
		if _, ok := cm[r]; !ok {
			return &MissingColumnError{Role: r}
		}
	}
	return nil
}

// ErrHeaderNotFound is returned when no row carries both header markers and
// no explicit header row was configured.
var ErrHeaderNotFound = errors.New("rubric header row not found")

func isHeaderRow(row []string) bool {
	s := strings.ToLower(strings.Join(row, " "))
	criteria := false
	for _, sp := range criteriaSpellings {
		if strings.Contains(s, "scoring "+sp) {
			criteria = true
			break
		}
	}
	points := strings.Contains(s, "points attributed") || strings.Contains(s, "score attributed")
	return criteria && points
}

// FindHeader scans rows top-down for the header row.
func FindHeader(t Table) (int, error) {
	for i, row := range t {
		if isHeaderRow(row) {
			return i, nil
		}
	}
	return -1, ErrHeaderNotFound
}
