package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FolioGenerator produces human-facing report identifiers of the form
// PREFIX-YYYYMMDD-XXXXXXXX where the suffix is 8 uppercase hex chars
// drawn from a random UUID. Collisions are practically impossible but a
// unique index on reports.folio backs the guarantee; creation retries
// on a duplicate key.
type FolioGenerator struct {
	prefix string
	now    func() time.Time
}

func NewFolioGenerator(prefix string) *FolioGenerator {
	if prefix == "" {
		prefix = "REP"
	}
	return &FolioGenerator{prefix: prefix, now: time.Now}
}

// Generate returns a fresh folio for the current date.
func (g *FolioGenerator) Generate() string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", g.prefix, g.now().Format("20060102"), random)
}
