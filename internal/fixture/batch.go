package fixture

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meray2212/sparkrock/internal/errs"
)

// csvHeader is the single header column the bulk-invite upload expects.
const csvHeader = "emails"

// Batch holds a bulk-invite payload: the generated addresses in issue
// order plus their CSV encoding.
type Batch struct {
	Emails []string
	CSV    []byte
}

// BulkEmailBatch generates n unique emails under the generator's collision
// policy and encodes them as the bulk-invite CSV: one "emails" header row
// followed by one address per row, in generation order.
func (g *Generator) BulkEmailBatch(n int) (Batch, error) {
	if n < 0 {
		return Batch{}, errs.New(errs.InvalidArgument, fmt.Sprintf("batch size must be non-negative, got %d", n))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	emails := make([]string, 0, n)
	for i := 0; i < n; i++ {
		email, err := g.emailLocked()
		if err != nil {
			return Batch{}, err
		}
		emails = append(emails, email)
	}

	encoded, err := encodeBatchCSV(emails)
	if err != nil {
		return Batch{}, err
	}
	return Batch{Emails: emails, CSV: encoded}, nil
}

func encodeBatchCSV(emails []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{csvHeader}); err != nil {
		return nil, errs.Wrap(errs.Internal, "writing bulk CSV header", err)
	}
	for _, email := range emails {
		if err := w.Write([]string{email}); err != nil {
			return nil, errs.Wrap(errs.Internal, "writing bulk CSV row", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errs.Wrap(errs.Internal, "flushing bulk CSV", err)
	}
	return buf.Bytes(), nil
}

// ParseBatchCSV decodes a bulk-invite payload back into its address list,
// validating the header row. Tests use it to round-trip batches.
func ParseBatchCSV(payload []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(payload))
	records, err := r.ReadAll()
	if err != nil {
		return nil, errs.Wrap(errs.InvalidArgument, "parsing bulk CSV", err)
	}
	if len(records) == 0 || len(records[0]) != 1 || records[0][0] != csvHeader {
		return nil, errs.New(errs.InvalidArgument, "bulk CSV must start with a single 'emails' header column")
	}
	emails := make([]string, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) != 1 {
			return nil, errs.New(errs.InvalidArgument, "bulk CSV rows must hold exactly one address")
		}
		emails = append(emails, row[0])
	}
	return emails, nil
}

// WriteFile writes the encoded CSV to path, creating parent directories.
// The bulk-invite upload step points the driver's file input at this path.
func (b Batch) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.Internal, "creating bulk CSV directory", err)
	}
	if err := os.WriteFile(path, b.CSV, 0o644); err != nil {
		return errs.Wrap(errs.Internal, "writing bulk CSV file", err)
	}
	return nil
}
