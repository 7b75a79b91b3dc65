package ingestion_engine

import "github.com/Halcy0nic/Uplest/internal/models"

// Accumulator is the ordered, append-only set of records built during one run.
// Append never mutates its receiver, so handlers take an accumulator and hand
// back the extended one.
type Accumulator struct {
	records []models.Record
}

func (a Accumulator) Append(recs ...models.Record) Accumulator {
	if len(recs) == 0 {
		return a
	}
	next := make([]models.Record, 0, len(a.records)+len(recs))
	next = append(next, a.records...)
	next = append(next, recs...)
	return Accumulator{records: next}
}

func (a Accumulator) Len() int { return len(a.records) }

// Records returns a copy in insertion order.
func (a Accumulator) Records() []models.Record {
	out := make([]models.Record, len(a.records))
	copy(out, a.records)
	return out
}
