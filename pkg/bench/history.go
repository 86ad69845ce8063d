package bench

import (
	"encoding/json"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
)

// RunRecord is the persisted summary of one benchmark run.
type RunRecord struct {
	Start         time.Time `json:"start"`
	Endpoint      string    `json:"endpoint"`
	Mode          Mode      `json:"mode"`
	Requested     int       `json:"requested"`
	Planned       int       `json:"planned"`
	Completed     int       `json:"completed"`
	Failed        int       `json:"failed"`
	DurationMs    int64     `json:"durationMs"`
	MeanLatencyMs int64     `json:"meanLatencyMs,omitempty"`
	Throughput    float64   `json:"throughput"`
}

func NewRunRecord(endpoint string, start time.Time, report *Report) RunRecord {
	record := RunRecord{
		Start:      start,
		Endpoint:   endpoint,
		Mode:       report.Mode,
		Requested:  report.Requested,
		Planned:    report.Planned,
		Completed:  report.Calls(),
		Failed:     report.Failed,
		DurationMs: report.Duration.Milliseconds(),
		Throughput: report.Throughput(),
	}
	if mean, err := report.MeanLatency(); err == nil {
		record.MeanLatencyMs = mean.Milliseconds()
	}
	return record
}

// History archives run records in a local leveldb, keyed by start time so
// iteration returns them chronologically.
type History struct {
	db *leveldb.DB
}

func OpenHistory(path string) (*History, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &History{db: db}, nil
}

func (h *History) Close() error {
	return h.db.Close()
}

func (h *History) Append(record RunRecord) error {
	val, err := json.Marshal(record)
	if err != nil {
		return err
	}
	key := []byte(record.Start.UTC().Format(time.RFC3339Nano))
	return h.db.Put(key, val, nil)
}

func (h *History) List() ([]RunRecord, error) {
	var records []RunRecord
	iter := h.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		record := RunRecord{}
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, iter.Error()
}
