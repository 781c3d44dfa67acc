package store

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/arturoeanton/codeguard/internal/domain"
)

// CSVActivityLog appends activity records to a flat CSV file.
// All writes from this process go through one mutex so rows never interleave.
// The file is opened per append and never truncated.
type CSVActivityLog struct {
	path string
	mu   sync.Mutex
}

// NewCSVActivityLog returns a log bound to path. The file is created lazily on first Append.
func NewCSVActivityLog(path string) (*CSVActivityLog, error) {
	if path == "" {
		return nil, os.ErrInvalid
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create activity dir: %w", err)
		}
	}
	return &CSVActivityLog{path: path}, nil
}

// Name implements port.ActivitySink.
func (s *CSVActivityLog) Name() string { return "csv" }

// Path returns the backing file path.
func (s *CSVActivityLog) Path() string { return s.path }

// Append writes rec as one row, preceded by the header row if the file is new.
func (s *CSVActivityLog) Append(ctx context.Context, rec domain.ActivityRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat activity log: %w", err)
	}

	// Buffer header and row so each Append is a single write call.
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if info.Size() == 0 {
		if err := w.Write(domain.ActivityHeader); err != nil {
			return fmt.Errorf("encode header: %w", err)
		}
	}
	if err := w.Write(encodeRecord(rec)); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write activity log: %w", err)
	}
	return nil
}

// Count returns the number of data rows: lines minus the header.
func (s *CSVActivityLog) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		lines++
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("scan activity log: %w", err)
	}
	if lines == 0 {
		return 0, nil
	}
	return lines - 1, nil
}

// Recent returns up to limit records, newest first. Rows that fail to parse are skipped.
func (s *CSVActivityLog) Recent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	s.mu.Lock()
	data, err := os.ReadFile(s.path)
	s.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read activity log: %w", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var all []domain.ActivityRecord
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			continue
		}
		if first {
			first = false
			if len(row) > 0 && row[0] == domain.ActivityHeader[0] {
				continue
			}
		}
		rec, ok := decodeRecord(row)
		if ok {
			all = append(all, rec)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = len(all)
	}

	out := make([]domain.ActivityRecord, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func encodeRecord(rec domain.ActivityRecord) []string {
	return []string{
		rec.Time.Local().Format(domain.ActivityTimeLayout),
		rec.Language,
		strconv.Itoa(rec.CodeLength),
		domain.FormatSeconds(rec.Duration),
		string(rec.Status),
	}
}

func decodeRecord(row []string) (domain.ActivityRecord, bool) {
	if len(row) != len(domain.ActivityHeader) {
		return domain.ActivityRecord{}, false
	}
	ts, err := time.ParseInLocation(domain.ActivityTimeLayout, row[0], time.Local)
	if err != nil {
		return domain.ActivityRecord{}, false
	}
	n, err := strconv.Atoi(row[2])
	if err != nil {
		return domain.ActivityRecord{}, false
	}
	secs, err := strconv.ParseFloat(row[3], 64)
	if err != nil {
		return domain.ActivityRecord{}, false
	}
	return domain.ActivityRecord{
		Time:       ts,
		Language:   row[1],
		CodeLength: n,
		Duration:   time.Duration(secs * float64(time.Second)),
		Status:     domain.AuditStatus(row[4]),
	}, true
}
