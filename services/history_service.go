package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/StartUpFoundee/astral-guide-ai/models"
	"github.com/StartUpFoundee/astral-guide-ai/repository"
)

// csvHeader is the fixed export header. Column order is part of the format.
var csvHeader = []string{"Date", "Time", "Category", "Astrologer", "Question", "Answer"}

// DailyHistory is one day's worth of consultation records.
type DailyHistory struct {
	Date    string                 `json:"date"` // "2006-01-02"
	Records []models.HistoryRecord `json:"records"`
}

// HistoryService exposes the consultation history: the raw list, the
// grouped-by-date view derived from it, and the CSV export.
type HistoryService interface {
	All(identityKey string) ([]models.HistoryRecord, error)
	GroupedByDate(identityKey string) ([]DailyHistory, error)
	ExportCSV(identityKey string) ([]byte, error)
}

type historyService struct {
	historyRepo repository.HistoryRepository
}

// NewHistoryService creates a HistoryService over the given repository.
func NewHistoryService(historyRepo repository.HistoryRepository) HistoryService {
	return &historyService{historyRepo: historyRepo}
}

// All returns the full history for an identity in insertion order.
func (s *historyService) All(identityKey string) ([]models.HistoryRecord, error) {
	return s.historyRepo.All(identityKey)
}

// GroupedByDate partitions All() on the calendar date of each record's
// timestamp, newest day first. Purely derived; nothing extra is stored.
func (s *historyService) GroupedByDate(identityKey string) ([]DailyHistory, error) {
	records, err := s.historyRepo.All(identityKey)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string][]models.HistoryRecord)
	for _, rec := range records {
		date := rec.Timestamp.Format("2006-01-02")
		byDate[date] = append(byDate[date], rec)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	grouped := make([]DailyHistory, 0, len(dates))
	for _, date := range dates {
		grouped = append(grouped, DailyHistory{Date: date, Records: byDate[date]})
	}
	return grouped, nil
}

// ExportCSV serializes the history as RFC-4180 CSV with the header
// Date,Time,Category,Astrologer,Question,Answer. Free-text fields with
// embedded quotes or commas are quoted by the writer, so the output
// round-trips through any standard CSV reader.
func (s *historyService) ExportCSV(identityKey string) ([]byte, error) {
	records, err := s.historyRepo.All(identityKey)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.Timestamp.Format("2006-01-02"),
			rec.Timestamp.Format("15:04:05"),
			rec.CategoryName,
			rec.AstrologerName,
			rec.Question,
			rec.Answer,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
