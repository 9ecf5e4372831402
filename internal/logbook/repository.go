package logbook

import (
	"fmt"
	"time"

	"prodtrack/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

type LogbookRepository struct {
	Repository *repository.Repository
}

func NewLogbookRepository(r *repository.Repository) *LogbookRepository {
	return &LogbookRepository{Repository: r}
}

func (r *LogbookRepository) CreateEntry(entry *Entry) error {
	row := goqu.Record{
		"author_id":  entry.AuthorID,
		"entry_date": entry.EntryDate,
		"shift":      entry.Shift,
		"category":   entry.Category,
		"content":    entry.Content,
	}

	if entry.OrderID != nil {
		row["order_id"] = entry.OrderID
	}

	query := r.Repository.GoquDBWrapper.Insert("logbook_entries").Rows(row).Returning("id")

	if _, err := query.Executor().ScanVal(&entry.ID); err != nil {
		return fmt.Errorf("unable to execute SQL: %w", err)
	}

	return nil
}

func (r *LogbookRepository) GetEntry(id int) (*EntryResponse, error) {
	query := r.prepareEntryQuery().Where(goqu.Ex{"le.id": id})

	var flat FlatEntry

	ok, err := query.Executor().ScanStruct(&flat)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !ok {
		return nil, ErrEntryNotFound
	}

	return flat.TransformToEntryResponse(), nil
}

func (r *LogbookRepository) GetEntries(category string, from, to *time.Time, limit, offset int) ([]EntryResponse, error) {
	query := r.prepareEntryQuery().
		Order(goqu.I("le.entry_date").Desc(), goqu.I("le.created_at").Desc()).
		Limit(uint(limit)).
		Offset(uint(offset))

	if category != "" {
		query = query.Where(goqu.Ex{"le.category": category})
	}
	if from != nil {
		query = query.Where(goqu.I("le.entry_date").Gte(*from))
	}
	if to != nil {
		query = query.Where(goqu.I("le.entry_date").Lte(*to))
	}

	var flats []FlatEntry
	if err := query.Executor().ScanStructs(&flats); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	entries := make([]EntryResponse, 0, len(flats))
	for i := range flats {
		entries = append(entries, *flats[i].TransformToEntryResponse())
	}

	return entries, nil
}

func (r *LogbookRepository) prepareEntryQuery() *goqu.SelectDataset {
	return r.Repository.GoquDBWrapper.
		From(goqu.T("logbook_entries").As("le")).
		Select(
			goqu.I("le.id").As("id"),
			goqu.I("le.entry_date").As("entry_date"),
			goqu.I("le.shift").As("shift"),
			goqu.I("le.category").As("category"),
			goqu.I("le.content").As("content"),
			goqu.I("le.order_id").As("order_id"),
			goqu.I("le.created_at").As("created_at"),
			goqu.I("u.id").As("author_id"),
			goqu.I("u.username").As("author_username"),
			goqu.I("u.fullname").As("author_fullname"),
		).
		LeftJoin(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"le.author_id": goqu.I("u.id")}),
		)
}
