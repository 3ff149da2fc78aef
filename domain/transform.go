package domain

// Transform maps a fetched sheet onto use case records and derives the
// summary. Rows get 1-based ids by position before rows without a name are
// dropped, so ids in the result may have gaps. Transform has no side
// effects; the same inputs always give the same board.
func Transform(sheet Sheet, fields FieldMap, src Source) Board {
	titles := make(map[int64]string, len(sheet.Columns))
	for _, col := range sheet.Columns {
		titles[col.ID] = col.Title
	}
	byTitle := fields.ByTitle()

	useCases := make([]UseCase, 0, len(sheet.Rows))
	for i, row := range sheet.Rows {
		uc := UseCase{ID: i + 1, Fields: make(map[string]string, len(byTitle))}
		for _, cell := range row.Cells {
			title, ok := titles[cell.ColumnID]
			if !ok {
				continue
			}
			field, ok := byTitle[title]
			if !ok || field == "" || field == FieldID {
				continue
			}
			uc.Fields[field] = cell.Text()
		}
		if uc.Name() == "" {
			continue
		}
		useCases = append(useCases, uc)
	}

	title := DefaultTitle
	if sheet.Name != nil {
		title = *sheet.Name
	}
	return Board{
		Metadata: Metadata{
			Title:       title,
			Source:      src.Label,
			LastUpdated: src.LastUpdated,
		},
		Summary:  Summarize(useCases),
		UseCases: useCases,
	}
}

// Summarize counts the use cases and the ones in each tracked status.
func Summarize(useCases []UseCase) Summary {
	s := Summary{TotalInitiatives: len(useCases)}
	for _, uc := range useCases {
		switch uc.Status() {
		case StatusInProduction:
			s.InProduction++
		case StatusPOCDone:
			s.POCDone++
		case StatusPOCInProgress:
			s.POCInProgress++
		}
	}
	return s
}
