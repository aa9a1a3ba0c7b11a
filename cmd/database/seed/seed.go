// Package seed bulk-loads reference data from CSV files with a header row:
// ingredients as name,measurement_unit and tags as name,color,slug.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"foodgram/entities"
	"foodgram/internal/logging"
)

const batchSize = 500

// ImportIngredientsFile loads ingredients from path. Rows already present
// are skipped, so running it twice is harmless.
func ImportIngredientsFile(ctx context.Context, db *gorm.DB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ImportIngredients(ctx, db, f)
}

func ImportIngredients(ctx context.Context, db *gorm.DB, r io.Reader) (int64, error) {
	rows, err := readRecords(r, "name", "measurement_unit")
	if err != nil {
		return 0, err
	}

	ingredients := make([]entities.Ingredient, 0, len(rows))
	for _, row := range rows {
		ingredients = append(ingredients, entities.Ingredient{
			Name:            row["name"],
			MeasurementUnit: row["measurement_unit"],
		})
	}
	return insertIgnoringDuplicates(ctx, db, "ingredients", &ingredients, len(ingredients))
}

func ImportTagsFile(ctx context.Context, db *gorm.DB, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return ImportTags(ctx, db, f)
}

func ImportTags(ctx context.Context, db *gorm.DB, r io.Reader) (int64, error) {
	rows, err := readRecords(r, "name", "color", "slug")
	if err != nil {
		return 0, err
	}

	tags := make([]entities.Tag, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, entities.Tag{
			Name:  row["name"],
			Color: row["color"],
			Slug:  row["slug"],
		})
	}
	return insertIgnoringDuplicates(ctx, db, "tags", &tags, len(tags))
}

func insertIgnoringDuplicates(ctx context.Context, db *gorm.DB, table string, rows any, n int) (int64, error) {
	if n == 0 {
		return 0, nil
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, batchSize)
	if res.Error != nil {
		return 0, fmt.Errorf("import %s: %w", table, res.Error)
	}

	if res.RowsAffected == 0 {
		logging.Info().Str("table", table).Msg("reference data already loaded")
	} else {
		logging.Info().Str("table", table).Int64("inserted", res.RowsAffected).Int("read", n).Msg("reference data loaded")
	}
	return res.RowsAffected, nil
}

// readRecords parses CSV with the given header. Cells are trimmed and
// rows with an empty cell are rejected.
func readRecords(r io.Reader, header ...string) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	for i, name := range header {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(first[i], "\ufeff")), name) {
			return nil, fmt.Errorf("unexpected csv header %v, want %v", first, header)
		}
	}

	var rows []map[string]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]string, len(header))
		for i, name := range header {
			value := strings.TrimSpace(record[i])
			if value == "" {
				line, _ := reader.FieldPos(i)
				return nil, fmt.Errorf("line %d: empty %s", line, name)
			}
			row[name] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}
